package miniball

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPointSet_BasicProperties(t *testing.T) {
	ps, err := NewPointSet([][]float64{{1, -2, 3}, {4, 5, -6}})
	require.NoError(t, err)

	assert.Equal(t, 2, ps.Size())
	assert.Equal(t, 3, ps.Dimension())
	assert.Equal(t, 6.0, ps.Scale())
	assert.Equal(t, []float64{4, 5, -6}, ps.At(1))
	assert.Equal(t, []int{0, 1}, ps.Order())
}

func TestPointSet_CopiesInput(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}}
	ps, err := NewPointSet(data)
	require.NoError(t, err)
	data[0][0] = 100
	assert.Equal(t, []float64{1, 2}, ps.At(0))

	flat := []float64{1, 2, 3, 4}
	ps, err = NewPointSetFlat(flat, 2, 2)
	require.NoError(t, err)
	flat[3] = -1
	assert.Equal(t, []float64{3, 4}, ps.At(1))
}

func TestPointSet_MoveToFront(t *testing.T) {
	ps, err := NewPointSetFlat([]float64{0, 1, 2, 3, 4}, 5, 1)
	require.NoError(t, err)

	ps.MoveToFront(3)
	assert.Equal(t, []int{3, 0, 1, 2, 4}, ps.Order())
	ps.MoveToFront(4) // last element
	assert.Equal(t, []int{4, 3, 0, 1, 2}, ps.Order())
	ps.MoveToFront(4) // already at front
	assert.Equal(t, []int{4, 3, 0, 1, 2}, ps.Order())
	ps.MoveToFront(1)
	assert.Equal(t, []int{1, 4, 3, 0, 2}, ps.Order())

	// Walking with Front/Next agrees with Order.
	var walked []int
	for i := ps.Front(); i >= 0; i = ps.Next(i) {
		walked = append(walked, i)
	}
	assert.Equal(t, ps.Order(), walked)

	// Points themselves never move.
	for i := 0; i < 5; i++ {
		assert.Equal(t, []float64{float64(i)}, ps.At(i))
	}
}

func TestPointSet_MoveToFrontRandomIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 40
	ps, err := NewPointSet(randomPoints(rng, n, 2))
	require.NoError(t, err)

	for k := 0; k < 500; k++ {
		ps.MoveToFront(rng.Intn(n))
	}
	order := ps.Order()
	require.Len(t, order, n)
	assert.ElementsMatch(t, identity(n), order)
}

func TestPointSet_Shuffle(t *testing.T) {
	ps, err := NewPointSetFlat(make([]float64, 20), 20, 1)
	require.NoError(t, err)

	ps.Shuffle(rand.New(rand.NewSource(5)))
	first := ps.Order()
	assert.ElementsMatch(t, identity(20), first)

	ps.Shuffle(rand.New(rand.NewSource(5)))
	assert.Equal(t, first, ps.Order())
}

func TestNewPointSetMatrix(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{3, 1, 3, 1, 1, 0})
	ps, err := NewPointSetMatrix(m)
	require.NoError(t, err)
	assert.Equal(t, 3, ps.Size())
	assert.Equal(t, 2, ps.Dimension())
	assert.Equal(t, []float64{1, 0}, ps.At(2))

	// Transposed views are read through the Matrix interface.
	ps, err = NewPointSetMatrix(m.T())
	require.NoError(t, err)
	assert.Equal(t, 2, ps.Size())
	assert.Equal(t, []float64{1, 1, 0}, ps.At(1))
}

func TestNewPointSetMatrix_Invalid(t *testing.T) {
	_, err := NewPointSetMatrix(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var nilDense *mat.Dense
	_, err = NewPointSetMatrix(nilDense)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewPointSetMatrix(&mat.Dense{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewPointSetMatrix(mat.NewDense(1, 2, []float64{0, math.NaN()}))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewPointSetFlat_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		n, dims int
	}{
		{"nil", nil, 1, 1},
		{"zero points", []float64{}, 0, 2},
		{"zero dims", []float64{}, 2, 0},
		{"negative dims", []float64{}, 2, -1},
		{"short", []float64{1, 2, 3}, 2, 2},
		{"long", []float64{1, 2, 3, 4, 5}, 2, 2},
		{"inf", []float64{1, math.Inf(1)}, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := NewPointSetFlat(tt.data, tt.n, tt.dims)
			assert.Nil(t, ps)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestInputError_Message(t *testing.T) {
	assert.Equal(t, "miniball: invalid input at row 2, col 1: non-finite coordinate NaN",
		(&InputError{Row: 2, Col: 1, Reason: "non-finite coordinate NaN"}).Error())
	assert.Equal(t, "miniball: invalid input at row 3: bad",
		(&InputError{Row: 3, Col: -1, Reason: "bad"}).Error())
	assert.Equal(t, "miniball: invalid input: empty point set",
		(&InputError{Row: -1, Col: -1, Reason: "empty point set"}).Error())
}
