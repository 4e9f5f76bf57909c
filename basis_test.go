package miniball

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// basisPoints indexes:
//
//	0 (0,0)  1 (2,0)  2 (5,0)  3 (0.5,1e-12)  4 (0.5,1e-6)  5 (0,2)  6 (2,2)
func basisPoints(t *testing.T) *PointSet {
	t.Helper()
	ps, err := NewPointSet([][]float64{
		{0, 0}, {2, 0}, {5, 0}, {0.5, 1e-12}, {0.5, 1e-6}, {0, 2}, {2, 2},
	})
	require.NoError(t, err)
	return ps
}

func TestAffineBasis_Empty(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)

	assert.Equal(t, 0, b.Size())
	_, sqR := b.CurrentBall()
	assert.Equal(t, -1.0, sqR)
	assert.Empty(t, b.Support())
	assert.Equal(t, 0.0, b.tolerance(defaultTolerance))
	// Every point, even the origin, lies outside the empty ball.
	assert.Greater(t, b.Excess([]float64{0, 0}), 0.0)
}

func TestAffineBasis_PushSequence(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)

	require.True(t, b.AddPoint(0))
	c, sqR := b.CurrentBall()
	assert.Equal(t, []float64{0, 0}, c)
	assert.Equal(t, 0.0, sqR)

	require.True(t, b.AddPoint(1))
	c, sqR = b.CurrentBall()
	assert.InDeltaSlice(t, []float64{1, 0}, c, floatTol)
	assert.InDelta(t, 1.0, sqR, floatTol)

	require.True(t, b.AddPoint(5))
	c, sqR = b.CurrentBall()
	assert.InDeltaSlice(t, []float64{1, 1}, c, floatTol)
	assert.InDelta(t, 2.0, sqR, floatTol)

	// All stacked points are on the boundary.
	for _, i := range []int{0, 1, 5} {
		assert.InDelta(t, 0.0, b.Excess(b.ps.At(i)), floatTol, "point %d", i)
	}
	assert.Equal(t, 3, b.Size())
	assert.Equal(t, []int{0, 1, 5}, b.Support())
	assert.Equal(t, 3, b.pushes)
}

func TestAffineBasis_RejectsWhenFull(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))
	require.True(t, b.AddPoint(1))
	require.True(t, b.AddPoint(5))

	assert.False(t, b.AddPoint(6))
	assert.Equal(t, 3, b.Size())
	assert.Equal(t, 3, b.pushes)
}

func TestAffineBasis_RejectsDuplicate(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))

	assert.False(t, b.AddPoint(0))
	assert.Equal(t, 1, b.Size())
	_, sqR := b.CurrentBall()
	assert.Equal(t, 0.0, sqR)
}

func TestAffineBasis_RejectsCollinear(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))
	require.True(t, b.AddPoint(1))

	assert.False(t, b.AddPoint(2))
	assert.Equal(t, []int{0, 1}, b.Support())
	c, sqR := b.CurrentBall()
	assert.InDeltaSlice(t, []float64{1, 0}, c, floatTol)
	assert.InDelta(t, 1.0, sqR, floatTol)
}

func TestAffineBasis_NearDegenerate(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))
	require.True(t, b.AddPoint(1))

	// 1e-12 off the line: below the affine tolerance.
	assert.False(t, b.AddPoint(3))
	// 1e-6 off the line: a genuine, if thin, triangle.
	assert.True(t, b.AddPoint(4))
	_, sqR := b.CurrentBall()
	assert.Greater(t, sqR, 1e10)
	for _, i := range []int{0, 1, 4} {
		assert.InDelta(t, 0.0, b.Excess(b.ps.At(i))/sqR, 1e-12, "point %d", i)
	}
}

func TestAffineBasis_RemoveLastKeepsBall(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))
	require.True(t, b.AddPoint(1))
	require.True(t, b.AddPoint(5))

	b.RemoveLast()
	assert.Equal(t, 2, b.Size())
	c, sqR := b.CurrentBall()
	assert.InDeltaSlice(t, []float64{1, 1}, c, floatTol)
	assert.InDelta(t, 2.0, sqR, floatTol)
	assert.Equal(t, []int{0, 1, 5}, b.Support())

	// Pushing at the popped level replaces it.
	require.True(t, b.AddPoint(6))
	c, sqR = b.CurrentBall()
	assert.InDeltaSlice(t, []float64{1, 1}, c, floatTol)
	assert.InDelta(t, 2.0, sqR, floatTol)
	assert.Equal(t, []int{0, 1, 6}, b.Support())

	b.RemoveLast()
	b.RemoveLast()
	b.RemoveLast()
	b.RemoveLast() // no-op on an empty stack
	assert.Equal(t, 0, b.Size())
}

func TestAffineBasis_Reset(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))
	require.True(t, b.AddPoint(1))

	b.Reset()
	assert.Equal(t, 0, b.Size())
	c, sqR := b.CurrentBall()
	assert.Equal(t, []float64{0, 0}, c)
	assert.Equal(t, -1.0, sqR)
	assert.Empty(t, b.Support())

	require.True(t, b.AddPoint(6))
	c, sqR = b.CurrentBall()
	assert.Equal(t, []float64{2, 2}, c)
	assert.Equal(t, 0.0, sqR)
}

func TestAffineBasis_Tolerance(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))
	assert.Equal(t, 0.0, b.tolerance(1e-3))

	require.True(t, b.AddPoint(1))
	// r^2 = 1, Scale = 5.
	assert.InDelta(t, 6e-3, b.tolerance(1e-3), 1e-15)
}

func TestAffineBasis_SupportIsCopy(t *testing.T) {
	b := newAffineBasis(basisPoints(t), defaultAffineTolerance)
	require.True(t, b.AddPoint(0))

	s := b.Support()
	s[0] = 99
	assert.Equal(t, []int{0}, b.Support())
}
