package miniball

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// PointSet is an immutable view over n points of dimensionality dims, plus a
// private scan order used by the move-to-front solver.
//
// The scan order is a doubly linked list over point indices:
//   - front is the first index in scan order
//   - next[i] / prev[i] link neighbors, -1 marks either end
//
// Reordering never changes which points are in the set.
type PointSet struct {
	data  []float64 // flat row-major point data (n * dims)
	n     int
	dims  int
	scale float64 // max |coordinate|

	front int
	next  []int
	prev  []int
}

// NewPointSet builds a PointSet from one slice per point. The first row fixes
// the dimensionality. The input is copied.
func NewPointSet(data [][]float64) (*PointSet, error) {
	if data == nil {
		return nil, invalidInput(-1, -1, "nil point set")
	}
	if len(data) == 0 {
		return nil, invalidInput(-1, -1, "empty point set")
	}
	dims := len(data[0])
	if dims == 0 {
		return nil, invalidInput(0, -1, "point has no coordinates")
	}

	flat := make([]float64, len(data)*dims)
	for i, row := range data {
		if len(row) != dims {
			return nil, invalidInput(i, -1, "dimension %d does not match first row dimension %d", len(row), dims)
		}
		copy(flat[i*dims:], row)
	}
	return newPointSet(flat, len(data), dims)
}

// NewPointSetFlat builds a PointSet from flat row-major data with n points of
// dimensionality dims. The input is copied.
func NewPointSetFlat(data []float64, n, dims int) (*PointSet, error) {
	if data == nil {
		return nil, invalidInput(-1, -1, "nil point set")
	}
	if n <= 0 {
		return nil, invalidInput(-1, -1, "empty point set")
	}
	if dims <= 0 {
		return nil, invalidInput(-1, -1, "dimension must be >= 1, got %d", dims)
	}
	if len(data) != n*dims {
		return nil, invalidInput(-1, -1, "data length %d does not match n*dims = %d (n=%d, dims=%d)", len(data), n*dims, n, dims)
	}
	flat := make([]float64, len(data))
	copy(flat, data)
	return newPointSet(flat, n, dims)
}

// NewPointSetMatrix builds a PointSet from a gonum matrix whose rows are
// points and whose columns are coordinates.
func NewPointSetMatrix(m mat.Matrix) (*PointSet, error) {
	if m == nil {
		return nil, invalidInput(-1, -1, "nil point matrix")
	}
	if d, ok := m.(*mat.Dense); ok && (d == nil || d.IsEmpty()) {
		return nil, invalidInput(-1, -1, "empty point set")
	}
	n, dims := m.Dims()
	if n == 0 {
		return nil, invalidInput(-1, -1, "empty point set")
	}
	if dims == 0 {
		return nil, invalidInput(0, -1, "point has no coordinates")
	}
	flat := make([]float64, n*dims)
	for i := 0; i < n; i++ {
		mat.Row(flat[i*dims:(i+1)*dims], i, m)
	}
	return newPointSet(flat, n, dims)
}

// newPointSet takes ownership of flat, validates it and sets up the identity
// scan order.
func newPointSet(flat []float64, n, dims int) (*PointSet, error) {
	var scale float64
	for k, v := range flat {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidInput(k/dims, k%dims, "non-finite coordinate %v", v)
		}
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}

	ps := &PointSet{
		data:  flat,
		n:     n,
		dims:  dims,
		scale: scale,
		next:  make([]int, n),
		prev:  make([]int, n),
	}
	ps.resetOrder(nil)
	return ps, nil
}

// Size returns the number of points.
func (ps *PointSet) Size() int { return ps.n }

// Dimension returns the dimensionality of every point.
func (ps *PointSet) Dimension() int { return ps.dims }

// Scale returns the largest absolute coordinate in the set.
func (ps *PointSet) Scale() float64 { return ps.scale }

// At returns the coordinates of point i. The slice aliases internal storage
// and must not be modified.
func (ps *PointSet) At(i int) []float64 {
	return ps.data[i*ps.dims : (i+1)*ps.dims]
}

// Front returns the first point index in scan order.
func (ps *PointSet) Front() int { return ps.front }

// Next returns the index following i in scan order, or -1 at the end.
func (ps *PointSet) Next(i int) int { return ps.next[i] }

// MoveToFront moves point i to the front of the scan order.
func (ps *PointSet) MoveToFront(i int) {
	if i == ps.front {
		return
	}
	// unlink
	p, nx := ps.prev[i], ps.next[i]
	ps.next[p] = nx
	if nx >= 0 {
		ps.prev[nx] = p
	}
	// relink at front
	ps.prev[i] = -1
	ps.next[i] = ps.front
	ps.prev[ps.front] = i
	ps.front = i
}

// Order returns the current scan order as a slice of point indices.
func (ps *PointSet) Order() []int {
	order := make([]int, 0, ps.n)
	for i := ps.front; i >= 0; i = ps.next[i] {
		order = append(order, i)
	}
	return order
}

// Shuffle replaces the scan order with a random permutation drawn from rng.
func (ps *PointSet) Shuffle(rng *rand.Rand) {
	ps.resetOrder(rng.Perm(ps.n))
}

// resetOrder links the scan order as perm, or as the identity when perm is nil.
func (ps *PointSet) resetOrder(perm []int) {
	at := func(k int) int {
		if perm == nil {
			return k
		}
		return perm[k]
	}
	ps.front = at(0)
	for k := 0; k < ps.n; k++ {
		i := at(k)
		ps.prev[i] = -1
		ps.next[i] = -1
		if k > 0 {
			ps.prev[i] = at(k - 1)
		}
		if k < ps.n-1 {
			ps.next[i] = at(k + 1)
		}
	}
}
