package miniball

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// machEps is the spacing of float64 values near 1.
const machEps = 2.220446049250313e-16

// affineBasis maintains the ball through a stack of at most dims+1 support
// points, together with an orthogonal basis of their affine hull.
//
// With q0 the first support point and Q_k = q_k - q0, level k stores
//   - v[k] = Q_k minus its projection onto span(v[1..k-1])
//   - z[k] = 2*|v[k]|^2
//   - c[k], sqR[k]: the smallest ball with q_0..q_k on its boundary
//
// Pushing a point costs O(dims*k); popping is O(1).
type affineBasis struct {
	ps      *PointSet
	dims    int
	m       int // stack depth
	stack   []int
	affTol  float64
	resolve float64 // smallest |v| distinguishable from rounding noise

	q0  []float64
	v   [][]float64
	z   []float64
	c   [][]float64
	sqR []float64

	// The current ball is the one produced by the last successful push.
	// Popping leaves it in place.
	curC    []float64
	curSqR  float64
	support []int

	pushes int
}

func newAffineBasis(ps *PointSet, affTol float64) *affineBasis {
	d := ps.Dimension()
	b := &affineBasis{
		ps:      ps,
		dims:    d,
		stack:   make([]int, d+1),
		affTol:  affTol,
		resolve: 16 * machEps * ps.Scale(),
		q0:      make([]float64, d),
		v:       make([][]float64, d+1),
		z:       make([]float64, d+1),
		c:       make([][]float64, d+1),
		sqR:     make([]float64, d+1),
		support: make([]int, 0, d+1),
	}
	for k := 0; k <= d; k++ {
		b.v[k] = make([]float64, d)
		b.c[k] = make([]float64, d)
	}
	b.Reset()
	return b
}

// Reset empties the stack and makes the current ball empty (squared radius
// -1), so every point lies outside it.
func (b *affineBasis) Reset() {
	b.m = 0
	for i := range b.c[0] {
		b.c[0][i] = 0
	}
	b.curC = b.c[0]
	b.curSqR = -1
	b.support = b.support[:0]
}

// Size returns the number of points on the stack.
func (b *affineBasis) Size() int { return b.m }

// AddPoint pushes point i onto the support stack and makes the ball through
// the stack current. It returns false, leaving all state unchanged, if the
// stack is full or if point i is affinely dependent on the stack within
// tolerance.
func (b *affineBasis) AddPoint(i int) bool {
	if b.m > b.dims {
		return false
	}
	p := b.ps.At(i)
	m := b.m

	if m == 0 {
		copy(b.q0, p)
		copy(b.c[0], p)
		b.sqR[0] = 0
	} else {
		vm := b.v[m]
		floats.SubTo(vm, p, b.q0)
		qq := floats.Dot(vm, vm)

		// Two Gram-Schmidt sweeps keep vm orthogonal to the basis when
		// p is close to the existing hull.
		for pass := 0; pass < 2; pass++ {
			for k := 1; k < m; k++ {
				a := 2 * floats.Dot(b.v[k], vm) / b.z[k]
				floats.AddScaled(vm, -a, b.v[k])
			}
		}

		vv := floats.Dot(vm, vm)
		if vv <= b.affTol*qq || vv <= b.resolve*b.resolve {
			return false
		}
		b.z[m] = 2 * vv

		e := squaredDistance(p, b.c[m-1]) - b.sqR[m-1]
		f := e / b.z[m]
		copy(b.c[m], b.c[m-1])
		floats.AddScaled(b.c[m], f, vm)
		b.sqR[m] = b.sqR[m-1] + e*f/2
	}

	b.curC = b.c[m]
	b.curSqR = b.sqR[m]
	b.stack[m] = i
	b.m++
	b.support = append(b.support[:0], b.stack[:b.m]...)
	b.pushes++
	return true
}

// RemoveLast pops the most recently pushed point.
func (b *affineBasis) RemoveLast() {
	if b.m > 0 {
		b.m--
	}
}

// SquaredDistanceToCenter returns |p - center|^2 for the current ball.
func (b *affineBasis) SquaredDistanceToCenter(p []float64) float64 {
	return squaredDistance(p, b.curC)
}

// Excess returns how far p lies outside the current ball, in squared-distance
// units. Negative values mean p is strictly inside.
func (b *affineBasis) Excess(p []float64) float64 {
	return b.SquaredDistanceToCenter(p) - b.curSqR
}

// CurrentBall returns the current center (aliasing internal storage) and
// squared radius.
func (b *affineBasis) CurrentBall() ([]float64, float64) {
	return b.curC, b.curSqR
}

// Support returns the point indices whose boundary defines the current ball,
// in push order.
func (b *affineBasis) Support() []int {
	out := make([]int, len(b.support))
	copy(out, b.support)
	return out
}

// tolerance is the excess a point may have and still count as contained.
// It scales with both the ball and the coordinate magnitudes, since the
// center carries rounding error proportional to the coordinates.
func (b *affineBasis) tolerance(rel float64) float64 {
	if b.curSqR <= 0 {
		return 0
	}
	return rel * (b.curSqR + b.ps.Scale()*math.Sqrt(b.curSqR))
}
