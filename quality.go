package miniball

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Quality summarizes how well a Ball satisfies the optimality conditions of
// a minimum enclosing ball. It is meant for tests and diagnostics; computing
// it costs O(n*d + d^3).
type Quality struct {
	// QRInconsistency is the residual of writing the center as an affine
	// combination of the support points. Near 0 for a consistent result.
	QRInconsistency float64

	// MinConvexCoefficient is the smallest coefficient of that combination.
	// The center lies in the convex hull of the support iff it is >= 0, which
	// is what makes the ball minimal.
	MinConvexCoefficient float64

	// MaxOverlength is the largest (dist(p, center) - radius) / radius over
	// all points, or 0 if every point is inside.
	MaxOverlength float64

	// MaxUnderlength is the largest |dist(s, center) - radius| / radius over
	// the support points.
	MaxUnderlength float64

	Iterations  int
	SupportSize int
}

func (q Quality) String() string {
	return fmt.Sprintf("Quality{qrInconsistency=%g, minConvexCoefficient=%g, maxOverlength=%g, maxUnderlength=%g, iterations=%d, supportSize=%d}",
		q.QRInconsistency, q.MinConvexCoefficient, q.MaxOverlength, q.MaxUnderlength, q.Iterations, q.SupportSize)
}

// Verify checks b against the point set it was computed from.
// Lengths are relative to the radius unless the radius is 0, in which case
// they are absolute.
func (b *Ball) Verify(data [][]float64) (Quality, error) {
	ps, err := NewPointSet(data)
	if err != nil {
		return Quality{}, err
	}
	d := ps.Dimension()
	if d != len(b.Center) {
		return Quality{}, fmt.Errorf("miniball: ball has dimension %d, points have %d", len(b.Center), d)
	}
	if len(b.Support) == 0 || len(b.Support) > d+1 {
		return Quality{}, fmt.Errorf("miniball: support size %d out of range [1, %d]", len(b.Support), d+1)
	}
	for _, s := range b.Support {
		if s < 0 || s >= ps.Size() {
			return Quality{}, fmt.Errorf("miniball: support index %d out of range [0, %d)", s, ps.Size())
		}
	}

	q := Quality{Iterations: b.Iterations, SupportSize: len(b.Support)}
	q.QRInconsistency, q.MinConvexCoefficient = affineCoefficients(ps, b.Support, b.Center)

	norm := b.Radius
	if norm == 0 {
		norm = 1
	}
	onSupport := make(map[int]bool, len(b.Support))
	for _, s := range b.Support {
		onSupport[s] = true
	}
	for i := 0; i < ps.Size(); i++ {
		diff := (Distance(ps.At(i), b.Center) - b.Radius) / norm
		if diff > q.MaxOverlength {
			q.MaxOverlength = diff
		}
		if onSupport[i] && math.Abs(diff) > q.MaxUnderlength {
			q.MaxUnderlength = math.Abs(diff)
		}
	}
	return q, nil
}

// affineCoefficients solves, in the least-squares sense,
//
//	sum_j lambda_j * s_j = center,  sum_j lambda_j = 1
//
// over the support points s_j and returns the residual norm and the smallest
// lambda_j.
func affineCoefficients(ps *PointSet, support []int, center []float64) (residual, minLambda float64) {
	d, k := ps.Dimension(), len(support)
	a := mat.NewDense(d+1, k, nil)
	for j, s := range support {
		for i, v := range ps.At(s) {
			a.Set(i, j, v)
		}
		a.Set(d, j, 1)
	}
	rhs := mat.NewVecDense(d+1, nil)
	for i, v := range center {
		rhs.SetVec(i, v)
	}
	rhs.SetVec(d, 1)

	var lambda mat.VecDense
	if err := lambda.SolveVec(a, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return math.Inf(1), math.Inf(-1)
		}
	}

	var r mat.VecDense
	r.MulVec(a, &lambda)
	r.SubVec(&r, rhs)
	residual = mat.Norm(&r, 2) / math.Max(1, mat.Norm(rhs, 2))

	minLambda = math.Inf(1)
	for j := 0; j < k; j++ {
		minLambda = math.Min(minLambda, lambda.AtVec(j))
	}
	return residual, minLambda
}
