package miniball

import (
	"math"
	"math/rand"
	"sort"
)

// solver runs move-to-front with pivoting over one PointSet. It owns the
// set's scan order and the affine basis for the duration of a solve.
type solver struct {
	ps  *PointSet
	b   *affineBasis
	cfg Config

	// supportEnd is the first point in scan order after the points moved to
	// the front by the innermost completed mtf call, or -1.
	supportEnd int
}

func newSolver(ps *PointSet, cfg Config) *solver {
	return &solver{
		ps:         ps,
		b:          newAffineBasis(ps, cfg.AffineTolerance),
		cfg:        cfg,
		supportEnd: -1,
	}
}

func (s *solver) debugf(format string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf("[debug] "+format, args...)
	}
}

func (s *solver) warnf(format string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf("[warn] "+format, args...)
	}
}

// outside reports whether point i violates the current ball.
func (s *solver) outside(i int) bool {
	return s.b.Excess(s.ps.At(i)) > s.b.tolerance(s.cfg.Tolerance)
}

// moveToFront moves point i to the front of the scan order, keeping
// supportEnd pointing at the same successor.
func (s *solver) moveToFront(i int) {
	if s.supportEnd == i {
		s.supportEnd = s.ps.Next(i)
	}
	s.ps.MoveToFront(i)
}

// mtf computes the smallest ball of the scan-order prefix before end with the
// points on the basis stack on its boundary. end == -1 scans every point.
func (s *solver) mtf(end int) {
	s.supportEnd = s.ps.Front()

	// dims+1 affinely independent boundary points fix the ball.
	if s.b.Size() == s.ps.Dimension()+1 {
		return
	}

	for k := s.ps.Front(); k != end; {
		j := k
		k = s.ps.Next(j)
		if !s.outside(j) {
			continue
		}
		// A degenerate point lies on the hull of the stack; treat it as
		// contained.
		if s.b.AddPoint(j) {
			s.mtf(j)
			s.b.RemoveLast()
			s.moveToFront(j)
		}
	}
}

// maxExcess returns the point at or after t in scan order that lies farthest
// outside the current ball, and its excess. It returns -1 and 0 when no point
// has positive excess.
func (s *solver) maxExcess(t int) (int, float64) {
	pivot, maxE := -1, 0.0
	for k := t; k >= 0; k = s.ps.Next(k) {
		if e := s.b.Excess(s.ps.At(k)); e > maxE {
			pivot, maxE = k, e
		}
	}
	return pivot, maxE
}

// pivot drives mtf from the farthest violating point outward. Each round
// restarts the scan with the pivot on the boundary, and rounds continue
// while the radius grows.
func (s *solver) pivot() {
	t := s.ps.Next(s.ps.Front())
	s.mtf(t)

	for {
		pivot, maxE := s.maxExcess(t)
		if pivot < 0 || maxE <= s.b.tolerance(s.cfg.Tolerance) {
			return
		}

		t = s.supportEnd
		if t == pivot {
			t = s.ps.Next(t)
		}

		_, oldSqR := s.b.CurrentBall()
		s.debugf("pivot %d excess=%g squaredRadius=%g", pivot, maxE, oldSqR)
		if s.b.AddPoint(pivot) {
			s.mtf(s.supportEnd)
			s.b.RemoveLast()
		}
		s.moveToFront(pivot)

		if _, sqR := s.b.CurrentBall(); sqR <= oldSqR {
			return
		}
	}
}

// run computes a ball for the current scan order from an empty stack.
func (s *solver) run() {
	s.b.Reset()
	s.supportEnd = s.ps.Front()
	if s.cfg.Pivoting {
		s.pivot()
	} else {
		s.mtf(-1)
	}
}

// solve computes the ball and applies the recovery policy: a point left
// outside by rounding triggers a fresh computation seeded with the current
// support and the violator at the front of the scan order. If violations
// persist after MaxRecoveries attempts, the radius is grown to cover them.
func (s *solver) solve() *Ball {
	if s.cfg.Shuffle {
		s.ps.Shuffle(rand.New(rand.NewSource(s.cfg.Seed)))
	}
	s.run()

	inflated := false
	for attempt := 0; ; attempt++ {
		worst, e := s.maxExcess(s.ps.Front())
		if worst < 0 || e <= s.b.tolerance(s.cfg.Tolerance) {
			break
		}
		if attempt >= s.cfg.MaxRecoveries {
			s.warnf("point %d still outside after %d recoveries (excess=%g), growing radius", worst, attempt, e)
			inflated = true
			break
		}
		s.warnf("point %d outside final ball (excess=%g), recomputing from support", worst, e)

		support := s.b.Support()
		for i := len(support) - 1; i >= 0; i-- {
			s.ps.MoveToFront(support[i])
		}
		s.ps.MoveToFront(worst)
		s.run()
	}

	center, sqR := s.b.CurrentBall()
	ball := &Ball{
		Center:        append([]float64(nil), center...),
		SquaredRadius: math.Max(sqR, 0),
		Support:       s.b.Support(),
		Iterations:    s.b.pushes,
	}
	if inflated {
		for i := 0; i < s.ps.Size(); i++ {
			if d := squaredDistance(s.ps.At(i), ball.Center); d > ball.SquaredRadius {
				ball.SquaredRadius = d
			}
		}
	}
	ball.Radius = math.Sqrt(ball.SquaredRadius)
	sort.Ints(ball.Support)

	s.debugf("done: radius=%g support=%v pushes=%d", ball.Radius, ball.Support, ball.Iterations)
	return ball
}
