package miniball

import (
	"fmt"
	"math"
	"sort"
)

// OutlierScores returns, for each point, its distance to the ball center as
// a fraction of the radius, clamped to [0, 1]. Support points score 1, as do
// points whose dimension differs from the ball's. When the radius is 0 all
// scores are 0.
func OutlierScores(data [][]float64, b *Ball) []float64 {
	scores := make([]float64, len(data))
	if b == nil || b.Radius == 0 {
		return scores
	}
	for i, p := range data {
		if len(p) != len(b.Center) {
			scores[i] = 1
			continue
		}
		scores[i] = math.Min(Distance(p, b.Center)/b.Radius, 1)
	}
	return scores
}

// Peel removes up to layers successive support sets ("onion peeling"). Each
// layer is the support of the minimum enclosing ball of the points left by
// the previous layers; these boundary points are the usual outlier
// candidates. Peel returns the original indices removed per layer and the
// ball of the remaining points. It stops early rather than remove every
// remaining point.
func Peel(data [][]float64, layers int, cfg Config) ([][]int, *Ball, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, nil, err
	}
	if layers < 0 {
		return nil, nil, fmt.Errorf("miniball: layers must be >= 0, got %d", layers)
	}
	ps, err := NewPointSet(data)
	if err != nil {
		return nil, nil, err
	}

	remaining := make([]int, ps.Size())
	for i := range remaining {
		remaining[i] = i
	}
	ball := solveSubset(ps, remaining, cfg)

	var removed [][]int
	for l := 0; l < layers && len(remaining) > len(ball.Support); l++ {
		layer := ball.Support
		drop := make(map[int]bool, len(layer))
		for _, i := range layer {
			drop[i] = true
		}
		kept := remaining[:0]
		for _, i := range remaining {
			if !drop[i] {
				kept = append(kept, i)
			}
		}
		remaining = kept
		removed = append(removed, layer)
		ball = solveSubset(ps, remaining, cfg)
	}
	return removed, ball, nil
}

// solveSubset solves the ball of the points of ps listed in idx (non-empty)
// and reports its support as indices into ps.
func solveSubset(ps *PointSet, idx []int, cfg Config) *Ball {
	dims := ps.Dimension()
	flat := make([]float64, 0, len(idx)*dims)
	for _, i := range idx {
		flat = append(flat, ps.At(i)...)
	}
	sub, err := newPointSet(flat, len(idx), dims)
	if err != nil {
		// ps was validated on construction.
		panic(err)
	}
	b := newSolver(sub, cfg).solve()
	for k, s := range b.Support {
		b.Support[k] = idx[s]
	}
	sort.Ints(b.Support)
	return b
}
