// Package miniball computes the minimum enclosing ball (miniball) of a finite
// set of points in d-dimensional Euclidean space: the unique smallest ball
// that contains every point.
//
// The solver is Welzl's move-to-front algorithm in Gärtner's formulation,
// with a pivoting heuristic. The ball through the current support points is
// kept in an incrementally updated orthogonal basis of their affine hull, so
// adding or removing a support point costs O(d·k) instead of a fresh
// O(d³) solve. Affinely dependent candidates are rejected with a relative
// tolerance, and a point left outside by rounding triggers a recomputation,
// so any well-formed point set yields a valid ball.
//
// Basic usage:
//
//	ball, err := miniball.Solve(points, miniball.DefaultConfig())
//	// ball.Center, ball.Radius, ball.SquaredRadius
//	// ball.Support lists the input indices on the boundary
//
// Flat row-major data and gonum matrices are accepted too:
//
//	ball, err := miniball.SolveFlat(flat, n, dims, cfg)
//	ball, err := miniball.SolveMatrix(m, cfg)
//
// Malformed input (nil or empty sets, ragged rows, NaN or ±Inf coordinates)
// returns an error matching [ErrInvalidInput].
//
// # Building on the solver
//
// [SolveBatch] solves independent point sets concurrently. [NewBallTree]
// builds a ball tree whose node bounds are exact minimum enclosing balls.
// [OutlierScores] and [Peel] use the ball for simple outlier detection, and
// [Ball.Verify] reports how closely a result meets the optimality conditions.
// [ParseConfig] reads solver settings from YAML.
package miniball
