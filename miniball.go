package miniball

import (
	"fmt"
	"log"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// Config controls the solver's numerical policy.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Tolerance is the relative slack for containment tests. A point counts as
	// inside when its squared distance to the center exceeds the squared
	// radius r² by at most Tolerance*(r² + Scale*r), where Scale is the
	// largest absolute input coordinate. Must be >= 0; 0 selects the
	// default. Default: 1e-14.
	Tolerance float64 `yaml:"tolerance"`

	// AffineTolerance rejects a support candidate whose component orthogonal
	// to the current affine hull has squared length below AffineTolerance
	// times its squared distance from the anchor point. Such points are
	// treated as already contained. Must be >= 0; 0 selects the default.
	// Default: 1e-20.
	AffineTolerance float64 `yaml:"affine_tolerance"`

	// Pivoting restarts each pass from the point farthest outside the current
	// ball instead of scanning in order. It typically cuts the number of
	// restarts by a large factor. Default: true.
	Pivoting bool `yaml:"pivoting"`

	// Shuffle applies a random permutation, drawn from Seed, to the initial
	// scan order. Results are reproducible for a fixed Seed. Default: false.
	Shuffle bool `yaml:"shuffle"`

	// Seed seeds the Shuffle permutation. 0 selects the default. Default: 42.
	Seed int64 `yaml:"seed"`

	// MaxRecoveries bounds how many times a solve is restarted when rounding
	// leaves a point outside the final ball. After that the radius is grown
	// to cover the point. 0 selects the default; use NoRecoveries to grow
	// the radius without recomputing. Default: 2.
	MaxRecoveries int `yaml:"max_recoveries"`

	// Workers controls the number of goroutines used by SolveBatch and
	// NewBallTree. 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int `yaml:"workers"`

	// Logger receives debug traces of pivots and recoveries. nil disables
	// logging. Default: nil.
	Logger *log.Logger `yaml:"-"`
}

// Ball is a minimum enclosing ball.
type Ball struct {
	// Center holds the d coordinates of the center.
	Center []float64

	// Radius is the ball radius, >= 0.
	Radius float64

	// SquaredRadius equals Radius*Radius up to rounding.
	SquaredRadius float64

	// Support lists, in ascending order, the indices of the 1 to d+1 input
	// points whose boundary determines the ball.
	Support []int

	// Iterations counts successful support insertions during the solve.
	Iterations int
}

// NoRecoveries, as Config.MaxRecoveries, skips recomputation: a point left
// outside by rounding makes the solver grow the radius straight away.
const NoRecoveries = -1

const (
	defaultTolerance       = 1e-14
	defaultAffineTolerance = 1e-20
	defaultSeed            = 42
	defaultMaxRecoveries   = 2

	// containsSlack is the relative slack used by Ball.Contains. It is looser
	// than the solver tolerance so that every input point passes.
	containsSlack = 1e-9
)

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Tolerance:       defaultTolerance,
		AffineTolerance: defaultAffineTolerance,
		Pivoting:        true,
		Seed:            defaultSeed,
		MaxRecoveries:   defaultMaxRecoveries,
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return fmt.Errorf("miniball: Tolerance must be >= 0, got %g", cfg.Tolerance)
	}
	if cfg.AffineTolerance < 0 || math.IsNaN(cfg.AffineTolerance) {
		return fmt.Errorf("miniball: AffineTolerance must be >= 0, got %g", cfg.AffineTolerance)
	}
	if cfg.MaxRecoveries < NoRecoveries {
		return fmt.Errorf("miniball: MaxRecoveries must be >= 0 or NoRecoveries (-1), got %d", cfg.MaxRecoveries)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("miniball: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", cfg.Workers)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Tolerance == 0 {
		cfg.Tolerance = defaultTolerance
	}
	if cfg.AffineTolerance == 0 {
		cfg.AffineTolerance = defaultAffineTolerance
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}
	if cfg.MaxRecoveries == 0 {
		cfg.MaxRecoveries = defaultMaxRecoveries
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// Solve computes the minimum enclosing ball of data. Each element is a
// point; all points must have the same dimensionality, fixed by the first.
// Malformed input yields an error matching ErrInvalidInput.
func Solve(data [][]float64, cfg Config) (*Ball, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	ps, err := NewPointSet(data)
	if err != nil {
		return nil, err
	}
	return newSolver(ps, cfg).solve(), nil
}

// SolveFlat computes the minimum enclosing ball of flat row-major data with
// n points of dimensionality dims.
func SolveFlat(data []float64, n, dims int, cfg Config) (*Ball, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	ps, err := NewPointSetFlat(data, n, dims)
	if err != nil {
		return nil, err
	}
	return newSolver(ps, cfg).solve(), nil
}

// SolveMatrix computes the minimum enclosing ball of the rows of m.
func SolveMatrix(m mat.Matrix, cfg Config) (*Ball, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	ps, err := NewPointSetMatrix(m)
	if err != nil {
		return nil, err
	}
	return newSolver(ps, cfg).solve(), nil
}

// SolvePointSet computes the minimum enclosing ball of ps. The scan order of
// ps is rearranged; its points are not. A PointSet must not be shared by
// concurrent solves.
func SolvePointSet(ps *PointSet, cfg Config) (*Ball, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, invalidInput(-1, -1, "nil point set")
	}
	return newSolver(ps, cfg).solve(), nil
}

// Contains reports whether p lies in the ball, allowing a relative slack of
// 1e-9 scaled by the radius and the magnitude of p.
func (b *Ball) Contains(p []float64) bool {
	if len(p) != len(b.Center) {
		return false
	}
	var scale float64
	for _, v := range p {
		scale = math.Max(scale, math.Abs(v))
	}
	return Distance(p, b.Center) <= b.Radius+containsSlack*(b.Radius+scale)
}

func (b *Ball) String() string {
	return fmt.Sprintf("Ball{center=%v, radius=%g, squaredRadius=%g, support=%v}",
		b.Center, b.Radius, b.SquaredRadius, b.Support)
}
