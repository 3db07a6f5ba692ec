package geometry

import (
	"errors"
	"fmt"

	"github.com/poiesic/hyperkg/core"
)

// Configuration errors. Validate reports every violation it finds, joined,
// so a caller sees all problems at once.
var (
	// ErrInvalidCurvature indicates a curvature that is zero or positive.
	ErrInvalidCurvature = errors.New("curvature must be strictly negative")

	// ErrInvalidDimension indicates a non-positive dimension.
	ErrInvalidDimension = errors.New("dimension must be positive")

	// ErrInvalidEpsilon indicates a non-positive numerical floor.
	ErrInvalidEpsilon = errors.New("epsilon must be positive")

	// ErrInvalidMaxNorm indicates a max norm outside the open interval (0, 1).
	ErrInvalidMaxNorm = errors.New("max norm must lie in (0, 1)")
)

// HyperbolicConfig parameterizes the Poincare ball.
// Invalid configurations fail fast at Ball construction; nothing is
// silently clamped.
type HyperbolicConfig struct {
	// Dimension of the hyperbolic space. Fixed at core.Dimension for
	// stored points; kept explicit so the validator can reject mismatches.
	Dimension int

	// Curvature of the space. Must be strictly negative; zero or positive
	// curvature is a different geometry and is rejected.
	Curvature float32

	// Epsilon is the numerical floor applied to denominators and the
	// tolerance used for degenerate-vector checks.
	Epsilon float64

	// MaxNorm is the largest norm a point may have after projection.
	MaxNorm float64
}

// DefaultHyperbolicConfig returns the standard ball configuration:
// 64 dimensions, curvature -1, epsilon 1e-6, max norm 0.99999.
func DefaultHyperbolicConfig() HyperbolicConfig {
	return HyperbolicConfig{
		Dimension: core.Dimension,
		Curvature: -1.0,
		Epsilon:   1e-6,
		MaxNorm:   0.99999,
	}
}

// Validate checks every configuration invariant independently and returns
// all violations joined into a single error, or nil.
func (c HyperbolicConfig) Validate() error {
	var errs []error
	if c.Curvature >= 0 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidCurvature, c.Curvature))
	}
	if c.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidDimension, c.Dimension))
	}
	if c.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidEpsilon, c.Epsilon))
	}
	if c.MaxNorm <= 0 || c.MaxNorm >= 1 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidMaxNorm, c.MaxNorm))
	}
	return errors.Join(errs...)
}
