package entailment

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors.
var (
	// ErrInvalidAperture indicates an aperture bound outside (0, pi/2] or
	// an inverted min/max pair.
	ErrInvalidAperture = errors.New("invalid aperture configuration")

	// ErrInvalidDecay indicates a decay factor outside (0, 1].
	ErrInvalidDecay = errors.New("aperture decay must lie in (0, 1]")

	// ErrInvalidThreshold indicates a membership threshold outside (0, 1].
	ErrInvalidThreshold = errors.New("membership threshold must lie in (0, 1]")
)

// ConeConfig controls aperture computation and membership filtering.
type ConeConfig struct {
	// BaseAperture is the aperture of a depth-0 (root) cone, in radians.
	BaseAperture float32

	// ApertureDecay is the per-level multiplier; deeper concepts get
	// narrower cones.
	ApertureDecay float32

	// MinAperture and MaxAperture clamp the decay schedule.
	MinAperture float32
	MaxAperture float32

	// MembershipThreshold is the minimum membership score a candidate
	// needs to count as entailed in ranked queries.
	MembershipThreshold float32
}

// DefaultConeConfig returns the standard cone configuration.
func DefaultConeConfig() ConeConfig {
	return ConeConfig{
		BaseAperture:        1.0,
		ApertureDecay:       0.85,
		MinAperture:         0.1,
		MaxAperture:         1.5,
		MembershipThreshold: 0.7,
	}
}

// Validate checks every invariant independently and returns all violations
// joined into a single error, or nil.
func (c ConeConfig) Validate() error {
	// Same pi/2 bound and float32 slack as EntailmentCone.IsValid, so
	// every aperture this schedule can emit builds a storable cone.
	const maxLegal = math.Pi/2 + 1e-6

	var errs []error
	if c.BaseAperture <= 0 || float64(c.BaseAperture) > maxLegal {
		errs = append(errs, fmt.Errorf("%w: base aperture %g", ErrInvalidAperture, c.BaseAperture))
	}
	if c.MinAperture <= 0 || float64(c.MaxAperture) > maxLegal || c.MinAperture > c.MaxAperture {
		errs = append(errs, fmt.Errorf("%w: min %g max %g", ErrInvalidAperture, c.MinAperture, c.MaxAperture))
	}
	if c.ApertureDecay <= 0 || c.ApertureDecay > 1 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidDecay, c.ApertureDecay))
	}
	if c.MembershipThreshold <= 0 || c.MembershipThreshold > 1 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidThreshold, c.MembershipThreshold))
	}
	return errors.Join(errs...)
}

// ComputeAperture returns the aperture for a cone at the given hierarchy
// depth: BaseAperture * ApertureDecay^depth, clamped to [MinAperture,
// MaxAperture]. Non-increasing in depth.
func (c ConeConfig) ComputeAperture(depth uint32) float32 {
	aperture := float64(c.BaseAperture) * math.Pow(float64(c.ApertureDecay), float64(depth))
	if aperture < float64(c.MinAperture) {
		return c.MinAperture
	}
	if aperture > float64(c.MaxAperture) {
		return c.MaxAperture
	}
	return float32(aperture)
}
