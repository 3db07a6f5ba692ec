package entailment

import (
	"fmt"
	"math"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/geometry"
)

// NewCone creates a cone for a concept at the given apex and hierarchy
// depth. The aperture comes from the config's decay schedule and the
// learned factor starts neutral at 1.0.
func NewCone(apex core.HyperbolicPoint, depth uint32, cfg ConeConfig) (core.EntailmentCone, error) {
	if err := core.ValidatePoint(&apex); err != nil {
		return core.EntailmentCone{}, fmt.Errorf("cone apex: %w", err)
	}
	return core.EntailmentCone{
		Apex:           apex,
		Aperture:       cfg.ComputeAperture(depth),
		ApertureFactor: 1.0,
		Depth:          depth,
	}, nil
}

// Checker evaluates cone containment and membership against a Poincare ball.
type Checker struct {
	ball *geometry.Ball
}

// NewChecker creates a Checker over the given ball.
func NewChecker(ball *geometry.Ball) *Checker {
	return &Checker{ball: ball}
}

// Angle computes the angle between the direction from the cone's apex to
// the point and the cone's axis (apex toward origin).
//
// Degenerate cases all collapse to angle 0, which keeps the point inside
// any positive aperture:
//   - point at the apex
//   - apex at the origin (the axis is a zero vector; the cone spans
//     every direction)
//   - zero-length tangent vectors from numerical underflow
func (ck *Checker) Angle(cone *core.EntailmentCone, point core.HyperbolicPoint) float32 {
	epsilon := ck.ball.Config().Epsilon

	if float64(ck.ball.Distance(cone.Apex, point)) < epsilon {
		return 0
	}
	if cone.Apex.Norm() < epsilon {
		return 0
	}

	tangent := ck.ball.LogMap(cone.Apex, point)
	axis := ck.ball.LogMap(cone.Apex, core.Origin())

	tn := tangent.Norm()
	an := axis.Norm()
	if tn < epsilon || an < epsilon {
		return 0
	}

	cos := tangent.Dot(&axis) / (tn * an)
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return float32(math.Acos(cos))
}

// Contains reports whether the point lies within the cone's effective
// aperture.
func (ck *Checker) Contains(cone *core.EntailmentCone, point core.HyperbolicPoint) bool {
	return ck.Angle(cone, point) <= cone.EffectiveAperture()
}

// MembershipScore computes the soft membership of a point in a cone.
//
// Contained points score exactly 1.0. Outside the boundary the score decays
// exponentially with the excess angle:
//
//	score = exp(-2.0 * (angle - effectiveAperture))
//
// always in (0, 1). This is the canonical scoring formula; every ranked
// entailment query goes through it.
func (ck *Checker) MembershipScore(cone *core.EntailmentCone, point core.HyperbolicPoint) float32 {
	angle := ck.Angle(cone, point)
	aperture := cone.EffectiveAperture()
	if angle <= aperture {
		return 1.0
	}
	return float32(math.Exp(-2.0 * float64(angle-aperture)))
}
