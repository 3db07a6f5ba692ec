package entailment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/geometry"
)

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	ball, err := geometry.NewBall(geometry.DefaultHyperbolicConfig())
	require.NoError(t, err)
	return NewChecker(ball)
}

// pointAt builds a point along the first axis.
func pointAt(x float32) core.HyperbolicPoint {
	var p core.HyperbolicPoint
	p.Coords[0] = x
	return p
}

func TestDefaultConeConfig_ApertureSchedule(t *testing.T) {
	cfg := DefaultConeConfig()

	assert.InDelta(t, 1.0, cfg.ComputeAperture(0), 1e-6)
	assert.InDelta(t, 0.85, cfg.ComputeAperture(1), 1e-6)
	// Deep levels clamp at the minimum.
	assert.Equal(t, float32(0.1), cfg.ComputeAperture(100))
}

func TestComputeAperture_NonIncreasing(t *testing.T) {
	cfg := DefaultConeConfig()

	prev := cfg.ComputeAperture(0)
	for depth := uint32(1); depth <= 50; depth++ {
		current := cfg.ComputeAperture(depth)
		assert.LessOrEqual(t, current, prev, "aperture increased at depth %d", depth)
		assert.GreaterOrEqual(t, current, cfg.MinAperture)
		assert.LessOrEqual(t, current, cfg.MaxAperture)
		prev = current
	}
}

func TestConeConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConeConfig().Validate())

	bad := ConeConfig{
		BaseAperture:        -1,
		ApertureDecay:       2,
		MinAperture:         0.5,
		MaxAperture:         0.1,
		MembershipThreshold: 0,
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAperture)
	assert.ErrorIs(t, err, ErrInvalidDecay)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestConeConfigValidate_AperturesBoundedByStorableRange(t *testing.T) {
	// Cone validation caps apertures at pi/2, so a schedule that can emit
	// more than that would build cones the repository refuses to store.
	wide := DefaultConeConfig()
	wide.BaseAperture = 2.0
	wide.MaxAperture = 3.0
	err := wide.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAperture)

	// The full legal range stays constructible and storable.
	edge := DefaultConeConfig()
	edge.BaseAperture = float32(math.Pi / 2)
	edge.MaxAperture = float32(math.Pi / 2)
	require.NoError(t, edge.Validate())

	cone, err := NewCone(pointAt(0.5), 0, edge)
	require.NoError(t, err)
	assert.True(t, cone.IsValid())
	assert.NoError(t, core.ValidateCone(&cone))
}

func TestNewCone(t *testing.T) {
	cfg := DefaultConeConfig()

	cone, err := NewCone(pointAt(0.5), 2, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 1.0*0.85*0.85, cone.Aperture, 1e-6)
	assert.Equal(t, float32(1.0), cone.ApertureFactor)
	assert.Equal(t, uint32(2), cone.Depth)
	assert.True(t, cone.IsValid())
}

func TestNewCone_RejectsInvalidApex(t *testing.T) {
	_, err := NewCone(pointAt(1.5), 0, DefaultConeConfig())
	assert.ErrorIs(t, err, core.ErrInvalidHyperbolicPoint)
}

func TestAngle_ZeroTowardOrigin(t *testing.T) {
	ck := newTestChecker(t)

	// The cone's axis points from the apex toward the origin. A point on
	// that ray sits at angle zero.
	cone := &core.EntailmentCone{Apex: pointAt(0.6), Aperture: 0.5, ApertureFactor: 1.0, Depth: 1}
	angle := ck.Angle(cone, pointAt(0.2))
	assert.InDelta(t, 0.0, angle, 1e-3)
}

func TestAngle_PiAwayFromOrigin(t *testing.T) {
	ck := newTestChecker(t)

	// A point on the far side of the apex from the origin is diametrically
	// opposed to the axis.
	cone := &core.EntailmentCone{Apex: pointAt(0.3), Aperture: 0.5, ApertureFactor: 1.0, Depth: 1}
	angle := ck.Angle(cone, pointAt(0.8))
	assert.InDelta(t, math.Pi, angle, 1e-2)
}

func TestAngle_DegenerateCases(t *testing.T) {
	ck := newTestChecker(t)

	apex := pointAt(0.4)
	cone := &core.EntailmentCone{Apex: apex, Aperture: 0.5, ApertureFactor: 1.0, Depth: 1}

	// Point exactly at the apex.
	assert.Equal(t, float32(0), ck.Angle(cone, apex))

	// Apex at origin: the axis is undefined and the cone spans everything.
	rootCone := &core.EntailmentCone{Apex: core.Origin(), Aperture: 1.0, ApertureFactor: 1.0, Depth: 0}
	assert.Equal(t, float32(0), ck.Angle(rootCone, pointAt(0.7)))
}

func TestContains(t *testing.T) {
	ck := newTestChecker(t)

	cone := &core.EntailmentCone{Apex: pointAt(0.5), Aperture: 0.8, ApertureFactor: 1.0, Depth: 1}

	// Toward the origin: inside.
	assert.True(t, ck.Contains(cone, pointAt(0.1)))
	// Away from the origin: angle pi, far outside any valid aperture.
	assert.False(t, ck.Contains(cone, pointAt(0.9)))
}

func TestMembershipScore_ApexIsOne(t *testing.T) {
	ck := newTestChecker(t)

	cone := &core.EntailmentCone{Apex: pointAt(0.5), Aperture: 0.5, ApertureFactor: 1.0, Depth: 1}
	assert.Equal(t, float32(1.0), ck.MembershipScore(cone, cone.Apex))
}

func TestMembershipScore_DecaysOutside(t *testing.T) {
	ck := newTestChecker(t)

	cone := &core.EntailmentCone{Apex: pointAt(0.3), Aperture: 0.5, ApertureFactor: 1.0, Depth: 1}

	// Outside point: angle pi, aperture 0.5, so score = exp(-2*(pi-0.5)).
	outside := pointAt(0.8)
	score := ck.MembershipScore(cone, outside)
	assert.Greater(t, score, float32(0.0))
	assert.Less(t, score, float32(1.0))
	assert.InDelta(t, math.Exp(-2.0*(math.Pi-0.5)), float64(score), 1e-3)
}

func TestMembershipScore_MonotonicInAngle(t *testing.T) {
	ck := newTestChecker(t)

	// Points rotated progressively away from the axis direction.
	apex := pointAt(0.4)
	cone := &core.EntailmentCone{Apex: apex, Aperture: 0.2, ApertureFactor: 1.0, Depth: 2}

	var prev float32 = 1.0
	for i := 0; i <= 4; i++ {
		// Mix the toward-origin direction with an orthogonal one.
		frac := float32(i) / 4
		var p core.HyperbolicPoint
		p.Coords[0] = 0.4 - 0.3*(1-frac)
		p.Coords[1] = 0.3 * frac
		score := ck.MembershipScore(cone, p)
		assert.LessOrEqual(t, score, prev, "score increased at step %d", i)
		prev = score
	}
}

func TestEffectiveAperture_FactorAndClamp(t *testing.T) {
	cone := &core.EntailmentCone{Apex: pointAt(0.3), Aperture: 1.0, ApertureFactor: 1.2, Depth: 0}
	assert.InDelta(t, 1.2, cone.EffectiveAperture(), 1e-6)

	// Product above pi/2 clamps.
	cone.ApertureFactor = 2.0
	assert.InDelta(t, math.Pi/2, cone.EffectiveAperture(), 1e-6)
}

func TestUpdateAperture_FactorBounds(t *testing.T) {
	cone := &core.EntailmentCone{Apex: pointAt(0.3), Aperture: 1.0, ApertureFactor: 1.0, Depth: 0}

	cone.UpdateAperture(5.0)
	assert.Equal(t, float32(2.0), cone.ApertureFactor)

	cone.UpdateAperture(-10.0)
	assert.Equal(t, float32(0.5), cone.ApertureFactor)

	cone.UpdateAperture(0.25)
	assert.Equal(t, float32(0.75), cone.ApertureFactor)
}
