package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	a := IDFromContent("quicksort")
	b := IDFromContent("quicksort")
	c := IDFromContent("mergesort")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
}

func TestNewEdgeID_Unique(t *testing.T) {
	seen := map[EdgeID]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewEdgeID()
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestDomainRoundTrip(t *testing.T) {
	for _, d := range Domains() {
		parsed, ok := ParseDomain(d.String())
		assert.True(t, ok, "domain %s", d)
		assert.Equal(t, d, parsed)
	}

	_, ok := ParseDomain("astrology")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Domain(42).String())
}

func TestEdgeTypeString(t *testing.T) {
	assert.Equal(t, "semantic", EdgeTypeSemantic.String())
	assert.Equal(t, "hierarchical", EdgeTypeHierarchical.String())
	assert.Equal(t, "unknown", EdgeType(0).String())
}

func TestHyperbolicPoint_NormAndValidity(t *testing.T) {
	origin := Origin()
	assert.Equal(t, 0.0, origin.Norm())
	assert.True(t, origin.IsValid())

	var p HyperbolicPoint
	p.Coords[0] = 0.6
	p.Coords[1] = 0.8
	assert.InDelta(t, 1.0, p.Norm(), 1e-6)
	assert.False(t, p.IsValid()) // norm must be strictly < 1

	p.Coords[0] = 0.3
	p.Coords[1] = 0.4
	assert.True(t, p.IsValid())

	p.Coords[2] = float32(math.NaN())
	assert.False(t, p.IsValid())
}

func TestEntailmentCone_EffectiveAperture(t *testing.T) {
	cone := EntailmentCone{Aperture: 0.8, ApertureFactor: 1.0}
	assert.InDelta(t, 0.8, cone.EffectiveAperture(), 1e-6)

	cone.ApertureFactor = 0.5
	assert.InDelta(t, 0.4, cone.EffectiveAperture(), 1e-6)

	cone.Aperture = 1.5
	cone.ApertureFactor = 2.0
	assert.InDelta(t, math.Pi/2, cone.EffectiveAperture(), 1e-6)
}
