package ai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorMagnitude(v []float32) float64 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return math.Sqrt(sum)
}

func TestNormalizeVector_UnitLength(t *testing.T) {
	v := []float32{3, 4}
	normalized := NormalizeVector(v)

	require.Len(t, normalized, 2)
	assert.InDelta(t, 1.0, vectorMagnitude(normalized), 1e-6)
	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)
}

func TestNormalizeVector_AlreadyNormalized(t *testing.T) {
	v := []float32{1, 0, 0}
	normalized := NormalizeVector(v)
	assert.Equal(t, v, normalized)
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	normalized := NormalizeVector(v)

	require.Len(t, normalized, 3)
	for _, val := range normalized {
		assert.Zero(t, val)
	}
}

func TestNormalizeVector_Empty(t *testing.T) {
	assert.Empty(t, NormalizeVector(nil))
	assert.Empty(t, NormalizeVector([]float32{}))
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	v := []float32{3, 4}
	_ = NormalizeVector(v)
	assert.Equal(t, []float32{3, 4}, v)
}
