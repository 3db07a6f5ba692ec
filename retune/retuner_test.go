package retune

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/poiesic/hyperkg/entailment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetuner_Run(t *testing.T) {
	repo := setupRepoWithCones(t, 30)

	newCfg := entailment.DefaultConeConfig()
	newCfg.ApertureDecay = 0.7

	var buf bytes.Buffer
	retuner := NewRetuner(repo, newCfg, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}, &buf)

	err := retuner.Run(context.Background(), nil)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Starting retuning of 30 cones")
	assert.Contains(t, output, "Retuning complete")

	iterator := NewConeIterator(repo, 100)
	err = iterator.ForEach(context.Background(), func(records []ConeRecord) error {
		for _, record := range records {
			assert.Equal(t, newCfg.ComputeAperture(record.Cone.Depth), record.Cone.Aperture)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestRetuner_Run_WithDeltas(t *testing.T) {
	repo := setupRepoWithCones(t, 5)

	var first uint64
	iterator := NewConeIterator(repo, 100)
	err := iterator.ForEach(context.Background(), func(records []ConeRecord) error {
		first = uint64(records[0].Id)
		return nil
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	retuner := NewRetuner(repo, entailment.DefaultConeConfig(), nil, &buf)

	err = retuner.Run(context.Background(), map[uint64]float32{first: -0.3})
	require.NoError(t, err)

	found := false
	err = iterator.ForEach(context.Background(), func(records []ConeRecord) error {
		for _, record := range records {
			if uint64(record.Id) == first {
				found = true
				assert.InDelta(t, 0.7, record.Cone.ApertureFactor, 1e-6)
			} else {
				assert.Equal(t, float32(1.0), record.Cone.ApertureFactor)
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRetuner_Run_EmptyDatabase(t *testing.T) {
	repo := setupRepoWithCones(t, 0)

	var buf bytes.Buffer
	retuner := NewRetuner(repo, entailment.DefaultConeConfig(), nil, &buf)

	err := retuner.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No cones found")
}

func TestRetuner_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 100, cfg.ReportInterval)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}
