package badger

import (
	"context"
	"testing"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestBackend_OperationsAfterClose(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	ctx := context.Background()

	_, err = backend.FindSimilar(ctx, []float32{1, 0}, 0.5, 10)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = repo.GetNode(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = repo.AddNodes(ctx, &core.GraphNode{
		Label: "orphan", Domain: core.DomainGeneral, Importance: 1,
	})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestFindSimilar_EmptyStore(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_WithNodes(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	nodes := []*core.GraphNode{
		{Label: "graph theory", Domain: core.DomainResearch, Importance: 5, Vector: []float32{1, 0, 0}},
		{Label: "topology", Domain: core.DomainResearch, Importance: 5, Vector: []float32{0.9, 0.1, 0}},
		{Label: "cooking", Domain: core.DomainGeneral, Importance: 5, Vector: []float32{0, 0, 1}},
		{Label: "unembedded", Domain: core.DomainGeneral, Importance: 5},
	}
	_, err = repo.AddNodes(ctx, nodes...)
	require.NoError(t, err)

	results, err := backend.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by similarity descending; the unrelated and unembedded
	// nodes are filtered out.
	assert.Equal(t, "graph theory", results[0].Node.Label)
	assert.Equal(t, "topology", results[1].Node.Label)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestFindSimilar_LimitApplied(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	labels := []string{"alpha", "beta", "gamma", "delta"}
	for _, label := range labels {
		_, err = repo.AddNodes(ctx, &core.GraphNode{
			Label: label, Domain: core.DomainGeneral, Importance: 1, Vector: []float32{1, 0},
		})
		require.NoError(t, err)
	}

	results, err := backend.FindSimilar(ctx, []float32{1, 0}, 0.5, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
