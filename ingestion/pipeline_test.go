package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/hyperkg/ai/mock"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/geometry"
	"github.com/poiesic/hyperkg/storage"
	"github.com/poiesic/hyperkg/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) storage.GraphRepository {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	return repo
}

func setupTestBall(t *testing.T) *geometry.Ball {
	ball, err := geometry.NewBall(geometry.DefaultHyperbolicConfig())
	require.NoError(t, err)
	return ball
}

func addTestNodes(t *testing.T, repo storage.GraphRepository, labels ...string) []*core.GraphNode {
	nodes := make([]*core.GraphNode, len(labels))
	for i, label := range labels {
		nodes[i] = &core.GraphNode{
			Label:  label,
			Domain: core.DomainGeneral,
			Depth:  uint32(i),
		}
	}

	added, err := repo.AddNodes(context.Background(), nodes...)
	require.NoError(t, err)
	require.Len(t, added, len(labels))
	return added
}

func TestEmbeddingProcessor_Process(t *testing.T) {
	repo := setupTestRepository(t)
	embedder := mock.NewEmbedder()

	proc, err := newEmbeddingProcessor(repo, embedder, nil)
	require.NoError(t, err)

	added := addTestNodes(t, repo, "animal", "mammal", "dog")

	ids := make([]core.ID, len(added))
	for i, node := range added {
		ids[i] = node.Id
	}

	err = proc.process(context.Background(), ids...)
	require.NoError(t, err)

	updated, err := repo.GetNodes(context.Background(), ids...)
	require.NoError(t, err)
	for _, node := range updated {
		assert.NotEmpty(t, node.Vector, "node %q should have an embedding", node.Label)
	}
	assert.Equal(t, 1, embedder.CallCount())
}

func TestEmbeddingProcessor_Process_EmbedderError(t *testing.T) {
	repo := setupTestRepository(t)
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedder unavailable")
	}

	proc, err := newEmbeddingProcessor(repo, embedder, nil)
	require.NoError(t, err)

	added := addTestNodes(t, repo, "animal")

	err = proc.process(context.Background(), added[0].Id)
	require.Error(t, err)
}

func TestEmbeddingProcessor_Process_CountMismatch(t *testing.T) {
	repo := setupTestRepository(t)
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{0.1}}, nil
	}

	proc, err := newEmbeddingProcessor(repo, embedder, nil)
	require.NoError(t, err)

	added := addTestNodes(t, repo, "animal", "mammal")
	err = proc.process(context.Background(), added[0].Id, added[1].Id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestGeometryProcessor_Process(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)

	proc, err := newGeometryProcessor(repo, ball, entailment.DefaultConeConfig(), nil)
	require.NoError(t, err)

	added := addTestNodes(t, repo, "animal", "mammal", "dog")

	ids := make([]core.ID, len(added))
	for i, node := range added {
		ids[i] = node.Id
	}

	err = proc.process(context.Background(), ids...)
	require.NoError(t, err)

	for _, node := range added {
		point, err := repo.GetPoint(context.Background(), node.Id)
		require.NoError(t, err)
		assert.True(t, point.IsValid(), "point for %q should lie in the ball", node.Label)

		cone, err := repo.GetCone(context.Background(), node.Id)
		require.NoError(t, err)
		assert.True(t, cone.IsValid())
	}
}

func TestGeometryProcessor_Placement_Deterministic(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)

	proc, err := newGeometryProcessor(repo, ball, entailment.DefaultConeConfig(), nil)
	require.NoError(t, err)
	gp := proc.(*geometryProcessor)

	node := &core.GraphNode{Id: 42, Label: "dog", Depth: 3}
	first := gp.placement(node)
	second := gp.placement(node)
	assert.Equal(t, first, second)
}

func TestGeometryProcessor_Placement_RadiusShrinksWithDepth(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)

	proc, err := newGeometryProcessor(repo, ball, entailment.DefaultConeConfig(), nil)
	require.NoError(t, err)
	gp := proc.(*geometryProcessor)

	// Specializations sit closer to the origin than their ancestors.
	shallow := gp.placement(&core.GraphNode{Id: 7, Label: "animal", Depth: 0})
	deep := gp.placement(&core.GraphNode{Id: 7, Label: "dog", Depth: 6})
	assert.Greater(t, shallow.Norm(), deep.Norm())
}

func TestNewPipeline(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)
	embedder := mock.NewEmbedder()
	coneCfg := entailment.DefaultConeConfig()

	t.Run("valid construction", func(t *testing.T) {
		p, err := NewPipeline(repo, embedder, ball, coneCfg)
		require.NoError(t, err)
		require.NotNil(t, p)
		p.Release()
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewPipeline(nil, embedder, ball, coneCfg)
		assert.ErrorIs(t, err, ErrRepositoryRequired)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewPipeline(repo, nil, ball, coneCfg)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("nil ball", func(t *testing.T) {
		_, err := NewPipeline(repo, embedder, nil, coneCfg)
		assert.ErrorIs(t, err, ErrBallRequired)
	})

	t.Run("invalid cone config", func(t *testing.T) {
		_, err := NewPipeline(repo, embedder, ball, entailment.ConeConfig{})
		assert.Error(t, err)
	})
}

func TestPipeline_WithOptions(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)
	embedder := mock.NewEmbedder()

	p, err := NewPipeline(repo, embedder, ball, entailment.DefaultConeConfig(),
		WithPoolSize(2),
		WithLogger(slog.Default()))
	require.NoError(t, err)
	defer p.Release()
}

func TestPipeline_Ingest(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)
	embedder := mock.NewEmbedder()

	p, err := NewPipeline(repo, embedder, ball, entailment.DefaultConeConfig())
	require.NoError(t, err)
	defer p.Release()

	ctx := context.Background()

	roots, err := p.Ingest(ctx, Concept{Label: "animal", Domain: core.DomainGeneral, Importance: 8})
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.EqualValues(t, 0, roots[0].Depth)

	children, err := p.Ingest(ctx,
		Concept{Label: "mammal", Domain: core.DomainGeneral, Parent: "animal", Importance: 6},
		Concept{Label: "bird", Domain: core.DomainGeneral, Parent: "animal", Importance: 5},
	)
	require.NoError(t, err)
	require.Len(t, children, 2)
	for _, child := range children {
		assert.EqualValues(t, 1, child.Depth)
	}

	// A hierarchy edge links the parent to each child.
	edges, err := repo.GetAdjacency(ctx, roots[0].Id)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	for _, edge := range edges {
		assert.Equal(t, core.EdgeTypeHierarchical, edge.Type)
		assert.Equal(t, roots[0].Id, edge.Source)
	}

	// Async processing fills in embeddings and geometry.
	assert.Eventually(t, func() bool {
		for _, node := range children {
			got, err := repo.GetNode(ctx, node.Id)
			if err != nil || len(got.Vector) == 0 {
				return false
			}
			if _, err := repo.GetPoint(ctx, node.Id); err != nil {
				return false
			}
			if _, err := repo.GetCone(ctx, node.Id); err != nil {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPipeline_Ingest_MissingParent(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)
	embedder := mock.NewEmbedder()

	p, err := NewPipeline(repo, embedder, ball, entailment.DefaultConeConfig())
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Ingest(context.Background(),
		Concept{Label: "dog", Domain: core.DomainGeneral, Parent: "mammal"})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestPipeline_Ingest_Empty(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)
	embedder := mock.NewEmbedder()

	p, err := NewPipeline(repo, embedder, ball, entailment.DefaultConeConfig())
	require.NoError(t, err)
	defer p.Release()

	added, err := p.Ingest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestPipeline_Ingest_DeepHierarchy(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)
	embedder := mock.NewEmbedder()

	p, err := NewPipeline(repo, embedder, ball, entailment.DefaultConeConfig())
	require.NoError(t, err)
	defer p.Release()

	ctx := context.Background()
	parent := ""
	for depth := 0; depth < 5; depth++ {
		label := fmt.Sprintf("level-%d", depth)
		added, err := p.Ingest(ctx, Concept{Label: label, Domain: core.DomainResearch, Parent: parent})
		require.NoError(t, err)
		require.Len(t, added, 1)
		assert.EqualValues(t, depth, added[0].Depth)
		parent = label
	}
}

func TestPipeline_Release(t *testing.T) {
	repo := setupTestRepository(t)
	ball := setupTestBall(t)
	embedder := mock.NewEmbedder()

	p, err := NewPipeline(repo, embedder, ball, entailment.DefaultConeConfig())
	require.NoError(t, err)

	p.Release()
	// Release is idempotent.
	p.Release()
}
