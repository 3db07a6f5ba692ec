package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/hyperkg/ai"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/geometry"
	"github.com/poiesic/hyperkg/modulation"
	"github.com/poiesic/hyperkg/storage"
)

// Concept describes a single unit of knowledge to ingest. Parent, when set,
// names an existing node the new node specializes; the pipeline links them
// with a hierarchical edge and derives the new node's depth from the parent.
type Concept struct {
	Label      string
	Domain     core.Domain
	Parent     string
	Importance int
}

// Pipeline orchestrates ingestion of concepts into the knowledge graph.
// Node records and hierarchy edges are written synchronously; label
// embeddings and hyperbolic placement run concurrently afterwards.
type Pipeline struct {
	repository    storage.GraphRepository
	embeddingPool *ants.Pool
	geometryPool  *ants.Pool
	embeddingProc processor
	geometryProc  processor
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}
		if p.geometryPool != nil {
			p.geometryPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		geometryPool, err := ants.NewPool(size)
		if err != nil {
			embeddingPool.Release()
			return err
		}

		p.embeddingPool = embeddingPool
		p.geometryPool = geometryPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.GraphRepository,
	embedder ai.Embedder,
	ball *geometry.Ball,
	coneCfg entailment.ConeConfig,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if ball == nil {
		return nil, ErrBallRequired
	}

	logger := slog.Default()

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	geometryPool, err := ants.NewPool(poolSize)
	if err != nil {
		embeddingPool.Release()
		return nil, err
	}

	p := &Pipeline{
		repository:    repository,
		embeddingPool: embeddingPool,
		geometryPool:  geometryPool,
		logger:        logger,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create processors after options are applied (so they get final config)
	embeddingProc, err := newEmbeddingProcessor(repository, embedder, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}

	geometryProc, err := newGeometryProcessor(repository, ball, coneCfg, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}

	p.embeddingProc = embeddingProc
	p.geometryProc = geometryProc

	return p, nil
}

// Ingest adds concepts as graph nodes and processes them asynchronously.
// Parent references are resolved against existing node labels; a concept
// whose parent is missing fails the whole batch before anything is written.
// Errors during async processing are logged but do not fail the ingestion.
func (p *Pipeline) Ingest(ctx context.Context, concepts ...Concept) ([]*core.GraphNode, error) {
	if len(concepts) == 0 {
		return nil, nil
	}

	nodes := make([]*core.GraphNode, len(concepts))
	parents := make([]*core.GraphNode, len(concepts))
	for i, concept := range concepts {
		var depth uint32
		if concept.Parent != "" {
			parent, err := p.repository.FindNodeByLabel(ctx, concept.Parent)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return nil, ErrParentNotFound
				}
				return nil, err
			}
			parents[i] = parent
			depth = parent.Depth + 1
		}

		nodes[i] = &core.GraphNode{
			Label:      concept.Label,
			Domain:     concept.Domain,
			Depth:      depth,
			Importance: concept.Importance,
		}
	}

	added, err := p.repository.AddNodes(ctx, nodes...)
	if err != nil {
		return nil, err
	}

	for i, node := range added {
		parent := parents[i]
		if parent == nil {
			continue
		}

		edge := &core.GraphEdge{
			Source:         parent.Id,
			Target:         node.Id,
			Type:           core.EdgeTypeHierarchical,
			Weight:         1.0,
			Confidence:     1.0,
			Domain:         node.Domain,
			NT:             modulation.ForDomain(node.Domain),
			SteeringReward: 1.0,
			CreatedAt:      time.Now().UTC(),
		}
		if _, err := p.repository.AddEdge(ctx, edge); err != nil {
			return nil, err
		}
	}

	ids := make([]core.ID, len(added))
	for i, node := range added {
		ids[i] = node.Id
	}

	// Submit for async processing
	p.embeddingPool.Submit(func() {
		if err := p.embeddingProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
		}
	})

	p.geometryPool.Submit(func() {
		if err := p.geometryProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing geometry", "err", err)
		}
	})

	return added, nil
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
	if p.geometryPool != nil {
		p.geometryPool.Release()
	}
}
