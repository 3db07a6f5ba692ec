package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/hyperkg/ai"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/storage"
)

// embeddingProcessor generates label embeddings for graph nodes.
type embeddingProcessor struct {
	repository storage.GraphRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(repository storage.GraphRepository, embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		repository: repository,
		embedder:   embedder,
		logger:     logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified nodes' labels.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Info("processing nodes for embeddings", "nodes", len(ids))

	nodes, err := ep.repository.GetNodes(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving nodes", "err", err)
		return err
	}

	texts := make([]string, len(nodes))
	for i, node := range nodes {
		texts[i] = node.Label
	}

	ep.logger.Debug("generating embeddings for node labels", "nodes", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(nodes) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(nodes), len(embeddings))
	}

	// Normalized so the similarity scan's dot product is cosine similarity.
	for i := range embeddings {
		nodes[i].Vector = ai.NormalizeVector(embeddings[i])
	}

	_, err = ep.repository.UpdateNodes(ctx, nodes...)
	return err
}
