package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a graph repository is not provided.
	ErrRepositoryRequired = errors.New("graph repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrBallRequired is returned when a geometry ball is not provided.
	ErrBallRequired = errors.New("geometry ball required")

	// ErrParentNotFound is returned when a concept names a parent that does
	// not exist in the graph.
	ErrParentNotFound = errors.New("parent concept not found")
)
