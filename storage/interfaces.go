package storage

import (
	"context"

	"github.com/poiesic/hyperkg/core"
)

// Repository provides common storage operations shared by all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds nodes whose embedding vector is similar to the given
	// vector. Returns nodes with similarity >= minSimilarity, up to limit
	// results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredNode, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// GraphRepository provides operations for nodes, edges, and the hyperbolic
// structures attached to them. Traversal reads exclusively through this
// interface; a missing point or cone is reported as ErrNotFound, never as
// a zero value.
type GraphRepository interface {
	Repository

	// AddNodes adds one or more nodes to storage.
	// For nodes with Id=0, derives a content ID from the label.
	// Sets InsertedAt if not already set.
	// Returns the nodes with IDs and timestamps populated.
	AddNodes(ctx context.Context, nodes ...*core.GraphNode) ([]*core.GraphNode, error)

	// UpdateNodes updates existing nodes.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any node doesn't exist.
	UpdateNodes(ctx context.Context, nodes ...*core.GraphNode) ([]*core.GraphNode, error)

	// DeleteNodes removes nodes by their IDs, along with their point, cone,
	// and adjacency entries. Returns ErrNotFound if any node doesn't exist.
	DeleteNodes(ctx context.Context, ids ...core.ID) error

	// GetNode retrieves a single node by ID.
	// Returns ErrNotFound if the node doesn't exist.
	GetNode(ctx context.Context, id core.ID) (*core.GraphNode, error)

	// GetNodes retrieves multiple nodes by their IDs.
	// Returns only the nodes that exist (no error for missing nodes).
	GetNodes(ctx context.Context, ids ...core.ID) ([]*core.GraphNode, error)

	// FindNodeByLabel finds a node by its label's content ID.
	// Returns ErrNotFound if no matching node exists.
	FindNodeByLabel(ctx context.Context, label string) (*core.GraphNode, error)

	// AddEdge appends an edge to its source node's adjacency list.
	// An edge with a zero Id gets a fresh one. Returns the stored edge.
	AddEdge(ctx context.Context, edge *core.GraphEdge) (*core.GraphEdge, error)

	// UpdateEdge replaces the stored edge with the same Id under the same
	// source node. Returns ErrNotFound if no such edge exists.
	UpdateEdge(ctx context.Context, edge *core.GraphEdge) (*core.GraphEdge, error)

	// GetAdjacency returns the outgoing edges of a node, in insertion order.
	// A node with no outgoing edges yields an empty slice, not ErrNotFound.
	GetAdjacency(ctx context.Context, id core.ID) ([]core.GraphEdge, error)

	// RecordTraversals increments the traversal count of the given edges.
	// Unknown edge IDs are skipped silently.
	RecordTraversals(ctx context.Context, source core.ID, edgeIDs ...core.EdgeID) error

	// PutPoint stores a node's position in the hyperbolic space.
	PutPoint(ctx context.Context, id core.ID, point *core.HyperbolicPoint) error

	// GetPoint retrieves a node's hyperbolic position.
	// Returns ErrNotFound if no point has been stored for the node.
	GetPoint(ctx context.Context, id core.ID) (*core.HyperbolicPoint, error)

	// PutCone stores a node's entailment cone.
	PutCone(ctx context.Context, id core.ID, cone *core.EntailmentCone) error

	// GetCone retrieves a node's entailment cone.
	// Returns ErrNotFound if no cone has been stored for the node.
	GetCone(ctx context.Context, id core.ID) (*core.EntailmentCone, error)

	// IterateNodes calls fn for every stored node, in key order.
	// Iteration stops when fn returns false or an error.
	IterateNodes(ctx context.Context, fn func(node *core.GraphNode) (bool, error)) error

	// IterateCones calls fn for every stored cone, in key order.
	// Iteration stops when fn returns false or an error.
	IterateCones(ctx context.Context, fn func(id core.ID, cone *core.EntailmentCone) (bool, error)) error

	// Stats reports entity counts for the whole store.
	Stats(ctx context.Context) (*GraphStats, error)
}

// GraphStats summarizes the contents of a graph store.
type GraphStats struct {
	Nodes  uint64
	Edges  uint64
	Points uint64
	Cones  uint64
}
