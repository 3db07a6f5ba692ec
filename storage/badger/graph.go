package badger

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/storage"
)

// GraphRepository implements storage.GraphRepository for BadgerDB.
type GraphRepository struct {
	backend *Backend
}

var _ storage.GraphRepository = (*GraphRepository)(nil)

// NewGraphRepository creates a new GraphRepository.
func NewGraphRepository(backend *Backend) (*GraphRepository, error) {
	return &GraphRepository{
		backend: backend,
	}, nil
}

// Close releases resources. GraphRepository has no resources to release.
func (r *GraphRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *GraphRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.ScoredNode, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *GraphRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddNodes adds one or more nodes to storage.
func (r *GraphRepository) AddNodes(ctx context.Context, nodes ...*core.GraphNode) ([]*core.GraphNode, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, node := range nodes {
			// Use content-based ID if not set
			if node.Id == 0 {
				node.Id = core.IDFromContent(node.Label)
			}

			if err := core.ValidateNode(node); err != nil {
				return err
			}

			node.InsertedAt = time.Now().UTC()
			node.UpdatedAt = node.InsertedAt

			key := makeNodeKey(node.Id)
			if err := tx.Set(key, storage.MarshalNode(node)); err != nil {
				return err
			}

			// Store label index
			labelKey := makeLabelKey(node.Label)
			if err := tx.Set(labelKey, storage.MarshalID(node.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return nodes, err
}

// UpdateNodes updates existing nodes.
func (r *GraphRepository) UpdateNodes(ctx context.Context, nodes ...*core.GraphNode) ([]*core.GraphNode, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, node := range nodes {
			key := makeNodeKey(node.Id)

			// Read old node to detect label changes
			old, err := readNode(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := core.ValidateNode(node); err != nil {
				return err
			}

			node.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalNode(node)); err != nil {
				return err
			}

			if old.Label != node.Label {
				if err := tx.Delete(makeLabelKey(old.Label)); err != nil {
					return err
				}
				if err := tx.Set(makeLabelKey(node.Label), storage.MarshalID(node.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return nodes, err
}

// DeleteNodes removes nodes by their IDs, along with their point, cone,
// adjacency list, and label index.
func (r *GraphRepository) DeleteNodes(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNodeKey(id)

			node, err := readNode(tx, key)
			if err != nil {
				return err
			}
			if node == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeLabelKey(node.Label)); err != nil {
				return err
			}
			if err := tx.Delete(makeAdjacencyKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(makePointKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(makeConeKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetNode retrieves a single node by ID.
func (r *GraphRepository) GetNode(ctx context.Context, id core.ID) (*core.GraphNode, error) {
	var result *core.GraphNode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readNode(tx, makeNodeKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetNodes retrieves multiple nodes by their IDs.
func (r *GraphRepository) GetNodes(ctx context.Context, ids ...core.ID) ([]*core.GraphNode, error) {
	var result []*core.GraphNode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			node, err := readNode(tx, makeNodeKey(id))
			if err != nil {
				return err
			}
			if node != nil {
				result = append(result, node)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindNodeByLabel finds a node by its label's content ID.
func (r *GraphRepository) FindNodeByLabel(ctx context.Context, label string) (*core.GraphNode, error) {
	var result *core.GraphNode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeLabelKey(label))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var nodeID core.ID
		err = item.Value(func(val []byte) error {
			nodeID, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		result, err = readNode(tx, makeNodeKey(nodeID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// AddEdge appends an edge to its source node's adjacency list.
func (r *GraphRepository) AddEdge(ctx context.Context, edge *core.GraphEdge) (*core.GraphEdge, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if edge.Id == (core.EdgeID{}) {
			edge.Id = core.NewEdgeID()
		}
		if err := core.ValidateEdge(edge); err != nil {
			return err
		}
		edge.CreatedAt = time.Now().UTC()

		key := makeAdjacencyKey(edge.Source)
		edges, err := readAdjacency(tx, key)
		if err != nil {
			return err
		}
		edges = append(edges, *edge)
		if err := tx.Set(key, storage.MarshalEdgeList(edges)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return edge, err
}

// UpdateEdge replaces the stored edge with the same Id under the same source.
func (r *GraphRepository) UpdateEdge(ctx context.Context, edge *core.GraphEdge) (*core.GraphEdge, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := core.ValidateEdge(edge); err != nil {
			return err
		}

		key := makeAdjacencyKey(edge.Source)
		edges, err := readAdjacency(tx, key)
		if err != nil {
			return err
		}

		found := false
		for i := range edges {
			if edges[i].Id == edge.Id {
				edges[i] = *edge
				found = true
				break
			}
		}
		if !found {
			return storage.ErrNotFound
		}

		if err := tx.Set(key, storage.MarshalEdgeList(edges)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return edge, err
}

// GetAdjacency returns the outgoing edges of a node, in insertion order.
func (r *GraphRepository) GetAdjacency(ctx context.Context, id core.ID) ([]core.GraphEdge, error) {
	var edges []core.GraphEdge
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		edges, err = readAdjacency(tx, makeAdjacencyKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if edges == nil {
		edges = []core.GraphEdge{}
	}
	return edges, nil
}

// RecordTraversals increments the traversal count of the given edges.
func (r *GraphRepository) RecordTraversals(ctx context.Context, source core.ID, edgeIDs ...core.EdgeID) error {
	if len(edgeIDs) == 0 {
		return nil
	}
	wanted := make(map[core.EdgeID]struct{}, len(edgeIDs))
	for _, id := range edgeIDs {
		wanted[id] = struct{}{}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAdjacencyKey(source)
		edges, err := readAdjacency(tx, key)
		if err != nil {
			return err
		}

		touched := false
		for i := range edges {
			if _, ok := wanted[edges[i].Id]; ok {
				edges[i].TraversalCount++
				touched = true
			}
		}
		if !touched {
			return nil
		}

		if err := tx.Set(key, storage.MarshalEdgeList(edges)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// PutPoint stores a node's position in the hyperbolic space.
func (r *GraphRepository) PutPoint(ctx context.Context, id core.ID, point *core.HyperbolicPoint) error {
	if err := core.ValidatePoint(point); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makePointKey(id), storage.MarshalPoint(point)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetPoint retrieves a node's hyperbolic position.
func (r *GraphRepository) GetPoint(ctx context.Context, id core.ID) (*core.HyperbolicPoint, error) {
	var result *core.HyperbolicPoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePointKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalPoint(val)
			return err
		})
	}, false)
	return result, err
}

// PutCone stores a node's entailment cone.
func (r *GraphRepository) PutCone(ctx context.Context, id core.ID, cone *core.EntailmentCone) error {
	if err := core.ValidateCone(cone); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeConeKey(id), storage.MarshalCone(cone)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetCone retrieves a node's entailment cone.
func (r *GraphRepository) GetCone(ctx context.Context, id core.ID) (*core.EntailmentCone, error) {
	var result *core.EntailmentCone
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeConeKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalCone(val)
			return err
		})
	}, false)
	return result, err
}

// IterateNodes calls fn for every stored node, in key order.
func (r *GraphRepository) IterateNodes(ctx context.Context, fn func(node *core.GraphNode) (bool, error)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(nodeRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var node *core.GraphNode
			err := iter.Item().Value(func(val []byte) error {
				var err error
				node, err = storage.UnmarshalNode(val)
				return err
			})
			if err != nil {
				return err
			}
			cont, err := fn(node)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	}, false)
}

// IterateCones calls fn for every stored cone, in key order.
func (r *GraphRepository) IterateCones(ctx context.Context, fn func(id core.ID, cone *core.EntailmentCone) (bool, error)) error {
	prefix := []byte(conePrefix + ":")
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			id, err := parseKeyID(item.Key(), prefix)
			if err != nil {
				return err
			}
			var cone *core.EntailmentCone
			err = item.Value(func(val []byte) error {
				var err error
				cone, err = storage.UnmarshalCone(val)
				return err
			})
			if err != nil {
				return err
			}
			cont, err := fn(id, cone)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	}, false)
}

// Stats reports entity counts for the whole store.
func (r *GraphRepository) Stats(ctx context.Context) (*storage.GraphStats, error) {
	stats := &storage.GraphStats{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()
			switch {
			case bytes.HasPrefix(key, []byte(nodeRecordPrefix+":")):
				stats.Nodes++
			case bytes.HasPrefix(key, []byte(pointPrefix+":")):
				stats.Points++
			case bytes.HasPrefix(key, []byte(conePrefix+":")):
				stats.Cones++
			case bytes.HasPrefix(key, []byte(adjacencyPrefix+":")):
				var count uint64
				err := item.Value(func(val []byte) error {
					edges, err := storage.UnmarshalEdgeList(val)
					if err != nil {
						return err
					}
					count = uint64(len(edges))
					return nil
				})
				if err != nil {
					return err
				}
				stats.Edges += count
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Helper methods

// readNode reads a node from the transaction. A missing key yields (nil, nil).
func readNode(tx *badger.Txn, key []byte) (*core.GraphNode, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var node *core.GraphNode
	err = item.Value(func(val []byte) error {
		var err error
		node, err = storage.UnmarshalNode(val)
		return err
	})
	return node, err
}

// readAdjacency reads an adjacency list. A missing key yields an empty list.
func readAdjacency(tx *badger.Txn, key []byte) ([]core.GraphEdge, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var edges []core.GraphEdge
	err = item.Value(func(val []byte) error {
		var err error
		edges, err = storage.UnmarshalEdgeList(val)
		return err
	})
	return edges, err
}

// parseKeyID extracts the decimal node ID suffix from a prefixed key.
func parseKeyID(key, prefix []byte) (core.ID, error) {
	raw := bytes.TrimPrefix(key, prefix)
	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return core.ID(v), nil
}
