// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retune

import (
	"context"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/storage"
)

const (
	// DefaultBatchSize is the default number of cones to process in each batch
	DefaultBatchSize = 100
)

// ConeRecord pairs a node ID with its stored entailment cone.
type ConeRecord struct {
	Id   core.ID
	Cone *core.EntailmentCone
}

// ConeIterator iterates over all stored cones in key order, in batches.
type ConeIterator struct {
	repo      storage.GraphRepository
	batchSize int
}

// NewConeIterator creates a new cone iterator.
// batchSize: number of cones to hand to each callback (must be > 0)
func NewConeIterator(repo storage.GraphRepository, batchSize int) *ConeIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ConeIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all cones, calling fn for each batch.
// Iteration stops on first error from fn or when all cones are processed.
// Context cancellation is checked between batches.
func (it *ConeIterator) ForEach(ctx context.Context, fn func([]ConeRecord) error) error {
	batch := make([]ConeRecord, 0, it.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	err := it.repo.IterateCones(ctx, func(id core.ID, cone *core.EntailmentCone) (bool, error) {
		batch = append(batch, ConeRecord{Id: id, Cone: cone})
		if len(batch) >= it.batchSize {
			if err := flush(); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	return flush()
}
