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
	"fmt"
	"time"

	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/storage"
)

// BatchProcessor recalibrates batches of entailment cones.
type BatchProcessor struct {
	repo           storage.GraphRepository
	coneCfg        entailment.ConeConfig
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for storage writes
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.GraphRepository, coneCfg entailment.ConeConfig, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		coneCfg:        coneCfg,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process recomputes each cone's aperture from its depth under the
// configured schedule, applies any learned factor delta, and writes the
// cones back. Storage writes are retried with exponential backoff.
func (bp *BatchProcessor) Process(ctx context.Context, records []ConeRecord, deltas map[uint64]float32) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		record.Cone.Aperture = bp.coneCfg.ComputeAperture(record.Cone.Depth)
		if delta, ok := deltas[uint64(record.Id)]; ok {
			record.Cone.UpdateAperture(delta)
		}
	}

	err := RetryWithBackoff(ctx, func() error {
		for _, record := range records {
			if err := bp.repo.PutCone(ctx, record.Id, record.Cone); err != nil {
				return err
			}
		}
		return nil
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to store cones after %d attempts: %w", bp.maxRetries, err)
	}

	return nil
}
