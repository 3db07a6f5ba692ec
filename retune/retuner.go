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
	"io"
	"time"

	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/storage"
)

// Config holds configuration for the retuning operation.
type Config struct {
	// BatchSize is the number of cones to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of cones)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Retuner orchestrates the recalibration of all stored entailment cones.
type Retuner struct {
	repo      storage.GraphRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ConeIterator
}

// NewRetuner creates a new retuner applying the given aperture schedule.
// progress: where to write progress output (typically os.Stderr)
func NewRetuner(repo storage.GraphRepository, coneCfg entailment.ConeConfig, config *Config, progress io.Writer) *Retuner {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(repo, coneCfg, config.MaxRetries, config.RetryDelay)
	iterator := NewConeIterator(repo, config.BatchSize)

	return &Retuner{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the retuning operation.
// Every stored cone is recalibrated under the configured aperture schedule;
// deltas, keyed by node ID, are applied to cones' learned aperture factors
// and may be nil. Progress is reported to the configured writer.
func (r *Retuner) Run(ctx context.Context, deltas map[uint64]float32) error {
	stats, err := r.repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to count cones: %w", err)
	}

	totalCones := int(stats.Cones)
	if totalCones == 0 {
		fmt.Fprintf(r.progress, "No cones found in database (0 cones)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting retuning of %d cones (batch size: %d)\n",
		totalCones, r.config.BatchSize)

	// Initialize progress tracker
	tracker := NewProgressTracker(r.progress, totalCones, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	// Process all cones in batches
	err = r.iterator.ForEach(ctx, func(records []ConeRecord) error {
		// Process this batch
		if err := r.processor.Process(ctx, records, deltas); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		// Update progress
		processed += len(records)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	// Finish progress tracking
	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Retuning complete. Processed %d cones in %v (%.1f cones/sec)\n",
		totalCones, elapsed.Round(time.Second), float64(totalCones)/elapsed.Seconds())

	return nil
}
