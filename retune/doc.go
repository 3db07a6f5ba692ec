// Package retune provides functionality for recalibrating stored entailment
// cones under a new aperture schedule.
//
// This package supports batch processing of cones, progress tracking, retry
// logic with exponential backoff, and application of learned aperture-factor
// deltas produced during training.
package retune
