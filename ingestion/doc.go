// Package ingestion provides pipeline orchestration for adding concepts to
// the knowledge graph.
//
// The Pipeline type manages the ingestion workflow for concept nodes:
//   - Adding nodes and hierarchy edges to storage
//   - Generating label embeddings asynchronously
//   - Placing nodes in the hyperbolic space and attaching entailment cones
//     asynchronously
//
// Processing is performed concurrently using worker pools to maximize throughput.
// Errors during async processing are logged but do not fail the ingestion operation.
package ingestion
