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


package search

import "errors"

var (
	// ErrRepositoryRequired is returned when a graph repository is not provided.
	ErrRepositoryRequired = errors.New("graph repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrBallRequired is returned when a geometry ball is not provided.
	ErrBallRequired = errors.New("geometry ball required")

	// ErrConceptNotFound is returned when a named concept has no node.
	ErrConceptNotFound = errors.New("concept not found")

	// ErrGeometryMissing is returned when an entailment check needs a point
	// or cone that has not been placed yet.
	ErrGeometryMissing = errors.New("concept has no stored geometry")
)
