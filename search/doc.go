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


// Package search provides semantic and entailment-aware queries over the
// knowledge graph.
//
// The Searcher type combines:
//   - Semantic candidate retrieval using vector embeddings
//   - Entailment-cone membership ranking against an ancestor concept
//   - Verbatim keyword matching with stop-word filtering
//
// Entailment checks (does concept A subsume concept B?) are answered from
// stored cones and points without touching the embedder.
package search
