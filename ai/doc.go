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


// Package ai provides the embedding abstraction used for candidate
// retrieval.
//
// The graph core never talks to an embedding service directly; ingestion
// and search depend on the Embedder interface defined here. Two
// implementations ship with the module:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM, the OpenAI API itself)
//   - ai/mock: a deterministic test double with no external dependencies
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder
// interface to enforce abstraction. Test constructors (mock.NewEmbedder)
// return the concrete type so tests can inject behavior and assert on
// call counts.
package ai
