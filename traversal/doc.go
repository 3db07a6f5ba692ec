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


// Package traversal implements breadth-first, depth-first, and heuristic
// best-first search over the knowledge graph.
//
// All three algorithms run over an explicit frontier rather than recursion,
// so arbitrarily deep graphs cannot overflow the call stack. Each run owns
// its own frontier, visited set, and cost tables; the engine holds no
// mutable state, so one engine can serve concurrent traversals.
//
// Resource limits (max depth, max nodes, max expansions) stand in for
// cancellation: a run that hits a limit returns a result with Truncated set
// rather than an error. A truncated best-first result carries no optimality
// guarantee. A missing start or goal node is an error; a goal that simply
// cannot be reached is a successful negative result.
//
// Edge costs come from the modulation package. The best-first heuristic is
// the hyperbolic distance to the goal's stored point, normalized into the
// same scale as edge costs; nodes without stored points contribute a zero
// heuristic, degrading the search to Dijkstra.
package traversal
