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


package traversal

import "github.com/poiesic/hyperkg/core"

// Visit records one node reached by BFS, with the depth it was found at.
type Visit struct {
	Node  core.ID
	Depth int
}

// BFSResult is the outcome of a breadth-first run.
// Truncated means a resource limit stopped the run early; the nodes
// reported so far are still valid.
type BFSResult struct {
	Visits []Visit
	// Edges holds every edge followed during expansion, in follow order.
	Edges []core.GraphEdge
	// DepthCounts[d] is the number of nodes first reached at depth d.
	DepthCounts []int
	Truncated   bool
}

// Nodes returns the visited node IDs in visit order.
func (r *BFSResult) Nodes() []core.ID {
	ids := make([]core.ID, len(r.Visits))
	for i, v := range r.Visits {
		ids[i] = v.Node
	}
	return ids
}

// DFSResult is the outcome of a depth-first run.
type DFSResult struct {
	// PreOrder lists nodes in discovery order.
	PreOrder []core.ID
	// PostOrder lists nodes in finish order. Populated only when the run
	// was configured with PostOrder.
	PostOrder []core.ID
	// BackEdges counts edges that led to an already-discovered node.
	// Nonzero means the explored subgraph contains a cycle.
	BackEdges int
	Truncated bool
}

// PathResult is the outcome of a best-first run.
// Found distinguishes "no path exists" (a successful negative) from a path
// being present. A truncated result carries no optimality guarantee.
type PathResult struct {
	Found bool
	// Path lists node IDs from start to goal, inclusive. Empty when not found.
	Path []core.ID
	// Cost is the accumulated traversal cost of Path.
	Cost float32
	// Expanded is the number of nodes popped into the closed set.
	Expanded  int
	Truncated bool
}
