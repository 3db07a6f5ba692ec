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

import (
	"fmt"

	"github.com/poiesic/hyperkg/core"
)

const (
	// DefaultMaxDepth bounds BFS/DFS depth when the caller does not.
	DefaultMaxDepth = 10

	// DefaultMaxNodes bounds the number of visited nodes per run.
	DefaultMaxNodes = 10000

	// DefaultMaxExpansions bounds best-first search work.
	DefaultMaxExpansions = 10000

	// DefaultHeuristicWeight is the epsilon applied to the heuristic term.
	DefaultHeuristicWeight = 1.0

	// heuristicScale maps hyperbolic distances into the [0, 1] range of
	// per-edge costs. Raising it weakens the heuristic; lowering it risks
	// overestimation, which breaks the optimality guarantee.
	heuristicScale = 10.0
)

// Params configures a breadth-first or depth-first run.
type Params struct {
	// QueryDomain biases edge costs through modulation.
	QueryDomain core.Domain

	// MaxDepth limits how deep the run goes; 0 means DefaultMaxDepth.
	MaxDepth int

	// MaxNodes limits how many nodes the run visits; 0 means DefaultMaxNodes.
	MaxNodes int

	// EdgeTypes restricts expansion to the listed edge types.
	// Empty means all types.
	EdgeTypes []core.EdgeType

	// MinWeight prunes edges whose modulated weight falls below it.
	MinWeight float32

	// PostOrder additionally records DFS finish order. Ignored by BFS.
	PostOrder bool
}

func (p *Params) normalize() error {
	if p.MaxDepth < 0 || p.MaxNodes < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidParams)
	}
	if p.MinWeight < 0 || p.MinWeight > 1 {
		return fmt.Errorf("%w: min weight %g outside [0, 1]", ErrInvalidParams, p.MinWeight)
	}
	if p.QueryDomain == 0 {
		p.QueryDomain = core.DomainGeneral
	}
	if p.MaxDepth == 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.MaxNodes == 0 {
		p.MaxNodes = DefaultMaxNodes
	}
	return nil
}

// allowsType reports whether the edge type passes the filter.
func (p *Params) allowsType(t core.EdgeType) bool {
	if len(p.EdgeTypes) == 0 {
		return true
	}
	for _, allowed := range p.EdgeTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// PathParams configures a best-first (A*) run.
type PathParams struct {
	// QueryDomain biases edge costs through modulation.
	QueryDomain core.Domain

	// MaxExpansions limits closed-set growth; 0 means DefaultMaxExpansions.
	MaxExpansions int

	// MaxPathLength rejects reconstructed paths longer than this many
	// nodes; 0 means unlimited.
	MaxPathLength int

	// EdgeTypes restricts expansion to the listed edge types.
	// Empty means all types.
	EdgeTypes []core.EdgeType

	// DisableHeuristic forces plain Dijkstra, used for cost parity checks.
	DisableHeuristic bool

	// HeuristicWeight scales the heuristic term; 0 means
	// DefaultHeuristicWeight. Values above 1.0 trade optimality for speed.
	HeuristicWeight float64
}

func (p *PathParams) normalize() error {
	if p.MaxExpansions < 0 || p.MaxPathLength < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidParams)
	}
	if p.HeuristicWeight < 0 {
		return fmt.Errorf("%w: heuristic weight %g", ErrInvalidParams, p.HeuristicWeight)
	}
	if p.QueryDomain == 0 {
		p.QueryDomain = core.DomainGeneral
	}
	if p.MaxExpansions == 0 {
		p.MaxExpansions = DefaultMaxExpansions
	}
	if p.HeuristicWeight == 0 {
		p.HeuristicWeight = DefaultHeuristicWeight
	}
	return nil
}

func (p *PathParams) allowsType(t core.EdgeType) bool {
	if len(p.EdgeTypes) == 0 {
		return true
	}
	for _, allowed := range p.EdgeTypes {
		if allowed == t {
			return true
		}
	}
	return false
}
