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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/geometry"
	"github.com/poiesic/hyperkg/modulation"
	"github.com/poiesic/hyperkg/storage"
)

// Engine runs graph traversals against a repository.
// An Engine holds no per-run state and is safe for concurrent use.
type Engine struct {
	repo   storage.GraphRepository
	ball   *geometry.Ball
	logger *slog.Logger
}

// NewEngine creates a traversal engine. The ball supplies the best-first
// heuristic; it must match the geometry the stored points were embedded with.
func NewEngine(repo storage.GraphRepository, ball *geometry.Ball) *Engine {
	return &Engine{
		repo:   repo,
		ball:   ball,
		logger: slog.Default().With("component", "traversal"),
	}
}

// requireNode maps a missing node onto the given sentinel so callers can
// tell a bad argument from an unreachable goal.
func (e *Engine) requireNode(ctx context.Context, id core.ID, sentinel error) error {
	_, err := e.repo.GetNode(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: node %d", sentinel, id)
		}
		return err
	}
	return nil
}

// BFS explores the graph breadth-first from start.
// Each node is emitted at most once, so cyclic graphs terminate. The run
// stops when the frontier drains or MaxNodes is hit; depth-limited
// expansion simply stops enqueuing past MaxDepth.
func (e *Engine) BFS(ctx context.Context, start core.ID, params Params) (*BFSResult, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	if err := e.requireNode(ctx, start, ErrStartNotFound); err != nil {
		return nil, err
	}

	result := &BFSResult{}
	frontier := []Visit{{Node: start, Depth: 0}}
	// Marked on enqueue: a node transitions Unvisited -> Frontier exactly once.
	seen := map[core.ID]struct{}{start: {}}

	for len(frontier) > 0 {
		if len(result.Visits) >= params.MaxNodes {
			result.Truncated = true
			break
		}

		current := frontier[0]
		frontier = frontier[1:]

		result.Visits = append(result.Visits, current)
		for len(result.DepthCounts) <= current.Depth {
			result.DepthCounts = append(result.DepthCounts, 0)
		}
		result.DepthCounts[current.Depth]++

		if current.Depth >= params.MaxDepth {
			continue
		}

		edges, err := e.repo.GetAdjacency(ctx, current.Node)
		if err != nil {
			return nil, fmt.Errorf("adjacency of node %d: %w", current.Node, err)
		}

		for i := range edges {
			edge := &edges[i]
			if !params.allowsType(edge.Type) {
				continue
			}
			if modulation.ModulatedWeight(edge, params.QueryDomain) < params.MinWeight {
				continue
			}
			if _, ok := seen[edge.Target]; ok {
				continue
			}
			seen[edge.Target] = struct{}{}
			result.Edges = append(result.Edges, *edge)
			frontier = append(frontier, Visit{Node: edge.Target, Depth: current.Depth + 1})
		}
	}

	e.logger.Debug("bfs complete",
		"start", uint64(start),
		"visited", len(result.Visits),
		"truncated", result.Truncated)
	return result, nil
}

// dfsRecord is one explicit-stack entry. finish entries produce post-order
// output without recursion.
type dfsRecord struct {
	node   core.ID
	depth  int
	finish bool
}

// DFS explores the graph depth-first from start using an explicit stack.
// Edges into already-discovered nodes are counted as back edges instead of
// being followed, so cycles terminate and are reported.
func (e *Engine) DFS(ctx context.Context, start core.ID, params Params) (*DFSResult, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	if err := e.requireNode(ctx, start, ErrStartNotFound); err != nil {
		return nil, err
	}

	result := &DFSResult{}
	stack := []dfsRecord{{node: start, depth: 0}}
	discovered := map[core.ID]struct{}{}

	for len(stack) > 0 {
		rec := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if rec.finish {
			result.PostOrder = append(result.PostOrder, rec.node)
			continue
		}

		// A node can sit on the stack twice when two branches reach it;
		// only the first pop discovers it.
		if _, ok := discovered[rec.node]; ok {
			continue
		}

		if len(result.PreOrder) >= params.MaxNodes {
			result.Truncated = true
			break
		}

		discovered[rec.node] = struct{}{}
		result.PreOrder = append(result.PreOrder, rec.node)

		if params.PostOrder {
			stack = append(stack, dfsRecord{node: rec.node, depth: rec.depth, finish: true})
		}

		if rec.depth >= params.MaxDepth {
			continue
		}

		edges, err := e.repo.GetAdjacency(ctx, rec.node)
		if err != nil {
			return nil, fmt.Errorf("adjacency of node %d: %w", rec.node, err)
		}

		// Push in reverse so the first edge is explored first.
		for i := len(edges) - 1; i >= 0; i-- {
			edge := &edges[i]
			if !params.allowsType(edge.Type) {
				continue
			}
			if modulation.ModulatedWeight(edge, params.QueryDomain) < params.MinWeight {
				continue
			}
			if _, ok := discovered[edge.Target]; ok {
				result.BackEdges++
				continue
			}
			stack = append(stack, dfsRecord{node: edge.Target, depth: rec.depth + 1})
		}
	}

	e.logger.Debug("dfs complete",
		"start", uint64(start),
		"visited", len(result.PreOrder),
		"back_edges", result.BackEdges,
		"truncated", result.Truncated)
	return result, nil
}
