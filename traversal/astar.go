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
	"container/heap"
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/modulation"
	"github.com/poiesic/hyperkg/storage"
)

// openItem is an open-set entry. g is the best known cost from the start;
// f adds the weighted heuristic.
type openItem struct {
	node  core.ID
	g     float64
	f     float64
	steps int
	index int
}

type openSet []*openItem

func (s openSet) Len() int           { return len(s) }
func (s openSet) Less(i, j int) bool { return s[i].f < s[j].f }

func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*s)
	*s = append(*s, item)
}
func (s *openSet) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return item
}

// FindPath searches for a cheapest path from start to goal using best-first
// search with an admissible hyperbolic-distance heuristic.
//
// A node's cost may be revised downward while it waits in the open set and
// is frozen once popped into the closed set. Nodes without stored points
// contribute a zero heuristic, so the search degrades to Dijkstra instead
// of failing. An unreachable goal yields Found=false with no error.
func (e *Engine) FindPath(ctx context.Context, start, goal core.ID, params PathParams) (*PathResult, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	if err := e.requireNode(ctx, start, ErrStartNotFound); err != nil {
		return nil, err
	}
	if err := e.requireNode(ctx, goal, ErrGoalNotFound); err != nil {
		return nil, err
	}

	goalPoint, err := e.lookupPoint(ctx, goal)
	if err != nil {
		return nil, err
	}
	if params.DisableHeuristic {
		goalPoint = nil
	}

	result := &PathResult{}
	open := openSet{}
	heap.Init(&open)
	closed := map[core.ID]struct{}{}
	gScore := map[core.ID]float64{start: 0}
	cameFrom := map[core.ID]core.ID{}
	inOpen := map[core.ID]*openItem{}

	h0, err := e.heuristic(ctx, start, goalPoint, params.HeuristicWeight)
	if err != nil {
		return nil, err
	}
	startItem := &openItem{node: start, g: 0, f: h0}
	heap.Push(&open, startItem)
	inOpen[start] = startItem

	for open.Len() > 0 {
		if result.Expanded >= params.MaxExpansions {
			result.Truncated = true
			break
		}

		current := heap.Pop(&open).(*openItem)
		delete(inOpen, current.node)
		if _, ok := closed[current.node]; ok {
			continue
		}
		closed[current.node] = struct{}{}
		result.Expanded++

		if current.node == goal {
			result.Found = true
			result.Cost = float32(current.g)
			result.Path = reconstruct(cameFrom, start, goal)
			break
		}

		if params.MaxPathLength > 0 && current.steps+1 >= params.MaxPathLength {
			continue
		}

		edges, err := e.repo.GetAdjacency(ctx, current.node)
		if err != nil {
			return nil, fmt.Errorf("adjacency of node %d: %w", current.node, err)
		}

		for i := range edges {
			edge := &edges[i]
			if !params.allowsType(edge.Type) {
				continue
			}
			if _, ok := closed[edge.Target]; ok {
				continue
			}

			tentative := current.g + float64(modulation.TraversalCost(edge, params.QueryDomain))
			if best, ok := gScore[edge.Target]; ok && tentative >= best {
				continue
			}
			gScore[edge.Target] = tentative
			cameFrom[edge.Target] = current.node

			h, err := e.heuristic(ctx, edge.Target, goalPoint, params.HeuristicWeight)
			if err != nil {
				return nil, err
			}

			if existing, ok := inOpen[edge.Target]; ok {
				existing.g = tentative
				existing.f = tentative + h
				existing.steps = current.steps + 1
				heap.Fix(&open, existing.index)
				continue
			}
			item := &openItem{
				node:  edge.Target,
				g:     tentative,
				f:     tentative + h,
				steps: current.steps + 1,
			}
			heap.Push(&open, item)
			inOpen[edge.Target] = item
		}
	}

	e.logger.Debug("path search complete",
		"start", uint64(start),
		"goal", uint64(goal),
		"found", result.Found,
		"expanded", result.Expanded,
		"truncated", result.Truncated)
	return result, nil
}

// lookupPoint fetches a node's point, mapping "not stored" onto nil.
func (e *Engine) lookupPoint(ctx context.Context, id core.ID) (*core.HyperbolicPoint, error) {
	point, err := e.repo.GetPoint(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return point, nil
}

// heuristic estimates remaining cost to the goal. The hyperbolic distance
// is divided by an assumed maximum meaningful distance and capped at 1.0,
// keeping it on the per-edge cost scale and therefore admissible.
func (e *Engine) heuristic(ctx context.Context, node core.ID, goalPoint *core.HyperbolicPoint, weight float64) (float64, error) {
	if goalPoint == nil {
		return 0, nil
	}
	point, err := e.lookupPoint(ctx, node)
	if err != nil {
		return 0, err
	}
	if point == nil {
		return 0, nil
	}
	h := float64(e.ball.Distance(*point, *goalPoint)) / heuristicScale
	if h > 1.0 {
		h = 1.0
	}
	return weight * h, nil
}

// reconstruct walks the predecessor map from goal back to start.
func reconstruct(cameFrom map[core.ID]core.ID, start, goal core.ID) []core.ID {
	path := []core.ID{goal}
	for current := goal; current != start; {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	// Reverse in place.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
