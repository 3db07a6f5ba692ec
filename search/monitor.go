package search

import (
	"iter"

	"github.com/poiesic/hyperkg/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(ids []uint64)
	AfterMembershipRanking(members iter.Seq[uint64])
	SemanticHit(node *core.GraphNode)
	SubsumedHit(node *core.GraphNode)
	Finish(results []*Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterSemanticSearch(_ []uint64)            {}
func (n *noopMonitor) AfterMembershipRanking(_ iter.Seq[uint64]) {}
func (n *noopMonitor) SemanticHit(_ *core.GraphNode)             {}
func (n *noopMonitor) SubsumedHit(_ *core.GraphNode)             {}
func (n *noopMonitor) Finish(_ []*Result)                        {}
