package search

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sort"

	"github.com/poiesic/hyperkg/ai"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/geometry"
	"github.com/poiesic/hyperkg/storage"
)

// minSimilarity is the floor applied to semantic candidate retrieval.
const minSimilarity = 0.60

// Result is a single search hit.
type Result struct {
	Node  *core.GraphNode
	Score float32

	// Membership is the entailment-cone membership score against the
	// requested ancestor, zero for pure semantic searches.
	Membership float32
}

// Searcher provides semantic and entailment-aware search over graph nodes.
type Searcher struct {
	repository storage.GraphRepository
	embedder   ai.Embedder
	checker    *entailment.Checker
	threshold  float32
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher. The membership threshold comes from
// the cone configuration.
func NewSearcher(
	repository storage.GraphRepository,
	embedder ai.Embedder,
	ball *geometry.Ball,
	cfg entailment.ConeConfig,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if ball == nil {
		return nil, ErrBallRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Searcher{
		repository: repository,
		embedder:   embedder,
		checker:    entailment.NewChecker(ball),
		threshold:  cfg.MembershipThreshold,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for nodes semantically similar to the query.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*Result, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for nodes similar to the query with
// monitoring. The monitor receives callbacks at each stage of the search.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*Result, error) {
	return s.search(ctx, query, nil, maxHits, monitor)
}

// FindWithin searches for nodes similar to the query that the named
// ancestor concept subsumes. Candidates outside the ancestor's entailment
// cone are dropped; members are boosted and ranked.
func (s *Searcher) FindWithin(ctx context.Context, query, ancestor string, maxHits int) ([]*Result, error) {
	return s.FindWithinWithMonitor(ctx, query, ancestor, maxHits, nil)
}

// FindWithinWithMonitor is FindWithin with stage callbacks.
func (s *Searcher) FindWithinWithMonitor(ctx context.Context, query, ancestor string, maxHits int, monitor SearchMonitor) ([]*Result, error) {
	cone, _, err := s.coneFor(ctx, ancestor)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, query, cone, maxHits, monitor)
}

// Entails reports whether the ancestor concept subsumes the descendant,
// along with the membership score. Both concepts must have stored geometry.
func (s *Searcher) Entails(ctx context.Context, ancestor, descendant string) (bool, float32, error) {
	cone, _, err := s.coneFor(ctx, ancestor)
	if err != nil {
		return false, 0, err
	}

	node, err := s.nodeFor(ctx, descendant)
	if err != nil {
		return false, 0, err
	}
	point, err := s.repository.GetPoint(ctx, node.Id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, 0, ErrGeometryMissing
		}
		return false, 0, err
	}

	score := s.checker.MembershipScore(cone, *point)
	return score >= s.threshold, score, nil
}

// RankByMembership scores the candidate nodes against the ancestor's
// entailment cone and returns those at or above the membership threshold,
// sorted by score descending. Candidates without stored points are skipped.
func (s *Searcher) RankByMembership(ctx context.Context, ancestor string, candidates ...core.ID) ([]*Result, error) {
	cone, _, err := s.coneFor(ctx, ancestor)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(candidates))
	for _, id := range candidates {
		point, err := s.repository.GetPoint(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.logger.Debug("candidate has no point, skipping", "node", id)
				continue
			}
			return nil, err
		}

		score := s.checker.MembershipScore(cone, *point)
		if score < s.threshold {
			continue
		}

		node, err := s.repository.GetNode(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, &Result{Node: node, Score: score, Membership: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// search runs the semantic stage and, when cone is non-nil, the membership
// stage, then scores and ranks the survivors.
func (s *Searcher) search(ctx context.Context, query string, cone *core.EntailmentCone, maxHits int, monitor SearchMonitor) ([]*Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Semantic candidate retrieval
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	embedding = ai.NormalizeVector(embedding)

	// Over-fetch when a cone filter will run, since members are a subset.
	limit := maxHits
	if cone != nil {
		limit = maxHits * 4
	}
	matches, err := s.repository.FindSimilar(ctx, embedding, minSimilarity, limit)
	if err != nil {
		s.logger.Error("error querying for similar nodes", "err", err)
		return nil, err
	}

	semanticIds := make([]uint64, 0, len(matches))
	for _, match := range matches {
		semanticIds = append(semanticIds, uint64(match.Node.Id))
	}
	monitor.AfterSemanticSearch(semanticIds)

	// 2. Membership ranking against the ancestor cone
	memberScores := make(map[uint64]float32)
	if cone != nil {
		for _, match := range matches {
			point, err := s.repository.GetPoint(ctx, match.Node.Id)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					s.logger.Debug("candidate has no point, skipping", "node", match.Node.Id)
					continue
				}
				return nil, err
			}
			score := s.checker.MembershipScore(cone, *point)
			if score >= s.threshold {
				memberScores[uint64(match.Node.Id)] = score
			}
		}
		monitor.AfterMembershipRanking(maps.Keys(memberScores))
	}

	// 3. Score and build results
	results := make([]*Result, 0, len(matches))
	for _, match := range matches {
		result := &Result{Node: match.Node}

		if cone != nil {
			membership, ok := memberScores[uint64(match.Node.Id)]
			if !ok {
				continue
			}
			// Subsumed candidates are boosted by 1.5x
			result.Membership = membership
			result.Score = 1.5 * match.Similarity * membership
			monitor.SubsumedHit(match.Node)
		} else {
			result.Score = match.Similarity
			monitor.SemanticHit(match.Node)
		}

		// Apply verbatim match boost
		if containsAllQueryWords(match.Node.Label, query) {
			result.Score += 0.3
		}

		results = append(results, result)
	}

	// Sort by score descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)

	return results, nil
}

func (s *Searcher) nodeFor(ctx context.Context, label string) (*core.GraphNode, error) {
	node, err := s.repository.FindNodeByLabel(ctx, label)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrConceptNotFound
		}
		return nil, err
	}
	return node, nil
}

func (s *Searcher) coneFor(ctx context.Context, label string) (*core.EntailmentCone, *core.GraphNode, error) {
	node, err := s.nodeFor(ctx, label)
	if err != nil {
		return nil, nil, err
	}

	cone, err := s.repository.GetCone(ctx, node.Id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrGeometryMissing
		}
		return nil, nil, err
	}
	return cone, node, nil
}
