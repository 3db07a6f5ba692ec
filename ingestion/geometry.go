package ingestion

import (
	"context"
	"log/slog"
	"math"
	"math/rand"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/geometry"
	"github.com/poiesic/hyperkg/storage"
)

// geometryProcessor assigns hyperbolic coordinates and entailment cones to
// graph nodes. Placement is deterministic: the direction is derived from the
// node ID and the radius from the node's hierarchy depth, so re-running the
// processor over the same nodes yields the same geometry.
type geometryProcessor struct {
	repository storage.GraphRepository
	ball       *geometry.Ball
	coneCfg    entailment.ConeConfig
	logger     *slog.Logger
}

var _ processor = (*geometryProcessor)(nil)

// newGeometryProcessor creates a new geometry placement processor.
func newGeometryProcessor(repository storage.GraphRepository, ball *geometry.Ball, coneCfg entailment.ConeConfig, logger *slog.Logger) (processor, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if ball == nil {
		return nil, ErrBallRequired
	}
	if err := coneCfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &geometryProcessor{
		repository: repository,
		ball:       ball,
		coneCfg:    coneCfg,
		logger:     logger.With("processor", "geometry"),
	}, nil
}

// process places the specified nodes in the ball and stores their cones.
func (gp *geometryProcessor) process(ctx context.Context, ids ...core.ID) error {
	gp.logger.Info("placing nodes in hyperbolic space", "nodes", len(ids))

	nodes, err := gp.repository.GetNodes(ctx, ids...)
	if err != nil {
		gp.logger.Error("error retrieving nodes", "err", err)
		return err
	}

	for _, node := range nodes {
		point := gp.placement(node)

		if err := gp.repository.PutPoint(ctx, node.Id, &point); err != nil {
			gp.logger.Error("error storing point", "node", node.Id, "err", err)
			return err
		}

		cone, err := entailment.NewCone(point, node.Depth, gp.coneCfg)
		if err != nil {
			gp.logger.Error("error creating cone", "node", node.Id, "err", err)
			return err
		}
		if err := gp.repository.PutCone(ctx, node.Id, &cone); err != nil {
			gp.logger.Error("error storing cone", "node", node.Id, "err", err)
			return err
		}
	}

	return nil
}

// placement computes a point for a node. The direction is drawn from a PRNG
// seeded with the node ID and the radius shrinks toward the origin with
// depth, since cone axes point inward: general concepts sit near the rim
// and their specializations lie between them and the center.
func (gp *geometryProcessor) placement(node *core.GraphNode) core.HyperbolicPoint {
	rng := rand.New(rand.NewSource(int64(node.Id)))

	var direction [core.Dimension]float64
	var norm float64
	for i := range direction {
		direction[i] = rng.NormFloat64()
		norm += direction[i] * direction[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		direction[0] = 1
		norm = 1
	}

	radius := gp.ball.Config().MaxNorm * math.Tanh(1.5/float64(node.Depth+1))

	var point core.HyperbolicPoint
	for i := range point.Coords {
		point.Coords[i] = float32(radius * direction[i] / norm)
	}
	return gp.ball.Project(point)
}
