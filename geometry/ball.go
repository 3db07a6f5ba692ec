package geometry

import (
	"math"

	"github.com/poiesic/hyperkg/core"
)

// Tangent is a vector in the tangent space at some base point.
type Tangent [core.Dimension]float32

// Norm returns the Euclidean norm of the tangent vector.
func (t *Tangent) Norm() float64 {
	var sum float64
	for _, c := range t {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}

// Dot returns the Euclidean inner product of two tangent vectors.
func (t *Tangent) Dot(other *Tangent) float64 {
	var sum float64
	for i := range t {
		sum += float64(t[i]) * float64(other[i])
	}
	return sum
}

// Ball performs Mobius algebra on a configured Poincare ball.
// Construction validates the configuration; Ball methods never error,
// clamping numerical edge cases locally instead.
type Ball struct {
	cfg   HyperbolicConfig
	c     float64 // |curvature|
	sqrtC float64
}

// NewBall creates a Ball from a validated configuration.
func NewBall(cfg HyperbolicConfig) (*Ball, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := math.Abs(float64(cfg.Curvature))
	return &Ball{cfg: cfg, c: c, sqrtC: math.Sqrt(c)}, nil
}

// Config returns the ball's configuration.
func (b *Ball) Config() HyperbolicConfig {
	return b.cfg
}

// Project rescales a point whose norm reaches or exceeds MaxNorm back
// inside the ball. Points already inside are returned unchanged.
func (b *Ball) Project(p core.HyperbolicPoint) core.HyperbolicPoint {
	norm := p.Norm()
	if norm < b.cfg.MaxNorm {
		return p
	}
	if norm < b.cfg.Epsilon {
		return core.Origin()
	}
	scale := b.cfg.MaxNorm / norm
	var out core.HyperbolicPoint
	for i, c := range p.Coords {
		out.Coords[i] = float32(float64(c) * scale)
	}
	return out
}

// MobiusAdd computes the Mobius (gyrovector) sum x (+) y.
// The operation is non-commutative; it is the building block for the
// exponential and logarithmic maps. The result is projected back inside
// the ball so chained operations cannot drift out.
func (b *Ball) MobiusAdd(x, y core.HyperbolicPoint) core.HyperbolicPoint {
	xx := sqNorm(&x)
	yy := sqNorm(&y)
	xy := dotPoints(&x, &y)

	a1 := 1 + 2*b.c*xy + b.c*yy
	a2 := 1 - b.c*xx
	den := 1 + 2*b.c*xy + b.c*b.c*xx*yy
	if math.Abs(den) < b.cfg.Epsilon {
		den = b.cfg.Epsilon
	}

	var out core.HyperbolicPoint
	for i := range out.Coords {
		num := a1*float64(x.Coords[i]) + a2*float64(y.Coords[i])
		out.Coords[i] = float32(num / den)
	}
	return b.Project(out)
}

// Distance computes the hyperbolic distance between two points:
//
//	d(x,y) = (2/sqrt(|c|)) * artanh(sqrt(|c| * ||x-y||^2 / ((1-|c|||x||^2)(1-|c|||y||^2))))
//
// Symmetric, zero iff x == y within floating tolerance, and always finite
// for valid interior points.
//
// This closed form is not the metric induced by ExpMap/LogMap. The log
// map's Riemannian length is (2/sqrt(|c|)) * artanh(sqrt(|c|)*||-x (+) y||),
// a different quantity; the two agree only at coinciding points. Distance
// is the cost measure used throughout the engine, the maps are each
// other's inverses independently of it.
func (b *Ball) Distance(x, y core.HyperbolicPoint) float32 {
	var diff float64
	for i := range x.Coords {
		d := float64(x.Coords[i]) - float64(y.Coords[i])
		diff += d * d
	}

	dx := 1 - b.c*sqNorm(&x)
	if dx < b.cfg.Epsilon {
		dx = b.cfg.Epsilon
	}
	dy := 1 - b.c*sqNorm(&y)
	if dy < b.cfg.Epsilon {
		dy = b.cfg.Epsilon
	}

	arg := math.Sqrt(b.c * diff / (dx * dy))
	return float32(2 / b.sqrtC * artanh(arg, b.cfg.Epsilon))
}

// ExpMap maps a tangent vector at base onto the manifold.
// A zero (or near-zero) tangent maps to base itself.
func (b *Ball) ExpMap(base core.HyperbolicPoint, tangent Tangent) core.HyperbolicPoint {
	vn := tangent.Norm()
	if vn < b.cfg.Epsilon {
		return base
	}

	lambda := b.conformalFactor(&base)
	t := math.Tanh(b.sqrtC * lambda * vn / 2)
	scale := t / (b.sqrtC * vn)

	var w core.HyperbolicPoint
	for i, c := range tangent {
		w.Coords[i] = float32(float64(c) * scale)
	}
	return b.MobiusAdd(base, w)
}

// LogMap maps a target point into the tangent space at base; inverse of
// ExpMap. A target at (or numerically at) base yields the zero vector.
func (b *Ball) LogMap(base, target core.HyperbolicPoint) Tangent {
	var neg core.HyperbolicPoint
	for i, c := range base.Coords {
		neg.Coords[i] = -c
	}
	d := b.MobiusAdd(neg, target)

	dn := d.Norm()
	var out Tangent
	if dn < b.cfg.Epsilon {
		return out
	}

	lambda := b.conformalFactor(&base)
	factor := 2 / (b.sqrtC * lambda) * artanh(b.sqrtC*dn, b.cfg.Epsilon) / dn
	for i, c := range d.Coords {
		out[i] = float32(float64(c) * factor)
	}
	return out
}

// conformalFactor computes lambda_x = 2 / (1 - |c|*||x||^2), floored at epsilon.
func (b *Ball) conformalFactor(x *core.HyperbolicPoint) float64 {
	den := 1 - b.c*sqNorm(x)
	if den < b.cfg.Epsilon {
		den = b.cfg.Epsilon
	}
	return 2 / den
}

// artanh computes the inverse hyperbolic tangent with its argument clamped
// to [0, 1-epsilon]; arguments at or past 1 are expected numerical noise
// near the ball boundary, not failures.
func artanh(x, epsilon float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 1-epsilon {
		x = 1 - epsilon
	}
	return 0.5 * math.Log((1+x)/(1-x))
}

func sqNorm(p *core.HyperbolicPoint) float64 {
	var sum float64
	for _, c := range p.Coords {
		sum += float64(c) * float64(c)
	}
	return sum
}

func dotPoints(x, y *core.HyperbolicPoint) float64 {
	var sum float64
	for i := range x.Coords {
		sum += float64(x.Coords[i]) * float64(y.Coords[i])
	}
	return sum
}
