package core

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for graph nodes.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EdgeID is a unique identifier for graph edges (UUID v4).
type EdgeID = uuid.UUID

// NewEdgeID generates a fresh random edge identifier.
func NewEdgeID() EdgeID {
	return uuid.New()
}

// Domain identifies the knowledge domain a node or edge belongs to.
// It is a closed enumeration; consumers switch over it exhaustively.
type Domain int

const (
	// DomainGeneral is the default domain for uncategorized knowledge.
	DomainGeneral Domain = iota + 1
	// DomainCode covers programming and software engineering concepts.
	DomainCode
	// DomainLegal covers legal and regulatory concepts.
	DomainLegal
	// DomainMedical covers medical and biological concepts.
	DomainMedical
	// DomainCreative covers artistic and creative concepts.
	DomainCreative
	// DomainResearch covers scientific research concepts.
	DomainResearch
)

// String returns the canonical lower-case name of the domain.
func (d Domain) String() string {
	switch d {
	case DomainGeneral:
		return "general"
	case DomainCode:
		return "code"
	case DomainLegal:
		return "legal"
	case DomainMedical:
		return "medical"
	case DomainCreative:
		return "creative"
	case DomainResearch:
		return "research"
	default:
		return "unknown"
	}
}

// ParseDomain converts a domain name to its Domain value.
// Returns DomainGeneral, false for unrecognized names.
func ParseDomain(name string) (Domain, bool) {
	switch name {
	case "general":
		return DomainGeneral, true
	case "code":
		return DomainCode, true
	case "legal":
		return DomainLegal, true
	case "medical":
		return DomainMedical, true
	case "creative":
		return DomainCreative, true
	case "research":
		return DomainResearch, true
	default:
		return DomainGeneral, false
	}
}

// Domains lists every valid domain, in declaration order.
func Domains() []Domain {
	return []Domain{
		DomainGeneral, DomainCode, DomainLegal,
		DomainMedical, DomainCreative, DomainResearch,
	}
}

// EdgeType identifies the kind of relationship an edge represents.
type EdgeType int

const (
	// EdgeTypeSemantic links concepts related by meaning.
	EdgeTypeSemantic EdgeType = iota + 1
	// EdgeTypeTemporal links concepts related in time.
	EdgeTypeTemporal
	// EdgeTypeCausal links a cause to its effect.
	EdgeTypeCausal
	// EdgeTypeHierarchical links a parent concept to a child (IS-A).
	EdgeTypeHierarchical
)

// String returns the canonical lower-case name of the edge type.
func (t EdgeType) String() string {
	switch t {
	case EdgeTypeSemantic:
		return "semantic"
	case EdgeTypeTemporal:
		return "temporal"
	case EdgeTypeCausal:
		return "causal"
	case EdgeTypeHierarchical:
		return "hierarchical"
	default:
		return "unknown"
	}
}

// NeurotransmitterWeights holds the excitatory/inhibitory/modulatory profile
// used to modulate edge weights per domain. Each component lies in [0, 1].
type NeurotransmitterWeights struct {
	Excitatory float32
	Inhibitory float32
	Modulatory float32
}

// Dimension is the fixed dimensionality of the hyperbolic embedding space.
const Dimension = 64

// HyperbolicPoint is a point in the Poincare ball model of hyperbolic space.
// Valid points have Euclidean norm strictly less than 1.0.
// It is a plain fixed-size value with no indirection; copy freely.
type HyperbolicPoint struct {
	Coords [Dimension]float32
}

// Origin returns the point at the center of the ball.
func Origin() HyperbolicPoint {
	return HyperbolicPoint{}
}

// Norm returns the Euclidean norm of the point's coordinates.
func (p *HyperbolicPoint) Norm() float64 {
	var sum float64
	for _, c := range p.Coords {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}

// IsValid reports whether the point lies strictly inside the unit ball
// with finite coordinates.
func (p *HyperbolicPoint) IsValid() bool {
	n := p.Norm()
	return !math.IsNaN(n) && !math.IsInf(n, 0) && n < 1.0
}

// EntailmentCone is a geometric region rooted at a concept's point.
// A cone at apex contains the points of every concept the apex concept
// subsumes, so IS-A checks reduce to a containment test.
type EntailmentCone struct {
	// Apex is the cone's anchor point in the Poincare ball.
	Apex HyperbolicPoint
	// Aperture is the cone half-angle in radians, derived from hierarchy depth.
	Aperture float32
	// ApertureFactor is a learned multiplier in [0.5, 2.0] applied to Aperture.
	ApertureFactor float32
	// Depth is the concept's depth in the hierarchy (0 = root).
	Depth uint32
}

// EffectiveAperture returns the aperture used by all containment checks:
// Aperture * ApertureFactor clamped to [0, pi/2].
func (c *EntailmentCone) EffectiveAperture() float32 {
	effective := c.Aperture * c.ApertureFactor
	if effective < 0 {
		return 0
	}
	if effective > math.Pi/2 {
		return math.Pi / 2
	}
	return effective
}

// UpdateAperture nudges the aperture factor by a training signal.
// The factor is re-clamped to [0.5, 2.0] after every update.
func (c *EntailmentCone) UpdateAperture(delta float32) {
	factor := c.ApertureFactor + delta
	if factor < 0.5 {
		factor = 0.5
	}
	if factor > 2.0 {
		factor = 2.0
	}
	c.ApertureFactor = factor
}

// IsValid reports whether all cone invariants hold.
func (c *EntailmentCone) IsValid() bool {
	return c.Apex.IsValid() &&
		c.Aperture > 0 && float64(c.Aperture) <= math.Pi/2+1e-6 &&
		c.ApertureFactor >= 0.5 && c.ApertureFactor <= 2.0
}

// GraphNode represents a concept node in the knowledge graph.
// A node owns at most one HyperbolicPoint and at most one EntailmentCone,
// stored separately and resolved through the storage layer by ID.
type GraphNode struct {
	Id         ID
	Label      string
	Domain     Domain
	Depth      uint32    // Hierarchy depth (0 = root concept)
	Importance int       // Importance score from 1-10
	Vector     []float32 // Semantic embedding for candidate retrieval (populated by processors)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// ScoredNode pairs a node with a similarity score from vector search.
type ScoredNode struct {
	Node       *GraphNode
	Similarity float32
}

// GraphEdge is a directed edge between two nodes, referenced by ID.
// The modulation package is the single authority for turning these fields
// into an effective traversal weight.
type GraphEdge struct {
	Id             EdgeID
	Source         ID
	Target         ID
	Type           EdgeType
	Weight         float32 // Base edge weight [0, 1]
	Confidence     float32 // Confidence in validity [0, 1]
	Domain         Domain
	NT             NeurotransmitterWeights
	SteeringReward float32 // Reinforcement feedback, clamped at use time
	TraversalCount uint64
	CreatedAt      time.Time
}
