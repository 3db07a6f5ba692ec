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


package core

import "fmt"

// ValidateNode validates a GraphNode according to domain rules.
//
// Validation rules:
//   - Label must not be empty
//   - Domain must be a known value
//   - Importance, when set, must lie in [1, 10]
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding processor runs)
//   - ID (0 is valid from database sequences)
func ValidateNode(node *GraphNode) error {
	if node == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidNode)
	}

	if node.Label == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrEmptyLabel)
	}

	if err := ValidateDomain(node.Domain); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}

	if node.Importance != 0 && (node.Importance < 1 || node.Importance > 10) {
		return fmt.Errorf("%w: importance %d outside [1, 10]", ErrInvalidNode, node.Importance)
	}

	return nil
}

// ValidateEdge validates a GraphEdge according to domain rules.
//
// Validation rules:
//   - Source and Target must be non-zero and distinct
//   - Type and Domain must be known values
//   - Weight and Confidence must lie in [0, 1]
//   - NT components must lie in [0, 1]
//
// SteeringReward is NOT validated: it is unbounded by contract and clamped
// at use time by the modulation formula.
func ValidateEdge(edge *GraphEdge) error {
	if edge == nil {
		return fmt.Errorf("%w: edge is nil", ErrInvalidEdge)
	}

	if edge.Source == 0 || edge.Target == 0 {
		return fmt.Errorf("%w: source and target must be non-zero", ErrInvalidEdge)
	}
	if edge.Source == edge.Target {
		return fmt.Errorf("%w: self-loop from node %d", ErrInvalidEdge, edge.Source)
	}

	if err := ValidateEdgeType(edge.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, err)
	}
	if err := ValidateDomain(edge.Domain); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, err)
	}

	if edge.Weight < 0 || edge.Weight > 1 {
		return fmt.Errorf("%w: %w: weight %g", ErrInvalidEdge, ErrWeightOutOfRange, edge.Weight)
	}
	if edge.Confidence < 0 || edge.Confidence > 1 {
		return fmt.Errorf("%w: %w: confidence %g", ErrInvalidEdge, ErrWeightOutOfRange, edge.Confidence)
	}

	if err := ValidateNT(edge.NT); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, err)
	}

	return nil
}

// ValidateNT validates that every neurotransmitter component lies in [0, 1].
func ValidateNT(nt NeurotransmitterWeights) error {
	for _, c := range []struct {
		name  string
		value float32
	}{
		{"excitatory", nt.Excitatory},
		{"inhibitory", nt.Inhibitory},
		{"modulatory", nt.Modulatory},
	} {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%w: %s %g", ErrWeightOutOfRange, c.name, c.value)
		}
	}
	return nil
}

// ValidateDomain validates that a Domain has a known value.
func ValidateDomain(domain Domain) error {
	if domain < DomainGeneral || domain > DomainResearch {
		return fmt.Errorf("%w: value %d", ErrInvalidDomain, domain)
	}
	return nil
}

// ValidateEdgeType validates that an EdgeType has a known value.
func ValidateEdgeType(edgeType EdgeType) error {
	if edgeType < EdgeTypeSemantic || edgeType > EdgeTypeHierarchical {
		return fmt.Errorf("%w: value %d", ErrInvalidEdgeType, edgeType)
	}
	return nil
}

// ValidatePoint validates a point arriving from an untrusted source.
// Internally the geometry layer projects out-of-ball points instead of
// erroring; this check is for deserialization boundaries only.
func ValidatePoint(point *HyperbolicPoint) error {
	if point == nil {
		return fmt.Errorf("%w: point is nil", ErrInvalidHyperbolicPoint)
	}
	if !point.IsValid() {
		return fmt.Errorf("%w: norm %g", ErrInvalidHyperbolicPoint, point.Norm())
	}
	return nil
}

// ValidateCone validates a cone arriving from an untrusted source.
func ValidateCone(cone *EntailmentCone) error {
	if cone == nil {
		return fmt.Errorf("%w: cone is nil", ErrInvalidCone)
	}
	if err := ValidatePoint(&cone.Apex); err != nil {
		return fmt.Errorf("%w: apex: %w", ErrInvalidCone, err)
	}
	if !cone.IsValid() {
		return fmt.Errorf("%w: aperture %g factor %g", ErrInvalidCone, cone.Aperture, cone.ApertureFactor)
	}
	return nil
}
