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

package modulation

import (
	"github.com/poiesic/hyperkg/core"
)

const (
	// DomainBonus is added to the net activation when the edge's domain
	// matches the query domain.
	DomainBonus float32 = 0.1

	// Steering factor bounds. A reward of zero still leaves a tenth of
	// the unsteered weight so a path is never erased outright.
	minSteering float32 = 0.1
	maxSteering float32 = 2.0
)

// NetActivation collapses a neurotransmitter profile into a single signed
// activation. Modulatory contributes at half strength.
func NetActivation(nt core.NeurotransmitterWeights) float32 {
	return nt.Excitatory - nt.Inhibitory + 0.5*nt.Modulatory
}

// SteeringFactor clamps a raw steering reward into the multiplicative
// range applied to edge weights.
func SteeringFactor(reward float32) float32 {
	return clamp(reward, minSteering, maxSteering)
}

// ModulatedWeight computes the effective weight of edge for a query in
// queryDomain. The base weight is scaled by the neurotransmitter
// activation, a domain-match bonus, and the steering factor, then clamped
// to [0, 1].
func ModulatedWeight(edge *core.GraphEdge, queryDomain core.Domain) float32 {
	net := NetActivation(edge.NT)

	bonus := float32(0)
	if edge.Domain == queryDomain {
		bonus = DomainBonus
	}

	w := edge.Weight * (1 + net + bonus) * SteeringFactor(edge.SteeringReward)
	return clamp(w, 0, 1)
}

// TraversalCost converts an effective weight into an additive path cost.
// Strong edges are cheap; a weight of 1 costs nothing.
func TraversalCost(edge *core.GraphEdge, queryDomain core.Domain) float32 {
	return 1 - ModulatedWeight(edge, queryDomain)
}

// ForDomain returns the default neurotransmitter profile for edges created
// in the given domain. Unknown domains fall back to the General profile.
func ForDomain(d core.Domain) core.NeurotransmitterWeights {
	switch d {
	case core.DomainCode:
		return core.NeurotransmitterWeights{Excitatory: 0.6, Inhibitory: 0.3, Modulatory: 0.4}
	case core.DomainLegal:
		return core.NeurotransmitterWeights{Excitatory: 0.4, Inhibitory: 0.4, Modulatory: 0.2}
	case core.DomainMedical:
		return core.NeurotransmitterWeights{Excitatory: 0.5, Inhibitory: 0.3, Modulatory: 0.5}
	case core.DomainCreative:
		return core.NeurotransmitterWeights{Excitatory: 0.8, Inhibitory: 0.1, Modulatory: 0.6}
	case core.DomainResearch:
		return core.NeurotransmitterWeights{Excitatory: 0.6, Inhibitory: 0.2, Modulatory: 0.5}
	default:
		return core.NeurotransmitterWeights{Excitatory: 0.5, Inhibitory: 0.2, Modulatory: 0.3}
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
