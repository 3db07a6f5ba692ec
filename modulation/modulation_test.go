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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/hyperkg/core"
)

func testEdge() *core.GraphEdge {
	return &core.GraphEdge{
		Id:             core.NewEdgeID(),
		Source:         1,
		Target:         2,
		Type:           core.EdgeTypeSemantic,
		Weight:         0.8,
		Confidence:     0.9,
		Domain:         core.DomainCode,
		NT:             core.NeurotransmitterWeights{Excitatory: 0.7, Inhibitory: 0.3, Modulatory: 0.2},
		SteeringReward: 1.0,
	}
}

func TestNetActivation(t *testing.T) {
	nt := core.NeurotransmitterWeights{Excitatory: 0.7, Inhibitory: 0.3, Modulatory: 0.2}
	assert.InDelta(t, 0.5, NetActivation(nt), 1e-6)

	// Pure inhibition yields a negative activation.
	nt = core.NeurotransmitterWeights{Inhibitory: 1.0}
	assert.InDelta(t, -1.0, NetActivation(nt), 1e-6)
}

func TestSteeringFactorClamps(t *testing.T) {
	assert.Equal(t, float32(0.1), SteeringFactor(0))
	assert.Equal(t, float32(0.1), SteeringFactor(-5))
	assert.Equal(t, float32(1.0), SteeringFactor(1.0))
	assert.Equal(t, float32(2.0), SteeringFactor(7.3))
}

func TestModulatedWeightDomainMatch(t *testing.T) {
	edge := testEdge()

	// 0.8 * (1 + 0.5 + 0.1) * 1.0 = 1.28, clamped to 1.0.
	w := ModulatedWeight(edge, core.DomainCode)
	assert.Equal(t, float32(1.0), w)

	// Without the domain bonus: 0.8 * 1.5 = 1.2, still clamped.
	w = ModulatedWeight(edge, core.DomainLegal)
	assert.Equal(t, float32(1.0), w)
}

func TestModulatedWeightBounds(t *testing.T) {
	edge := testEdge()
	edge.Weight = 0.4
	edge.SteeringReward = 0.5

	// 0.4 * 1.6 * 0.5 = 0.32
	w := ModulatedWeight(edge, core.DomainCode)
	assert.InDelta(t, 0.32, w, 1e-6)

	// Heavy inhibition can drive the scale negative; result clamps to 0.
	edge.NT = core.NeurotransmitterWeights{Excitatory: 0.0, Inhibitory: 1.0, Modulatory: 0.0}
	edge.Domain = core.DomainGeneral
	w = ModulatedWeight(edge, core.DomainCode)
	assert.Equal(t, float32(0.0), w)
}

func TestModulatedWeightAlwaysInUnitInterval(t *testing.T) {
	weights := []float32{0, 0.25, 0.5, 0.75, 1}
	rewards := []float32{-2, 0, 0.5, 1, 3}
	for _, bw := range weights {
		for _, r := range rewards {
			for _, d := range core.Domains() {
				edge := testEdge()
				edge.Weight = bw
				edge.SteeringReward = r
				edge.Domain = d
				w := ModulatedWeight(edge, core.DomainResearch)
				assert.GreaterOrEqual(t, w, float32(0))
				assert.LessOrEqual(t, w, float32(1))
			}
		}
	}
}

func TestTraversalCost(t *testing.T) {
	edge := testEdge()
	edge.Weight = 0.4
	edge.SteeringReward = 0.5

	cost := TraversalCost(edge, core.DomainCode)
	assert.InDelta(t, 0.68, cost, 1e-6)

	// A saturated edge costs nothing to cross.
	edge.Weight = 1.0
	edge.SteeringReward = 2.0
	assert.Equal(t, float32(0.0), TraversalCost(edge, core.DomainCode))
}

func TestForDomainProfiles(t *testing.T) {
	cases := map[core.Domain]core.NeurotransmitterWeights{
		core.DomainCode:     {Excitatory: 0.6, Inhibitory: 0.3, Modulatory: 0.4},
		core.DomainLegal:    {Excitatory: 0.4, Inhibitory: 0.4, Modulatory: 0.2},
		core.DomainMedical:  {Excitatory: 0.5, Inhibitory: 0.3, Modulatory: 0.5},
		core.DomainCreative: {Excitatory: 0.8, Inhibitory: 0.1, Modulatory: 0.6},
		core.DomainResearch: {Excitatory: 0.6, Inhibitory: 0.2, Modulatory: 0.5},
		core.DomainGeneral:  {Excitatory: 0.5, Inhibitory: 0.2, Modulatory: 0.3},
	}
	for domain, want := range cases {
		assert.Equal(t, want, ForDomain(domain), "profile for %s", domain)
	}

	// Unknown domains fall back to the general profile.
	assert.Equal(t, ForDomain(core.DomainGeneral), ForDomain(core.Domain(99)))
}
