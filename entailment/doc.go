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


// Package entailment implements geometric IS-A reasoning with entailment cones.
//
// A concept's cone is rooted at its hyperbolic point and opens toward the
// ball's origin; the cone contains the points of every concept it subsumes,
// so "is A a kind of B" reduces to a constant-time containment check instead
// of a graph walk. Apertures narrow with hierarchy depth: root concepts get
// wide cones, leaves get narrow ones.
//
// The Checker holds the containment and membership-score formulas. They are
// the single source of truth for cone scoring; no other code path recomputes
// them.
package entailment
