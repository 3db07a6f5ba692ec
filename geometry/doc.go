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


// Package geometry implements the Poincare ball model of hyperbolic space.
//
// The Ball type provides the Mobius (gyrovector) operations the rest of the
// system is built on: addition, distance, and the exponential and
// logarithmic maps between the manifold and tangent spaces. Distances grow
// unboundedly near the unit-ball boundary, which is what lets nested
// hierarchies embed with low distortion.
//
// # Numerical Stability
//
// Every operation clamps intermediate denominators to the configured epsilon
// instead of dividing by zero, and clamps artanh/arccos arguments to their
// valid domains instead of producing NaN. Out-of-ball points are projected
// back inside rather than rejected; rejection happens only at deserialization
// boundaries (see core.ValidatePoint).
//
// All functions are pure and safe for concurrent use.
package geometry
