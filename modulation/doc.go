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


// Package modulation turns an edge's neurotransmitter profile, domain, and
// steering feedback into an effective traversal weight.
//
// ModulatedWeight is the single authority for this computation. Traversal,
// ranking, and any future consumer call it; reimplementing the arithmetic
// anywhere else is a defect. Historical variants of the formula (a
// 0.5+reward steering term, among others) are superseded by the one here.
//
// All functions are pure and safe for concurrent use.
package modulation
