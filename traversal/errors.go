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


package traversal

import "errors"

var (
	// ErrStartNotFound indicates that the start node does not exist.
	// Distinct from a goal that exists but cannot be reached.
	ErrStartNotFound = errors.New("start node not found")

	// ErrGoalNotFound indicates that the goal node does not exist.
	ErrGoalNotFound = errors.New("goal node not found")

	// ErrInvalidParams indicates out-of-range traversal parameters.
	ErrInvalidParams = errors.New("invalid traversal parameters")
)
