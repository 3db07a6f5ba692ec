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

import "errors"

// Domain validation errors
var (
	// ErrInvalidNode indicates a GraphNode failed validation.
	ErrInvalidNode = errors.New("invalid graph node")

	// ErrInvalidEdge indicates a GraphEdge failed validation.
	ErrInvalidEdge = errors.New("invalid graph edge")

	// ErrInvalidHyperbolicPoint indicates a point with norm >= 1.0 entered
	// the system from an untrusted source such as deserialization.
	ErrInvalidHyperbolicPoint = errors.New("invalid hyperbolic point")

	// ErrInvalidCone indicates an EntailmentCone failed validation.
	ErrInvalidCone = errors.New("invalid entailment cone")

	// ErrEmptyLabel indicates the node Label field is empty.
	ErrEmptyLabel = errors.New("node label cannot be empty")

	// ErrInvalidDomain indicates an unrecognized Domain value.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrInvalidEdgeType indicates an unrecognized EdgeType value.
	ErrInvalidEdgeType = errors.New("invalid edge type")

	// ErrWeightOutOfRange indicates a weight or confidence outside [0, 1].
	ErrWeightOutOfRange = errors.New("weight outside [0, 1]")

	// ErrTruncatedData indicates that serialized data ended prematurely.
	ErrTruncatedData = errors.New("truncated data")
)
