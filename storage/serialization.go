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


package storage

import (
	"fmt"

	"github.com/poiesic/hyperkg/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalNode serializes a GraphNode to bytes.
func MarshalNode(node *core.GraphNode) []byte {
	buf := make([]byte, core.GraphNodeMUS.Size(*node))
	core.GraphNodeMUS.Marshal(*node, buf)
	return buf
}

// UnmarshalNode deserializes a GraphNode from bytes.
func UnmarshalNode(data []byte) (*core.GraphNode, error) {
	node, _, err := core.GraphNodeMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: node: %w", ErrSerializationFailed, err)
	}
	return &node, nil
}

// MarshalEdgeList serializes an adjacency list to bytes.
func MarshalEdgeList(edges []core.GraphEdge) []byte {
	buf := make([]byte, core.EdgeListMUS.Size(edges))
	core.EdgeListMUS.Marshal(edges, buf)
	return buf
}

// UnmarshalEdgeList deserializes an adjacency list from bytes.
func UnmarshalEdgeList(data []byte) ([]core.GraphEdge, error) {
	edges, _, err := core.EdgeListMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: edge list: %w", ErrSerializationFailed, err)
	}
	return edges, nil
}

// MarshalPoint serializes a HyperbolicPoint to bytes.
func MarshalPoint(point *core.HyperbolicPoint) []byte {
	buf := make([]byte, core.HyperbolicPointMUS.Size(*point))
	core.HyperbolicPointMUS.Marshal(*point, buf)
	return buf
}

// UnmarshalPoint deserializes a HyperbolicPoint from bytes.
func UnmarshalPoint(data []byte) (*core.HyperbolicPoint, error) {
	point, _, err := core.HyperbolicPointMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: point: %w", ErrSerializationFailed, err)
	}
	return &point, nil
}

// MarshalCone serializes an EntailmentCone to bytes.
func MarshalCone(cone *core.EntailmentCone) []byte {
	buf := make([]byte, core.EntailmentConeMUS.Size(*cone))
	core.EntailmentConeMUS.Marshal(*cone, buf)
	return buf
}

// UnmarshalCone deserializes an EntailmentCone from bytes.
func UnmarshalCone(data []byte) (*core.EntailmentCone, error) {
	cone, _, err := core.EntailmentConeMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: cone: %w", ErrSerializationFailed, err)
	}
	return &cone, nil
}
