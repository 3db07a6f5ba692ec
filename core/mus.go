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

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Handwritten mus-format serializers.
//
// The persisted byte layout of HyperbolicPoint (64 fixed-width float32
// coordinates) and EntailmentCone (apex + three scalar fields) is a contract
// shared with the storage layer; the serializers are written out explicitly
// so that field order and widths are visible in one place.

// IDMUS serializes node IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// HyperbolicPointMUS serializes points as Dimension raw float32 values.
var HyperbolicPointMUS = hyperbolicPointMUS{}

type hyperbolicPointMUS struct{}

func (hyperbolicPointMUS) Marshal(p HyperbolicPoint, bs []byte) (n int) {
	for i := 0; i < Dimension; i++ {
		n += raw.Float32.Marshal(p.Coords[i], bs[n:])
	}
	return n
}

func (hyperbolicPointMUS) Unmarshal(bs []byte) (p HyperbolicPoint, n int, err error) {
	for i := 0; i < Dimension; i++ {
		var c float32
		var m int
		c, m, err = raw.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return p, n, fmt.Errorf("%w: coordinate %d: %w", ErrTruncatedData, i, err)
		}
		p.Coords[i] = c
	}
	return p, n, nil
}

func (hyperbolicPointMUS) Size(p HyperbolicPoint) (size int) {
	for i := 0; i < Dimension; i++ {
		size += raw.Float32.Size(p.Coords[i])
	}
	return size
}

// EntailmentConeMUS serializes cones as apex, aperture, factor, depth.
var EntailmentConeMUS = entailmentConeMUS{}

type entailmentConeMUS struct{}

func (entailmentConeMUS) Marshal(c EntailmentCone, bs []byte) (n int) {
	n = HyperbolicPointMUS.Marshal(c.Apex, bs)
	n += raw.Float32.Marshal(c.Aperture, bs[n:])
	n += raw.Float32.Marshal(c.ApertureFactor, bs[n:])
	n += varint.Uint32.Marshal(c.Depth, bs[n:])
	return n
}

func (entailmentConeMUS) Unmarshal(bs []byte) (c EntailmentCone, n int, err error) {
	c.Apex, n, err = HyperbolicPointMUS.Unmarshal(bs)
	if err != nil {
		return c, n, err
	}
	var m int
	c.Aperture, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return c, n, err
	}
	c.ApertureFactor, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return c, n, err
	}
	c.Depth, m, err = varint.Uint32.Unmarshal(bs[n:])
	n += m
	return c, n, err
}

func (entailmentConeMUS) Size(c EntailmentCone) int {
	return HyperbolicPointMUS.Size(c.Apex) +
		raw.Float32.Size(c.Aperture) +
		raw.Float32.Size(c.ApertureFactor) +
		varint.Uint32.Size(c.Depth)
}

// GraphNodeMUS serializes graph nodes.
var GraphNodeMUS = graphNodeMUS{}

type graphNodeMUS struct{}

func (graphNodeMUS) Marshal(node GraphNode, bs []byte) (n int) {
	n = IDMUS.Marshal(node.Id, bs)
	n += ord.String.Marshal(node.Label, bs[n:])
	n += varint.Int.Marshal(int(node.Domain), bs[n:])
	n += varint.Uint32.Marshal(node.Depth, bs[n:])
	n += varint.Int.Marshal(node.Importance, bs[n:])
	n += marshalVector(node.Vector, bs[n:])
	n += marshalTime(node.InsertedAt, bs[n:])
	n += marshalTime(node.UpdatedAt, bs[n:])
	return n
}

func (graphNodeMUS) Unmarshal(bs []byte) (node GraphNode, n int, err error) {
	var m int
	node.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return node, n, err
	}
	node.Label, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return node, n, err
	}
	var domain int
	domain, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return node, n, err
	}
	node.Domain = Domain(domain)
	node.Depth, m, err = varint.Uint32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return node, n, err
	}
	node.Importance, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return node, n, err
	}
	node.Vector, m, err = unmarshalVector(bs[n:])
	n += m
	if err != nil {
		return node, n, err
	}
	node.InsertedAt, m, err = unmarshalTime(bs[n:])
	n += m
	if err != nil {
		return node, n, err
	}
	node.UpdatedAt, m, err = unmarshalTime(bs[n:])
	n += m
	return node, n, err
}

func (graphNodeMUS) Size(node GraphNode) int {
	return IDMUS.Size(node.Id) +
		ord.String.Size(node.Label) +
		varint.Int.Size(int(node.Domain)) +
		varint.Uint32.Size(node.Depth) +
		varint.Int.Size(node.Importance) +
		sizeVector(node.Vector) +
		sizeTime(node.InsertedAt) +
		sizeTime(node.UpdatedAt)
}

// GraphEdgeMUS serializes graph edges.
var GraphEdgeMUS = graphEdgeMUS{}

type graphEdgeMUS struct{}

func (graphEdgeMUS) Marshal(edge GraphEdge, bs []byte) (n int) {
	n = copy(bs, edge.Id[:])
	n += IDMUS.Marshal(edge.Source, bs[n:])
	n += IDMUS.Marshal(edge.Target, bs[n:])
	n += varint.Int.Marshal(int(edge.Type), bs[n:])
	n += raw.Float32.Marshal(edge.Weight, bs[n:])
	n += raw.Float32.Marshal(edge.Confidence, bs[n:])
	n += varint.Int.Marshal(int(edge.Domain), bs[n:])
	n += raw.Float32.Marshal(edge.NT.Excitatory, bs[n:])
	n += raw.Float32.Marshal(edge.NT.Inhibitory, bs[n:])
	n += raw.Float32.Marshal(edge.NT.Modulatory, bs[n:])
	n += raw.Float32.Marshal(edge.SteeringReward, bs[n:])
	n += varint.Uint64.Marshal(edge.TraversalCount, bs[n:])
	n += marshalTime(edge.CreatedAt, bs[n:])
	return n
}

func (graphEdgeMUS) Unmarshal(bs []byte) (edge GraphEdge, n int, err error) {
	if len(bs) < 16 {
		return edge, 0, fmt.Errorf("%w: edge id", ErrTruncatedData)
	}
	n = copy(edge.Id[:], bs[:16])
	var m int
	edge.Source, m, err = IDMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.Target, m, err = IDMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	var edgeType int
	edgeType, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.Type = EdgeType(edgeType)
	edge.Weight, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.Confidence, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	var domain int
	domain, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.Domain = Domain(domain)
	edge.NT.Excitatory, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.NT.Inhibitory, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.NT.Modulatory, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.SteeringReward, m, err = raw.Float32.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.TraversalCount, m, err = varint.Uint64.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return edge, n, err
	}
	edge.CreatedAt, m, err = unmarshalTime(bs[n:])
	n += m
	return edge, n, err
}

func (graphEdgeMUS) Size(edge GraphEdge) int {
	return 16 +
		IDMUS.Size(edge.Source) +
		IDMUS.Size(edge.Target) +
		varint.Int.Size(int(edge.Type)) +
		raw.Float32.Size(edge.Weight) +
		raw.Float32.Size(edge.Confidence) +
		varint.Int.Size(int(edge.Domain)) +
		raw.Float32.Size(edge.NT.Excitatory) +
		raw.Float32.Size(edge.NT.Inhibitory) +
		raw.Float32.Size(edge.NT.Modulatory) +
		raw.Float32.Size(edge.SteeringReward) +
		varint.Uint64.Size(edge.TraversalCount) +
		sizeTime(edge.CreatedAt)
}

// EdgeListMUS serializes adjacency lists as ordered edge sequences.
var EdgeListMUS = edgeListMUS{}

type edgeListMUS struct{}

func (edgeListMUS) Marshal(edges []GraphEdge, bs []byte) (n int) {
	n = varint.Int.Marshal(len(edges), bs)
	for i := range edges {
		n += GraphEdgeMUS.Marshal(edges[i], bs[n:])
	}
	return n
}

func (edgeListMUS) Unmarshal(bs []byte) (edges []GraphEdge, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 {
		return nil, n, fmt.Errorf("%w: negative edge count %d", ErrTruncatedData, count)
	}
	edges = make([]GraphEdge, 0, count)
	for i := 0; i < count; i++ {
		var edge GraphEdge
		var m int
		edge, m, err = GraphEdgeMUS.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return edges, n, err
		}
		edges = append(edges, edge)
	}
	return edges, n, nil
}

func (edgeListMUS) Size(edges []GraphEdge) int {
	size := varint.Int.Size(len(edges))
	for i := range edges {
		size += GraphEdgeMUS.Size(edges[i])
	}
	return size
}

// Timestamps persist as microsecond Unix time, UTC on the way back out.

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 {
		return nil, n, fmt.Errorf("%w: negative vector length %d", ErrTruncatedData, count)
	}
	if count == 0 {
		return nil, n, nil
	}
	v = make([]float32, count)
	for i := 0; i < count; i++ {
		var m int
		v[i], m, err = raw.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return v, n, err
		}
	}
	return v, n, nil
}

func sizeVector(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}
