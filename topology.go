package softbody

import (
	"math"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
)

// Shape is the kind of soft body a topology describes.
type Shape uint8

const (
	// ShapeRope is a 1-D chain hanging from one anchor.
	ShapeRope Shape = iota
	// ShapeCloth is a 2-D grid hanging from two anchors.
	ShapeCloth
)

// String returns the string representation of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeRope:
		return "rope"
	case ShapeCloth:
		return "cloth"
	default:
		return "unknown"
	}
}

// Topology summarizes what one Build call produced. The construction grid
// itself is not kept; Nodes preserves its order (chain order for ropes,
// row-major for cloth).
type Topology struct {
	id         uuid.UUID
	name       string
	shape      Shape
	mode       Mode
	nodes      []Pair
	anchors    []Pair
	width      int
	height     int
	edges      int
	resolution float64
}

// ID returns the topology's unique identifier.
func (t *Topology) ID() uuid.UUID {
	return t.id
}

// Name returns the authored name.
func (t *Topology) Name() string {
	return t.name
}

// Shape returns whether this is a rope or a cloth.
func (t *Topology) Shape() Shape {
	return t.shape
}

// Mode returns the graph mode the topology was built in.
func (t *Topology) Mode() Mode {
	return t.mode
}

// Len returns the number of nodes.
func (t *Topology) Len() int {
	return len(t.nodes)
}

// Nodes returns every node pair in construction order.
func (t *Topology) Nodes() []Pair {
	return append([]Pair(nil), t.nodes...)
}

// Node returns the i-th node in construction order.
func (t *Topology) Node(i int) (Pair, bool) {
	if i < 0 || i >= len(t.nodes) {
		return Pair{}, false
	}
	return t.nodes[i], true
}

// Cell returns the cloth node at (row, col). Ropes are a single column, so
// Cell(i, 0) is node i.
func (t *Topology) Cell(row, col int) (Pair, bool) {
	if row < 0 || row >= t.height || col < 0 || col >= t.width {
		return Pair{}, false
	}
	return t.nodes[row*t.width+col], true
}

// Anchors returns the fixed nodes.
func (t *Topology) Anchors() []Pair {
	return append([]Pair(nil), t.anchors...)
}

// Width returns the number of columns (1 for ropes).
func (t *Topology) Width() int {
	return t.width
}

// Height returns the number of rows (node count for ropes).
func (t *Topology) Height() int {
	return t.height
}

// EdgeCount returns the number of undirected structural edges.
func (t *Topology) EdgeCount() int {
	return t.edges
}

// Resolution returns the rest length of every edge.
func (t *Topology) Resolution() float64 {
	return t.resolution
}

// Bounds returns the box around the topology's nodes in the main graph.
func (t *Topology) Bounds(main *Graph) (cube.BBox, bool) {
	ids := make([]NodeID, len(t.nodes))
	for i, p := range t.nodes {
		ids[i] = p.Main
	}
	return main.boundsOf(ids)
}

// blueprint is the one-shot capability shared by rope and cloth builders.
type blueprint struct {
	built atomic.Bool
}

// consume marks the blueprint used, returning false if it already was.
func (b *blueprint) consume() bool {
	return !b.built.Swap(true)
}

// Built returns true once Build has been called.
func (b *blueprint) Built() bool {
	return b.built.Load()
}

// positive returns true for finite values greater than zero.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
