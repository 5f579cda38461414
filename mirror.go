package softbody

import (
	"fmt"
)

// SyncDirection says which way transforms may be copied across a mirror pair.
type SyncDirection uint8

const (
	// SyncVisualToPhysics pushes the main node's position into the physics node.
	SyncVisualToPhysics SyncDirection = 1 << iota
	// SyncPhysicsToVisual pulls the simulated position back into the main node.
	SyncPhysicsToVisual

	// SyncBoth allows both copies.
	SyncBoth = SyncVisualToPhysics | SyncPhysicsToVisual
)

// Allows returns true if d permits the copy direction want.
func (d SyncDirection) Allows(want SyncDirection) bool {
	return d&want == want
}

// String returns the string representation of the direction.
func (d SyncDirection) String() string {
	switch d {
	case SyncVisualToPhysics:
		return "VisualToPhysics"
	case SyncPhysicsToVisual:
		return "PhysicsToVisual"
	case SyncBoth:
		return "Both"
	default:
		return "None"
	}
}

// MirrorPair is one entry of the bijection between the two graphs.
type MirrorPair struct {
	Visual    NodeID
	Physics   NodeID
	Direction SyncDirection
}

// MirrorTable is the bijection between nodes of a main ("visual") graph and
// their shadow nodes in a physics graph. Links are write-once.
type MirrorTable struct {
	visual  *Graph
	physics *Graph

	// toPhysics and toVisual are indexed by NodeID-1 of their source graph
	toPhysics []NodeID
	toVisual  []NodeID

	// directions is indexed by NodeID-1 of the visual node
	directions []SyncDirection

	pairs int
}

// NewMirrorTable creates an empty table between two graphs.
func NewMirrorTable(visual, physics *Graph) *MirrorTable {
	return &MirrorTable{
		visual:  visual,
		physics: physics,
	}
}

// VisualGraph returns the main graph.
func (t *MirrorTable) VisualGraph() *Graph {
	return t.visual
}

// PhysicsGraph returns the physics graph.
func (t *MirrorTable) PhysicsGraph() *Graph {
	return t.physics
}

// Len returns the number of linked pairs.
func (t *MirrorTable) Len() int {
	return t.pairs
}

// Mirror creates the physics counterpart of visual node v: a node at the
// same position which, unless it is an anchor, carries mass and velocity.
// The pair is linked before Mirror returns.
func (t *MirrorTable) Mirror(v NodeID, anchor bool, mass float64) (NodeID, error) {
	pos, ok := t.visual.Position(v)
	if !ok {
		return 0, fmt.Errorf("mirror visual node %d: %w", v, ErrUnknownNode)
	}
	if _, linked := t.Physics(v); linked {
		return 0, fmt.Errorf("mirror visual node %d: %w", v, ErrAlreadyMirrored)
	}

	p := t.physics.CreateNode(t.visual.Label(v), pos)
	dir := SyncBoth
	if anchor {
		// Anchors are driven by the author, never by the solver.
		dir = SyncVisualToPhysics
	} else {
		t.physics.AttachVelocity(p, Velocity{Previous: pos})
		t.physics.AttachMass(p, mass)
	}

	if err := t.Link(v, p, dir); err != nil {
		t.physics.Destroy(p)
		return 0, err
	}
	return p, nil
}

// Link records v <-> p. Both handles must be live and neither may already
// be part of a pair.
func (t *MirrorTable) Link(v, p NodeID, dir SyncDirection) error {
	if !t.visual.Valid(v) {
		return fmt.Errorf("link visual node %d: %w", v, ErrUnknownNode)
	}
	if !t.physics.Valid(p) {
		return fmt.Errorf("link physics node %d: %w", p, ErrUnknownNode)
	}
	if _, ok := t.Physics(v); ok {
		return fmt.Errorf("link visual node %d: %w", v, ErrAlreadyMirrored)
	}
	if _, ok := t.Visual(p); ok {
		return fmt.Errorf("link physics node %d: %w", p, ErrAlreadyMirrored)
	}

	t.toPhysics = grow(t.toPhysics, int(v))
	t.directions = grow(t.directions, int(v))
	t.toVisual = grow(t.toVisual, int(p))

	t.toPhysics[v-1] = p
	t.directions[v-1] = dir
	t.toVisual[p-1] = v
	t.pairs++

	t.visual.setMirror(v, p)
	t.physics.setMirror(p, v)
	return nil
}

// grow extends s with zero values so that index n-1 is addressable.
func grow[T any](s []T, n int) []T {
	for len(s) < n {
		var zero T
		s = append(s, zero)
	}
	return s
}

// Physics returns the physics counterpart of visual node v.
func (t *MirrorTable) Physics(v NodeID) (NodeID, bool) {
	if v == 0 || int(v) > len(t.toPhysics) || t.toPhysics[v-1] == 0 {
		return 0, false
	}
	return t.toPhysics[v-1], true
}

// Visual returns the visual counterpart of physics node p.
func (t *MirrorTable) Visual(p NodeID) (NodeID, bool) {
	if p == 0 || int(p) > len(t.toVisual) || t.toVisual[p-1] == 0 {
		return 0, false
	}
	return t.toVisual[p-1], true
}

// Direction returns the sync direction of the pair containing visual node v.
func (t *MirrorTable) Direction(v NodeID) (SyncDirection, bool) {
	if _, ok := t.Physics(v); !ok {
		return 0, false
	}
	return t.directions[v-1], true
}

// Counterpart returns the node paired with n, where n belongs to g.
func (t *MirrorTable) Counterpart(g *Graph, n NodeID) (NodeID, bool) {
	switch g {
	case t.visual:
		return t.Physics(n)
	case t.physics:
		return t.Visual(n)
	default:
		return 0, false
	}
}

// Pairs returns every pair in visual-node order.
func (t *MirrorTable) Pairs() []MirrorPair {
	pairs := make([]MirrorPair, 0, t.pairs)
	for i, p := range t.toPhysics {
		if p == 0 {
			continue
		}
		pairs = append(pairs, MirrorPair{
			Visual:    NodeID(i + 1),
			Physics:   p,
			Direction: t.directions[i],
		})
	}
	return pairs
}

// Validate checks that the table is a total, symmetric bijection over the
// live nodes of both graphs and agrees with the per-node mirror components.
func (t *MirrorTable) Validate() error {
	if t.visual.Len() != t.physics.Len() {
		return fmt.Errorf("softbody: mirror table covers %d visual and %d physics nodes", t.visual.Len(), t.physics.Len())
	}
	for _, v := range t.visual.Nodes() {
		p, ok := t.Physics(v)
		if !ok {
			return fmt.Errorf("softbody: visual node %d has no physics counterpart", v)
		}
		if back, _ := t.Visual(p); back != v {
			return fmt.Errorf("softbody: visual node %d maps to %d which maps back to %d", v, p, back)
		}
		if m, _ := t.visual.Mirror(v); m != p {
			return fmt.Errorf("softbody: visual node %d stores mirror %d, table has %d", v, m, p)
		}
		if m, _ := t.physics.Mirror(p); m != v {
			return fmt.Errorf("softbody: physics node %d stores mirror %d, table has %d", p, m, v)
		}
	}
	for _, p := range t.physics.Nodes() {
		if _, ok := t.Visual(p); !ok {
			return fmt.Errorf("softbody: physics node %d has no visual counterpart", p)
		}
	}
	return nil
}
