package softbody

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects how many graphs a topology is built into.
type Mode uint8

const (
	// SingleGraph builds into the main graph only; free nodes carry mass and
	// velocity there.
	SingleGraph Mode = iota
	// DualGraph builds render-side nodes into the main graph and mirrors each
	// of them into the physics graph, where mass and velocity live.
	DualGraph
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case SingleGraph:
		return "single"
	case DualGraph:
		return "dual"
	default:
		return "unknown"
	}
}

// ParseMode parses "single" or "dual".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "single":
		return SingleGraph, nil
	case "dual":
		return DualGraph, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

// Worlds is the set of graphs topology builders write into.
type Worlds struct {
	mode    Mode
	main    *Graph
	physics *Graph
	mirrors *MirrorTable
	mass    float64
}

// NewWorlds creates the graphs for the given mode, with DefaultMass for
// free nodes.
func NewWorlds(mode Mode) *Worlds {
	w := &Worlds{
		mode: mode,
		main: NewGraph("main", RoleMain),
		mass: DefaultMass,
	}
	if mode == DualGraph {
		w.physics = NewGraph("physics", RolePhysics)
		w.mirrors = NewMirrorTable(w.main, w.physics)
	}
	return w
}

// WithMass sets the mass given to free nodes created from now on.
func (w *Worlds) WithMass(mass float64) (*Worlds, error) {
	if !positive(mass) {
		return nil, fmt.Errorf("%w: mass must be positive and finite, got %g", ErrInvalidConfig, mass)
	}
	w.mass = mass
	return w, nil
}

// Mode returns the graph mode.
func (w *Worlds) Mode() Mode {
	return w.mode
}

// Main returns the main graph.
func (w *Worlds) Main() *Graph {
	return w.main
}

// Physics returns the physics graph, or nil in single-graph mode.
func (w *Worlds) Physics() *Graph {
	return w.physics
}

// Mirrors returns the mirror table, or nil in single-graph mode.
func (w *Worlds) Mirrors() *MirrorTable {
	return w.mirrors
}

// Mass returns the mass given to free nodes.
func (w *Worlds) Mass() float64 {
	return w.mass
}

// check verifies the worlds are complete for their mode.
func (w *Worlds) check() error {
	if w == nil || w.main == nil {
		return fmt.Errorf("%w: no main graph", ErrModeMismatch)
	}
	if w.mode == DualGraph && (w.physics == nil || w.mirrors == nil) {
		return fmt.Errorf("%w: dual mode without a physics graph", ErrModeMismatch)
	}
	return nil
}

// Pair is a node as seen from both graphs. Physics is 0 in single-graph mode.
type Pair struct {
	Main    NodeID
	Physics NodeID
}

// createAnchor creates a fixed node: selectable, no mass, no velocity and no
// constraint container.
func (w *Worlds) createAnchor(label string, pos mgl64.Vec3) (Pair, error) {
	n := w.main.CreateNode(label, pos)
	w.main.MarkSelectable(n)
	return w.mirror(n, true)
}

// createFree creates a node the solver may move.
func (w *Worlds) createFree(label string, pos mgl64.Vec3) (Pair, error) {
	n := w.main.CreateNode(label, pos)
	if w.mode == SingleGraph {
		w.main.AttachVelocity(n, Velocity{Previous: pos})
		w.main.AttachMass(n, w.mass)
	}
	return w.mirror(n, false)
}

// mirror creates the physics counterpart in dual mode.
func (w *Worlds) mirror(n NodeID, anchor bool) (Pair, error) {
	if w.mode == SingleGraph {
		return Pair{Main: n}, nil
	}
	p, err := w.mirrors.Mirror(n, anchor, w.mass)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Main: n, Physics: p}, nil
}

// attachConstraints gives both sides of the pair an empty container.
func (w *Worlds) attachConstraints(p Pair) {
	w.main.AttachConstraints(p.Main)
	if w.mode == DualGraph {
		w.physics.AttachConstraints(p.Physics)
	}
}

// link appends owner -> target in every graph.
func (w *Worlds) link(owner, target Pair, rest float64) {
	Link(w.main, owner.Main, target.Main, rest)
	if w.mode == DualGraph {
		Link(w.physics, owner.Physics, target.Physics, rest)
	}
}
