package softbody

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// RopeSpec describes a rope hanging straight down from Origin.
type RopeSpec struct {
	// Name identifies the rope in a scene. Optional.
	Name string

	// Origin is the anchor position.
	Origin mgl64.Vec3

	// Length is the number of free segments (>= 0).
	Length int

	// Resolution is the rest length of each segment (> 0).
	Resolution float64
}

// Validate reports a configuration error for out-of-range parameters.
func (s RopeSpec) Validate() error {
	if s.Length < 0 {
		return fmt.Errorf("%w: rope %q length must be >= 0, got %d", ErrInvalidConfig, s.Name, s.Length)
	}
	if !positive(s.Resolution) {
		return fmt.Errorf("%w: rope %q resolution must be positive and finite, got %g", ErrInvalidConfig, s.Name, s.Resolution)
	}
	return nil
}

// RopeBlueprint builds one rope, once.
type RopeBlueprint struct {
	blueprint
	spec RopeSpec
}

// NewRope validates the spec and returns a blueprint ready to build.
func NewRope(spec RopeSpec) (*RopeBlueprint, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &RopeBlueprint{spec: spec}, nil
}

// Spec returns the spec the blueprint was created from.
func (b *RopeBlueprint) Spec() RopeSpec {
	return b.spec
}

// Build creates the chain in w: the anchor at Origin, then for each
// segment i a node at Origin - (0, i*Resolution, 0) linked to the previous
// node in both directions. In dual mode every node is mirrored as soon as it
// exists and the physics graph receives the same records.
//
// Build consumes the blueprint; a second call returns ErrAlreadyBuilt
// without touching w.
func (b *RopeBlueprint) Build(w *Worlds) (*Topology, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	if !b.consume() {
		return nil, fmt.Errorf("rope %q: %w", b.spec.Name, ErrAlreadyBuilt)
	}

	s := b.spec
	r := s.Resolution
	t := &Topology{
		id:         uuid.New(),
		name:       s.Name,
		shape:      ShapeRope,
		mode:       w.mode,
		nodes:      make([]Pair, 0, s.Length+1),
		width:      1,
		height:     s.Length + 1,
		resolution: r,
	}

	curr, err := w.createAnchor("Rope Root", s.Origin)
	if err != nil {
		return nil, fmt.Errorf("rope %q root: %w", s.Name, err)
	}
	t.nodes = append(t.nodes, curr)
	t.anchors = append(t.anchors, curr)

	for i := range s.Length {
		pos := s.Origin.Sub(mgl64.Vec3{0, float64(i) * r, 0})
		next, err := w.createFree("Rope Node", pos)
		if err != nil {
			return nil, fmt.Errorf("rope %q node %d: %w", s.Name, i+1, err)
		}
		w.attachConstraints(next)
		w.link(next, curr, r)
		w.link(curr, next, r)

		t.nodes = append(t.nodes, next)
		t.edges++
		curr = next
	}

	slog.Debug("softbody: built rope",
		"topology", s.Name,
		"mode", w.mode,
		"nodes", len(t.nodes),
		"edges", t.edges)
	return t, nil
}
