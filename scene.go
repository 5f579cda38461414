package softbody

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Scene owns the graphs, the topologies built into them and the frame
// scheduler. Create one with Builder.Init.
type Scene struct {
	worlds    *Worlds
	scheduler *Scheduler

	// topologies holds topologies in build order
	topologies []*Topology

	// topologiesByID provides UUID-based lookup
	topologiesByID map[uuid.UUID]*Topology

	// topologiesByName provides name-based lookup (named topologies only)
	topologiesByName map[string]*Topology

	// followers holds follower nodes in the main graph, by name
	followers map[string]NodeID
}

// newScene creates an empty scene.
func newScene(w *Worlds, s *Scheduler) *Scene {
	return &Scene{
		worlds:           w,
		scheduler:        s,
		topologiesByID:   make(map[uuid.UUID]*Topology),
		topologiesByName: make(map[string]*Topology),
		followers:        make(map[string]NodeID),
	}
}

// addTopology registers a built topology.
func (sc *Scene) addTopology(t *Topology) {
	sc.topologies = append(sc.topologies, t)
	sc.topologiesByID[t.id] = t
	if t.name != "" {
		sc.topologiesByName[t.name] = t
	}
}

// addFollower creates a node in the main graph bound to the spec's target.
// In dual mode the follower is mirrored like an anchor: the author drives
// it and the physics side only receives its position.
func (sc *Scene) addFollower(f FollowSpec) (NodeID, error) {
	main := sc.worlds.main

	target, err := sc.resolveTarget(f)
	if err != nil {
		return 0, err
	}

	binding := FollowBinding{Target: target, Offset: f.Offset}
	pos, ok := binding.Resolve(main)
	if !ok {
		return 0, fmt.Errorf("follow %q: target %d: %w", f.Name, target, ErrUnknownNode)
	}

	n := main.CreateNode("Follower", pos)
	main.AttachFollow(n, binding)
	if _, err := sc.worlds.mirror(n, true); err != nil {
		return 0, fmt.Errorf("follow %q: %w", f.Name, err)
	}
	if f.Name != "" {
		sc.followers[f.Name] = n
	}

	slog.Debug("softbody: added follower", "follow", f.Name, "node", n, "target", target)
	return n, nil
}

// resolveTarget turns a follow spec into a main graph handle.
func (sc *Scene) resolveTarget(f FollowSpec) (NodeID, error) {
	if f.Topology == "" {
		n, ok := sc.worlds.main.Lookup(f.Target)
		if !ok {
			return 0, fmt.Errorf("follow %q: target %d: %w", f.Name, f.Target, ErrUnknownNode)
		}
		return n, nil
	}

	t, ok := sc.topologiesByName[f.Topology]
	if !ok {
		return 0, fmt.Errorf("%w: follow %q targets unknown topology %q", ErrInvalidConfig, f.Name, f.Topology)
	}
	p, ok := t.Node(f.Index)
	if !ok {
		return 0, fmt.Errorf("%w: follow %q index %d out of range for %q (%d nodes)", ErrInvalidConfig, f.Name, f.Index, f.Topology, t.Len())
	}
	return p.Main, nil
}

// Mode returns the graph mode.
func (sc *Scene) Mode() Mode {
	return sc.worlds.mode
}

// Worlds returns the graphs of the scene.
func (sc *Scene) Worlds() *Worlds {
	return sc.worlds
}

// Main returns the main graph.
func (sc *Scene) Main() *Graph {
	return sc.worlds.main
}

// Physics returns the physics graph, or nil in single-graph mode.
func (sc *Scene) Physics() *Graph {
	return sc.worlds.physics
}

// Mirrors returns the mirror table, or nil in single-graph mode.
func (sc *Scene) Mirrors() *MirrorTable {
	return sc.worlds.mirrors
}

// Scheduler returns the frame scheduler.
func (sc *Scene) Scheduler() *Scheduler {
	return sc.scheduler
}

// Topologies returns every topology in build order.
func (sc *Scene) Topologies() []*Topology {
	return append([]*Topology(nil), sc.topologies...)
}

// Topology retrieves a topology by ID.
func (sc *Scene) Topology(id uuid.UUID) *Topology {
	return sc.topologiesByID[id]
}

// TopologyByName retrieves a topology by its authored name.
func (sc *Scene) TopologyByName(name string) *Topology {
	return sc.topologiesByName[name]
}

// Follower retrieves a named follower node in the main graph.
func (sc *Scene) Follower(name string) (NodeID, bool) {
	n, ok := sc.followers[name]
	return n, ok
}

// Tick runs one frame.
func (sc *Scene) Tick(now time.Time) error {
	return sc.scheduler.Tick(now)
}

// Run ticks the scene until ctx is done or a system panics.
func (sc *Scene) Run(ctx context.Context) error {
	return sc.scheduler.Run(ctx)
}
