package softbody

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// FollowSpec describes a node that tracks another one at a fixed offset.
//
// The target is either a raw node id in the main graph (Target) or, when
// Topology is set, the Index-th node of the named topology.
type FollowSpec struct {
	Name     string
	Target   uint64
	Topology string
	Index    int
	Offset   mgl64.Vec3
}

// Resolve returns the target's position plus the offset.
// Returns false if the target no longer exists or has no transform.
func (b FollowBinding) Resolve(g *Graph) (mgl64.Vec3, bool) {
	target, ok := g.Position(b.Target)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return target.Add(b.Offset), true
}

// ResolveFollow moves node n to its binding's resolved position.
// A missing binding or a dangling target leaves n untouched; the binding is
// checked again on the next call. Returns true if n was moved.
func ResolveFollow(g *Graph, n NodeID) bool {
	binding, ok := g.Follow(n)
	if !ok {
		return false
	}
	pos, ok := binding.Resolve(g)
	if !ok {
		return false
	}
	return g.SetPosition(n, pos)
}

// FollowSystem resolves every follow binding of a graph once per frame.
type FollowSystem struct {
	Graph *Graph
}

// Run implements Runnable.
func (s *FollowSystem) Run(time.Duration) {
	for _, n := range s.Graph.Query(KindTransform, KindFollow) {
		ResolveFollow(s.Graph, n)
	}
}
