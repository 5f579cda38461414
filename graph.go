package softbody

import (
	"fmt"
	"math"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// NodeID is a stable handle to a node within one Graph.
// IDs start at 1 and are never reused; 0 means "no node".
type NodeID uint32

// Role names what a graph is used for in a scene.
type Role uint8

const (
	// RoleMain is the graph authored and rendered by the application.
	// In single-graph mode it is also the simulated graph.
	RoleMain Role = iota
	// RolePhysics is the shadow graph the solver runs on in dual-graph mode.
	RolePhysics
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleMain:
		return "Main"
	case RolePhysics:
		return "Physics"
	default:
		return "Unknown"
	}
}

// Graph is an arena of nodes stored as parallel columns, one per component
// kind, with a presence bitmask per node.
//
// A Graph is not safe for concurrent use. Construction happens in a single
// call and per-frame systems run sequentially on the scheduler goroutine.
type Graph struct {
	id   uuid.UUID
	name string
	role Role

	// alive is false for destroyed nodes; their columns are left zeroed
	alive []bool

	// masks tracks which kinds are present, indexed by NodeID-1
	masks []Bitmask

	labels      []string
	positions   []mgl64.Vec3
	masses      []float64
	velocities  []Velocity
	constraints [][]Constraint
	mirrors     []NodeID
	follows     []FollowBinding

	// live is the number of nodes not yet destroyed
	live int
}

// NewGraph creates an empty graph.
func NewGraph(name string, role Role) *Graph {
	return &Graph{
		id:   uuid.New(),
		name: name,
		role: role,
	}
}

// ID returns the graph's unique identifier.
func (g *Graph) ID() uuid.UUID {
	return g.id
}

// Name returns the graph name.
func (g *Graph) Name() string {
	return g.name
}

// Role returns what the graph is used for.
func (g *Graph) Role() Role {
	return g.role
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return g.live
}

// Cap returns the number of nodes ever created, including destroyed ones.
func (g *Graph) Cap() int {
	return len(g.masks)
}

// CreateNode allocates a node with a transform at the given position.
// The label is informational ("Rope Root", "Cloth Node", ...).
func (g *Graph) CreateNode(label string, pos mgl64.Vec3) NodeID {
	g.alive = append(g.alive, true)
	g.masks = append(g.masks, MaskOf(KindTransform))
	g.labels = append(g.labels, label)
	g.positions = append(g.positions, pos)
	g.masses = append(g.masses, 0)
	g.velocities = append(g.velocities, Velocity{})
	g.constraints = append(g.constraints, nil)
	g.mirrors = append(g.mirrors, 0)
	g.follows = append(g.follows, FollowBinding{})
	g.live++
	return NodeID(len(g.masks))
}

// index converts a handle into a column index, reporting whether the node
// exists and is alive.
func (g *Graph) index(n NodeID) (int, bool) {
	if n == 0 || int(n) > len(g.masks) {
		return 0, false
	}
	i := int(n) - 1
	return i, g.alive[i]
}

// Valid returns true if n names a live node.
func (g *Graph) Valid(n NodeID) bool {
	_, ok := g.index(n)
	return ok
}

// Lookup converts an authored integer id into a live node handle.
// Returns false if no live node has that id.
func (g *Graph) Lookup(id uint64) (NodeID, bool) {
	if id == 0 || id > math.MaxUint32 {
		return 0, false
	}
	n := NodeID(id)
	if !g.Valid(n) {
		return 0, false
	}
	return n, true
}

// Destroy removes a node and all its components. The handle is never
// reused, so stale references resolve as absent.
func (g *Graph) Destroy(n NodeID) {
	i, ok := g.index(n)
	if !ok {
		return
	}
	g.alive[i] = false
	g.masks[i] = 0
	g.positions[i] = mgl64.Vec3{}
	g.masses[i] = 0
	g.velocities[i] = Velocity{}
	g.constraints[i] = nil
	g.mirrors[i] = 0
	g.follows[i] = FollowBinding{}
	g.live--
}

// Label returns the label given at creation.
func (g *Graph) Label(n NodeID) string {
	if i, ok := g.index(n); ok {
		return g.labels[i]
	}
	return ""
}

// Mask returns the node's component bitmask (zero for unknown nodes).
func (g *Graph) Mask(n NodeID) Bitmask {
	if i, ok := g.index(n); ok {
		return g.masks[i]
	}
	return 0
}

// Has checks if a component kind is present on the node.
func (g *Graph) Has(n NodeID, k Kind) bool {
	return g.Mask(n).Has(k)
}

// Detach removes one component kind from the node. Detaching
// KindConstraints drops the stored records.
func (g *Graph) Detach(n NodeID, k Kind) {
	i, ok := g.index(n)
	if !ok {
		return
	}
	g.masks[i].Clear(k)
	switch k {
	case KindTransform:
		g.positions[i] = mgl64.Vec3{}
	case KindMass:
		g.masses[i] = 0
	case KindVelocity:
		g.velocities[i] = Velocity{}
	case KindConstraints:
		g.constraints[i] = nil
	case KindMirror:
		g.mirrors[i] = 0
	case KindFollow:
		g.follows[i] = FollowBinding{}
	}
}

// Position returns the node position, or false if the node has no transform.
func (g *Graph) Position(n NodeID) (mgl64.Vec3, bool) {
	i, ok := g.index(n)
	if !ok || !g.masks[i].Has(KindTransform) {
		return mgl64.Vec3{}, false
	}
	return g.positions[i], true
}

// SetPosition updates the node position, attaching a transform if needed.
// Returns false if the node does not exist.
func (g *Graph) SetPosition(n NodeID, pos mgl64.Vec3) bool {
	i, ok := g.index(n)
	if !ok {
		return false
	}
	g.positions[i] = pos
	g.masks[i].Set(KindTransform)
	return true
}

// AttachMass gives the node a point mass.
func (g *Graph) AttachMass(n NodeID, mass float64) {
	if i, ok := g.index(n); ok {
		g.masses[i] = mass
		g.masks[i].Set(KindMass)
	}
}

// Mass returns the node mass, or false for immovable nodes.
func (g *Graph) Mass(n NodeID) (float64, bool) {
	i, ok := g.index(n)
	if !ok || !g.masks[i].Has(KindMass) {
		return 0, false
	}
	return g.masses[i], true
}

// AttachVelocity gives the node Verlet velocity state.
func (g *Graph) AttachVelocity(n NodeID, v Velocity) {
	if i, ok := g.index(n); ok {
		g.velocities[i] = v
		g.masks[i].Set(KindVelocity)
	}
}

// Velocity returns the node velocity state.
func (g *Graph) Velocity(n NodeID) (Velocity, bool) {
	i, ok := g.index(n)
	if !ok || !g.masks[i].Has(KindVelocity) {
		return Velocity{}, false
	}
	return g.velocities[i], true
}

// AttachConstraints gives the node an empty constraint container.
// An existing container is kept as is.
func (g *Graph) AttachConstraints(n NodeID) {
	i, ok := g.index(n)
	if !ok || g.masks[i].Has(KindConstraints) {
		return
	}
	g.constraints[i] = make([]Constraint, 0, 4)
	g.masks[i].Set(KindConstraints)
}

// Constraints returns the node's constraint records in insertion order.
// The slice is shared with the graph and must not be modified.
func (g *Graph) Constraints(n NodeID) ([]Constraint, bool) {
	i, ok := g.index(n)
	if !ok || !g.masks[i].Has(KindConstraints) {
		return nil, false
	}
	return g.constraints[i], true
}

// MarkSelectable tags the node for editor selection.
func (g *Graph) MarkSelectable(n NodeID) {
	if i, ok := g.index(n); ok {
		g.masks[i].Set(KindSelectable)
	}
}

// AttachFollow binds the node's position to a target node.
func (g *Graph) AttachFollow(n NodeID, b FollowBinding) {
	if i, ok := g.index(n); ok {
		g.follows[i] = b
		g.masks[i].Set(KindFollow)
	}
}

// Follow returns the node's follow binding.
func (g *Graph) Follow(n NodeID) (FollowBinding, bool) {
	i, ok := g.index(n)
	if !ok || !g.masks[i].Has(KindFollow) {
		return FollowBinding{}, false
	}
	return g.follows[i], true
}

// Mirror returns the node's counterpart handle in the other graph.
func (g *Graph) Mirror(n NodeID) (NodeID, bool) {
	i, ok := g.index(n)
	if !ok || !g.masks[i].Has(KindMirror) {
		return 0, false
	}
	return g.mirrors[i], true
}

// setMirror records the counterpart. Only MirrorTable calls it.
func (g *Graph) setMirror(n, counterpart NodeID) {
	if i, ok := g.index(n); ok {
		g.mirrors[i] = counterpart
		g.masks[i].Set(KindMirror)
	}
}

// Nodes returns all live node handles in creation order.
func (g *Graph) Nodes() []NodeID {
	nodes := make([]NodeID, 0, g.live)
	for i, alive := range g.alive {
		if alive {
			nodes = append(nodes, NodeID(i+1))
		}
	}
	return nodes
}

// Query returns the live nodes carrying every given kind, in creation order.
func (g *Graph) Query(kinds ...Kind) []NodeID {
	return g.QueryMask(MaskOf(kinds...), 0)
}

// QueryMask returns the live nodes whose mask contains all of require and
// none of exclude.
func (g *Graph) QueryMask(require, exclude Bitmask) []NodeID {
	var nodes []NodeID
	for i, m := range g.masks {
		if !g.alive[i] {
			continue
		}
		if m.ContainsAll(require) && !m.ContainsAny(exclude) {
			nodes = append(nodes, NodeID(i+1))
		}
	}
	return nodes
}

// Anchors returns the live nodes that have a transform but neither a
// constraint container nor a follow binding.
func (g *Graph) Anchors() []NodeID {
	return g.QueryMask(MaskOf(KindTransform), MaskOf(KindConstraints, KindFollow))
}

// ConstraintCount returns the number of directed records stored in the graph.
func (g *Graph) ConstraintCount() int {
	total := 0
	for i, list := range g.constraints {
		if g.alive[i] {
			total += len(list)
		}
	}
	return total
}

// Bounds returns the axis-aligned box around every positioned live node.
// Returns false if no node has a position.
func (g *Graph) Bounds() (cube.BBox, bool) {
	return g.boundsOf(g.Query(KindTransform))
}

// boundsOf returns the box around the positions of the given nodes.
func (g *Graph) boundsOf(nodes []NodeID) (cube.BBox, bool) {
	var (
		lo, hi mgl64.Vec3
		found  bool
	)
	for _, n := range nodes {
		p, ok := g.Position(n)
		if !ok {
			continue
		}
		if !found {
			lo, hi, found = p, p, true
			continue
		}
		for axis := range 3 {
			lo[axis] = math.Min(lo[axis], p[axis])
			hi[axis] = math.Max(hi[axis], p[axis])
		}
	}
	if !found {
		return cube.BBox{}, false
	}
	return cube.Box(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2]), true
}

// Describe returns a one-line summary of a node for debugging.
func (g *Graph) Describe(n NodeID) string {
	i, ok := g.index(n)
	if !ok {
		return fmt.Sprintf("Node{%d: <invalid>}", n)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Node{%d %q, Components: [%s]", n, g.labels[i], g.masks[i])
	if g.masks[i].Has(KindTransform) {
		fmt.Fprintf(&b, ", Position: %v", g.positions[i])
	}
	if g.masks[i].Has(KindConstraints) {
		fmt.Fprintf(&b, ", Constraints: %d", len(g.constraints[i]))
	}
	b.WriteString("}")
	return b.String()
}

// String returns a string representation of the graph for debugging.
func (g *Graph) String() string {
	return "Graph{Name: " + g.name + ", Role: " + g.role.String() + ", ID: " + g.id.String() +
		fmt.Sprintf(", Nodes: %d, Constraints: %d}", g.live, g.ConstraintCount())
}
