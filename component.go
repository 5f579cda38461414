package softbody

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies one of the component kinds a node may carry.
// The set is closed: every kind has a dedicated column in Graph.
type Kind uint8

const (
	// KindTransform marks a node with a world position.
	KindTransform Kind = iota
	// KindMass marks a simulated node with a point mass.
	KindMass
	// KindVelocity marks a simulated node with Verlet velocity state.
	KindVelocity
	// KindConstraints marks a node owning a constraint container.
	// Anchors never carry it.
	KindConstraints
	// KindMirror marks a node linked to a counterpart in another graph.
	KindMirror
	// KindFollow marks a node whose position tracks another node.
	KindFollow
	// KindSelectable tags nodes an editor may pick (cloth and rope roots).
	KindSelectable

	// kindCount is the total number of kinds.
	kindCount
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "Transform"
	case KindMass:
		return "Mass"
	case KindVelocity:
		return "Velocity"
	case KindConstraints:
		return "Constraints"
	case KindMirror:
		return "Mirror"
	case KindFollow:
		return "Follow"
	case KindSelectable:
		return "Selectable"
	default:
		return "Unknown"
	}
}

// DefaultMass is the mass given to free nodes unless configured otherwise.
const DefaultMass = 0.1

// Velocity is the integration state of a simulated node.
// Previous holds the last position, which is what a Verlet step consumes.
type Velocity struct {
	Linear   mgl64.Vec3
	Previous mgl64.Vec3
}

// Constraint is one directed structural record: the owner wants to stay
// RestLength away from Target.
type Constraint struct {
	Target     NodeID
	RestLength float64
}

// FollowBinding ties a node's position to a target node plus a fixed offset.
type FollowBinding struct {
	Target NodeID
	Offset mgl64.Vec3
}
