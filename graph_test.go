package softbody

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertVec compares two positions component-wise.
func assertVec(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	for axis := range 3 {
		assert.InDelta(t, want[axis], got[axis], 1e-9, msgAndArgs...)
	}
}

func TestGraphCreateAndDestroy(t *testing.T) {
	g := NewGraph("main", RoleMain)

	a := g.CreateNode("a", mgl64.Vec3{1, 2, 3})
	b := g.CreateNode("b", mgl64.Vec3{})
	assert.Equal(t, NodeID(1), a)
	assert.Equal(t, NodeID(2), b)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, "a", g.Label(a))
	assert.True(t, g.Has(a, KindTransform))

	pos, ok := g.Position(a)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, pos)

	g.Destroy(a)
	assert.False(t, g.Valid(a))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 2, g.Cap())
	_, ok = g.Position(a)
	assert.False(t, ok, "destroyed node keeps no transform")

	// Handles are never reused.
	c := g.CreateNode("c", mgl64.Vec3{})
	assert.Equal(t, NodeID(3), c)
	assert.Equal(t, []NodeID{b, c}, g.Nodes())

	// Destroying twice is a no-op.
	g.Destroy(a)
	assert.Equal(t, 2, g.Len())
}

func TestGraphLookup(t *testing.T) {
	g := NewGraph("main", RoleMain)
	n := g.CreateNode("n", mgl64.Vec3{})

	got, ok := g.Lookup(uint64(n))
	assert.True(t, ok)
	assert.Equal(t, n, got)

	_, ok = g.Lookup(0)
	assert.False(t, ok, "zero id")
	_, ok = g.Lookup(2)
	assert.False(t, ok, "never created")
	_, ok = g.Lookup(1 << 40)
	assert.False(t, ok, "out of handle range")

	g.Destroy(n)
	_, ok = g.Lookup(uint64(n))
	assert.False(t, ok, "destroyed")
}

func TestGraphComponents(t *testing.T) {
	g := NewGraph("main", RoleMain)
	n := g.CreateNode("n", mgl64.Vec3{})

	_, ok := g.Mass(n)
	assert.False(t, ok)
	g.AttachMass(n, 0.25)
	mass, ok := g.Mass(n)
	assert.True(t, ok)
	assert.Equal(t, 0.25, mass)

	g.AttachVelocity(n, Velocity{Previous: mgl64.Vec3{0, 1, 0}})
	v, ok := g.Velocity(n)
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, v.Previous)

	_, ok = g.Constraints(n)
	assert.False(t, ok)
	g.AttachConstraints(n)
	list, ok := g.Constraints(n)
	assert.True(t, ok)
	assert.Empty(t, list)

	assert.Equal(t, MaskOf(KindTransform, KindMass, KindVelocity, KindConstraints), g.Mask(n))

	g.Detach(n, KindConstraints)
	assert.False(t, g.Has(n, KindConstraints))
	_, ok = g.Constraints(n)
	assert.False(t, ok)

	assert.True(t, g.SetPosition(n, mgl64.Vec3{4, 5, 6}))
	assert.False(t, g.SetPosition(99, mgl64.Vec3{}))
}

func TestGraphQuery(t *testing.T) {
	g := NewGraph("main", RoleMain)
	anchor := g.CreateNode("anchor", mgl64.Vec3{})
	free := g.CreateNode("free", mgl64.Vec3{})
	g.AttachConstraints(free)
	g.AttachMass(free, DefaultMass)
	follower := g.CreateNode("follower", mgl64.Vec3{})
	g.AttachFollow(follower, FollowBinding{Target: free})

	assert.Equal(t, []NodeID{anchor}, g.Anchors())
	assert.Equal(t, []NodeID{free}, g.Query(KindConstraints, KindMass))
	assert.Equal(t, []NodeID{anchor, follower}, g.QueryMask(MaskOf(KindTransform), MaskOf(KindMass)))
	assert.Empty(t, g.Query(KindMirror))
}

func TestGraphBounds(t *testing.T) {
	g := NewGraph("main", RoleMain)
	_, ok := g.Bounds()
	assert.False(t, ok, "empty graph")

	g.CreateNode("a", mgl64.Vec3{0, 0, 0})
	g.CreateNode("b", mgl64.Vec3{1, 2, 3})
	g.CreateNode("c", mgl64.Vec3{-1, 5, 0})

	box, ok := g.Bounds()
	require.True(t, ok)
	assertVec(t, mgl64.Vec3{-1, 0, 0}, box.Min())
	assertVec(t, mgl64.Vec3{1, 5, 3}, box.Max())
}

func TestGraphDescribe(t *testing.T) {
	g := NewGraph("main", RoleMain)
	n := g.CreateNode("Rope Node", mgl64.Vec3{})
	g.AttachConstraints(n)

	assert.Contains(t, g.Describe(n), `"Rope Node"`)
	assert.Contains(t, g.Describe(n), "Constraints: 0")
	assert.Contains(t, g.Describe(42), "<invalid>")
	assert.Contains(t, g.String(), "Role: Main")
}
