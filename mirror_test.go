package softbody

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirror(t *testing.T) {
	visual := NewGraph("main", RoleMain)
	physics := NewGraph("physics", RolePhysics)
	table := NewMirrorTable(visual, physics)

	anchor := visual.CreateNode("anchor", mgl64.Vec3{0, 1, 0})
	free := visual.CreateNode("free", mgl64.Vec3{0, 2, 0})

	pa, err := table.Mirror(anchor, true, DefaultMass)
	require.NoError(t, err)
	pf, err := table.Mirror(free, false, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	pos, _ := physics.Position(pf)
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, pos)
	assert.Equal(t, "free", physics.Label(pf))
	mass, ok := physics.Mass(pf)
	assert.True(t, ok)
	assert.Equal(t, 0.3, mass)
	v, ok := physics.Velocity(pf)
	assert.True(t, ok)
	assert.Equal(t, pos, v.Previous)

	_, ok = physics.Mass(pa)
	assert.False(t, ok)
	_, ok = physics.Velocity(pa)
	assert.False(t, ok)

	dir, _ := table.Direction(anchor)
	assert.Equal(t, SyncVisualToPhysics, dir)
	dir, _ = table.Direction(free)
	assert.Equal(t, SyncBoth, dir)

	got, ok := table.Counterpart(visual, free)
	assert.True(t, ok)
	assert.Equal(t, pf, got)
	got, ok = table.Counterpart(physics, pf)
	assert.True(t, ok)
	assert.Equal(t, free, got)
	_, ok = table.Counterpart(NewGraph("other", RoleMain), free)
	assert.False(t, ok)

	assert.Equal(t, []MirrorPair{
		{Visual: anchor, Physics: pa, Direction: SyncVisualToPhysics},
		{Visual: free, Physics: pf, Direction: SyncBoth},
	}, table.Pairs())
	assert.NoError(t, table.Validate())
}

func TestMirrorErrors(t *testing.T) {
	visual := NewGraph("main", RoleMain)
	physics := NewGraph("physics", RolePhysics)
	table := NewMirrorTable(visual, physics)

	_, err := table.Mirror(7, false, DefaultMass)
	assert.True(t, errors.Is(err, ErrUnknownNode))

	v := visual.CreateNode("v", mgl64.Vec3{})
	p, err := table.Mirror(v, false, DefaultMass)
	require.NoError(t, err)

	_, err = table.Mirror(v, false, DefaultMass)
	assert.True(t, errors.Is(err, ErrAlreadyMirrored))
	assert.Equal(t, 1, physics.Len(), "refused mirror creates nothing")

	other := visual.CreateNode("other", mgl64.Vec3{})
	err = table.Link(other, p, SyncBoth)
	assert.True(t, errors.Is(err, ErrAlreadyMirrored), "physics side already linked")
	err = table.Link(other, 42, SyncBoth)
	assert.True(t, errors.Is(err, ErrUnknownNode))

	// other has no counterpart yet.
	assert.Error(t, table.Validate())
}

func TestMirrorValidateDetectsStaleComponent(t *testing.T) {
	visual := NewGraph("main", RoleMain)
	physics := NewGraph("physics", RolePhysics)
	table := NewMirrorTable(visual, physics)

	v := visual.CreateNode("v", mgl64.Vec3{})
	_, err := table.Mirror(v, false, DefaultMass)
	require.NoError(t, err)
	require.NoError(t, table.Validate())

	visual.Detach(v, KindMirror)
	assert.Error(t, table.Validate())
}

func TestSyncDirection(t *testing.T) {
	assert.True(t, SyncBoth.Allows(SyncVisualToPhysics))
	assert.True(t, SyncBoth.Allows(SyncPhysicsToVisual))
	assert.False(t, SyncVisualToPhysics.Allows(SyncPhysicsToVisual))
	assert.Equal(t, "Both", SyncBoth.String())
	assert.Equal(t, "None", SyncDirection(0).String())
}
