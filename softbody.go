// Package softbody builds the node graphs behind ropes and cloths for a
// position-based (Verlet) soft-body simulation.
//
// It provides:
//   - A struct-of-arrays Graph of nodes with transform, mass, velocity,
//     constraint, mirror and follow components
//   - One-shot rope and cloth blueprints that lay nodes out and wire their
//     structural constraints
//   - An optional physics graph mirroring every node of the main graph
//   - Follow bindings that keep a node at a fixed offset from another
//   - A staged, prioritized per-frame scheduler
//
// The solver itself is not part of this package; register it as a system.
//
// # Quick Start
//
//	scene, err := softbody.NewBuilder().
//	    Mode(softbody.DualGraph).
//	    Rope(softbody.RopeSpec{Name: "left", Origin: mgl64.Vec3{-2, 4, 0}, Length: 12, Resolution: 0.25}).
//	    Cloth(softbody.ClothSpec{Name: "flag", Width: 8, Height: 6, Resolution: 0.5}).
//	    Follow(softbody.FollowSpec{Name: "tip", Topology: "left", Index: 12, Offset: mgl64.Vec3{0, -0.5, 0}}).
//	    System(&MySolver{}, softbody.Default, 0).
//	    Init()
//	if err != nil {
//	    return err
//	}
//	return scene.Run(ctx)
//
// # Scene files
//
// The same scene can be described in an INI file:
//
//	cfg, err := softbody.LoadConfig("scene.ini")
//	builder, err := cfg.Builder()
//	scene, err := builder.Init()
//
// # Constraint records
//
// Every structural edge is stored as directed records in the constraint
// container of its endpoints. Anchors own no container, so an edge touching
// an anchor is stored on its free endpoint only.
package softbody

// Version is the softbody version.
const Version = "1.0.0"
