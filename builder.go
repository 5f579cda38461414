package softbody

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Builder configures a scene before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	mode     Mode
	mass     float64
	tickRate time.Duration

	// bodies holds rope and cloth specs in registration order
	bodies  []bodyRegistration
	follows []FollowSpec
	systems []systemRegistration

	built atomic.Bool
}

// bodyRegistration holds one rope or cloth spec.
type bodyRegistration struct {
	rope  *RopeSpec
	cloth *ClothSpec
}

// systemRegistration holds a user system registration.
type systemRegistration struct {
	system   Runnable
	interval time.Duration
	stage    Stage
	priority int
}

// Priorities of the systems every scene installs.
const (
	// SyncPriority orders the transform sync systems first in their stage.
	SyncPriority = 0
	// FollowPriority orders follow resolution after physics to visual sync.
	FollowPriority = 100
)

// NewBuilder creates a new scene builder in single-graph mode.
func NewBuilder() *Builder {
	return &Builder{
		mode:     SingleGraph,
		mass:     DefaultMass,
		tickRate: DefaultTickRate,
	}
}

// Mode sets the graph mode.
func (b *Builder) Mode(m Mode) *Builder {
	b.mode = m
	return b
}

// Mass sets the mass of every free node.
func (b *Builder) Mass(mass float64) *Builder {
	b.mass = mass
	return b
}

// TickRate sets the frame interval used by Scene.Run.
func (b *Builder) TickRate(d time.Duration) *Builder {
	b.tickRate = d
	return b
}

// Rope adds a rope to the scene.
func (b *Builder) Rope(spec RopeSpec) *Builder {
	b.bodies = append(b.bodies, bodyRegistration{rope: &spec})
	return b
}

// Cloth adds a cloth to the scene.
func (b *Builder) Cloth(spec ClothSpec) *Builder {
	b.bodies = append(b.bodies, bodyRegistration{cloth: &spec})
	return b
}

// Follow adds a follower node to the scene. Followers are created after
// every rope and cloth, so their targets already exist.
func (b *Builder) Follow(spec FollowSpec) *Builder {
	b.follows = append(b.follows, spec)
	return b
}

// System registers a per-frame system.
//
// Example:
//
//	builder.System(&VerletSolver{}, softbody.Default, 0)
func (b *Builder) System(sys Runnable, stage Stage, priority int) *Builder {
	return b.SystemEvery(sys, 0, stage, priority)
}

// SystemEvery registers a system that runs at most once per interval.
func (b *Builder) SystemEvery(sys Runnable, interval time.Duration, stage Stage, priority int) *Builder {
	b.systems = append(b.systems, systemRegistration{
		system:   sys,
		interval: interval,
		stage:    stage,
		priority: priority,
	})
	return b
}

// validate checks every setting and spec, joining all problems found.
func (b *Builder) validate() error {
	var errs []error
	if b.mode > DualGraph {
		errs = append(errs, fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, b.mode))
	}
	if !positive(b.mass) {
		errs = append(errs, fmt.Errorf("%w: mass must be positive and finite, got %g", ErrInvalidConfig, b.mass))
	}
	names := make(map[string]struct{})
	for _, body := range b.bodies {
		var (
			name string
			err  error
		)
		if body.rope != nil {
			name, err = body.rope.Name, body.rope.Validate()
		} else {
			name, err = body.cloth.Name, body.cloth.Validate()
		}
		if err != nil {
			errs = append(errs, err)
		}
		if name == "" {
			continue
		}
		if _, dup := names[name]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate topology name %q", ErrInvalidConfig, name))
		}
		names[name] = struct{}{}
	}
	for _, f := range b.follows {
		if f.Topology == "" {
			continue
		}
		if _, ok := names[f.Topology]; !ok {
			errs = append(errs, fmt.Errorf("%w: follow %q targets unknown topology %q", ErrInvalidConfig, f.Name, f.Topology))
		}
	}
	return errors.Join(errs...)
}

// Init validates the configuration, builds every topology and follower and
// returns the scene. Nothing is built if any setting is invalid.
//
// A successful Init consumes the builder; a second call returns
// ErrAlreadyBuilt. A builder that fails validation may be fixed and reused.
func (b *Builder) Init() (*Scene, error) {
	if b.built.Load() {
		return nil, fmt.Errorf("scene builder: %w", ErrAlreadyBuilt)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if b.built.Swap(true) {
		return nil, fmt.Errorf("scene builder: %w", ErrAlreadyBuilt)
	}

	worlds, err := NewWorlds(b.mode).WithMass(b.mass)
	if err != nil {
		return nil, err
	}
	sc := newScene(worlds, NewScheduler(b.tickRate))

	for _, body := range b.bodies {
		var t *Topology
		if body.rope != nil {
			bp, err := NewRope(*body.rope)
			if err != nil {
				return nil, err
			}
			if t, err = bp.Build(worlds); err != nil {
				return nil, err
			}
		} else {
			bp, err := NewCloth(*body.cloth)
			if err != nil {
				return nil, err
			}
			if t, err = bp.Build(worlds); err != nil {
				return nil, err
			}
		}
		sc.addTopology(t)
	}

	for _, f := range b.follows {
		if _, err := sc.addFollower(f); err != nil {
			return nil, err
		}
	}

	if worlds.mode == DualGraph {
		sc.scheduler.Add(&SyncSystem{Table: worlds.mirrors, Direction: SyncVisualToPhysics}, Before, SyncPriority)
		sc.scheduler.Add(&SyncSystem{Table: worlds.mirrors, Direction: SyncPhysicsToVisual}, After, SyncPriority)
	}
	sc.scheduler.Add(&FollowSystem{Graph: worlds.main}, After, FollowPriority)

	for _, reg := range b.systems {
		sc.scheduler.AddEvery(reg.system, reg.interval, reg.stage, reg.priority)
	}

	return sc, nil
}
