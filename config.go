package softbody

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/gcfg.v1"
)

// SceneConfig is the content of a scene file. Example:
//
//	[scene]
//	mode = dual
//	mass = 0.1
//	tickrate = 16ms
//
//	[rope "left"]
//	x = -2
//	y = 4
//	length = 12
//	resolution = 0.25
//
//	[cloth "flag"]
//	width = 8
//	height = 6
//	resolution = 0.5
//	handedness = right-to-left
//
//	[follow "tip"]
//	topology = left
//	index = 12
//	offsety = -0.5
type SceneConfig struct {
	Scene  SceneSection
	Rope   map[string]*RopeSection
	Cloth  map[string]*ClothSection
	Follow map[string]*FollowSection
}

// SceneSection holds scene-wide settings. Unset values fall back to the
// Builder defaults; a value that is set is always used, so mass = 0 is
// rejected rather than defaulted.
type SceneSection struct {
	Mode     string
	Mass     string
	TickRate string
}

// RopeSection describes one [rope "name"] block.
type RopeSection struct {
	X, Y, Z    float64
	Length     int
	Resolution float64
}

// ClothSection describes one [cloth "name"] block.
type ClothSection struct {
	X, Y, Z    float64
	Width      int
	Height     int
	Resolution float64
	Handedness string
}

// FollowSection describes one [follow "name"] block. Either Target or
// Topology (with Index) names the followed node.
type FollowSection struct {
	Target                    uint64
	Topology                  string
	Index                     int
	OffsetX, OffsetY, OffsetZ float64
}

// ReadConfig parses a scene file held in a string.
func ReadConfig(text string) (*SceneConfig, error) {
	sc := &SceneConfig{}
	if err := checkWarnings(gcfg.ReadStringInto(sc, text), "<string>"); err != nil {
		return nil, err
	}
	return sc, nil
}

// LoadConfig parses the scene file at path.
func LoadConfig(path string) (*SceneConfig, error) {
	sc := &SceneConfig{}
	if err := checkWarnings(gcfg.ReadFileInto(sc, path), path); err != nil {
		return nil, err
	}
	return sc, nil
}

// checkWarnings logs non-fatal gcfg problems such as unknown variables and
// returns the error only if it is fatal.
func checkWarnings(err error, source string) error {
	if err == nil {
		return nil
	}
	if fatal := gcfg.FatalOnly(err); fatal != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, source, fatal)
	}
	slog.Warn("softbody: config warnings", "source", source, "err", err)
	return nil
}

// Builder turns the config into a scene builder. Named blocks are
// registered in lexical order of their names, ropes before cloths.
func (sc *SceneConfig) Builder() (*Builder, error) {
	var errs []error
	b := NewBuilder()

	mode, err := ParseMode(sc.Scene.Mode)
	if err != nil {
		errs = append(errs, err)
	}
	b.Mode(mode)
	if sc.Scene.Mass != "" {
		mass, err := strconv.ParseFloat(sc.Scene.Mass, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: mass %q", ErrInvalidConfig, sc.Scene.Mass))
		}
		b.Mass(mass)
	}
	if sc.Scene.TickRate != "" {
		d, err := time.ParseDuration(sc.Scene.TickRate)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%w: tickrate %q", ErrInvalidConfig, sc.Scene.TickRate))
		}
		b.TickRate(d)
	}

	for _, name := range sortedKeys(sc.Rope) {
		r := sc.Rope[name]
		b.Rope(RopeSpec{
			Name:       name,
			Origin:     mgl64.Vec3{r.X, r.Y, r.Z},
			Length:     r.Length,
			Resolution: r.Resolution,
		})
	}
	for _, name := range sortedKeys(sc.Cloth) {
		c := sc.Cloth[name]
		h, err := ParseHandedness(c.Handedness)
		if err != nil {
			errs = append(errs, fmt.Errorf("cloth %q: %w", name, err))
		}
		b.Cloth(ClothSpec{
			Name:       name,
			Origin:     mgl64.Vec3{c.X, c.Y, c.Z},
			Width:      c.Width,
			Height:     c.Height,
			Resolution: c.Resolution,
			Handedness: h,
		})
	}
	for _, name := range sortedKeys(sc.Follow) {
		f := sc.Follow[name]
		if f.Target == 0 && f.Topology == "" {
			errs = append(errs, fmt.Errorf("%w: follow %q has neither target nor topology", ErrInvalidConfig, name))
		}
		b.Follow(FollowSpec{
			Name:     name,
			Target:   f.Target,
			Topology: f.Topology,
			Index:    f.Index,
			Offset:   mgl64.Vec3{f.OffsetX, f.OffsetY, f.OffsetZ},
		})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b, nil
}

// sortedKeys returns the subsection names in lexical order.
func sortedKeys[T any](m map[string]*T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
