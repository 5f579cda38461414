package softbody

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneFile = `
[scene]
mode = dual
mass = 0.1
tickrate = 20ms

[rope "left"]
x = -2
y = 4
length = 12
resolution = 0.25

[rope "anchor-only"]
length = 0
resolution = 1

[cloth "flag"]
width = 8
height = 6
resolution = 0.5
handedness = right-to-left

[follow "tip"]
topology = left
index = 12
offsety = -0.5
`

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(sceneFile)
	require.NoError(t, err)

	assert.Equal(t, "dual", cfg.Scene.Mode)
	assert.Equal(t, "20ms", cfg.Scene.TickRate)
	require.Contains(t, cfg.Rope, "left")
	assert.Equal(t, 12, cfg.Rope["left"].Length)
	assert.Equal(t, -2.0, cfg.Rope["left"].X)
	require.Contains(t, cfg.Cloth, "flag")
	assert.Equal(t, "right-to-left", cfg.Cloth["flag"].Handedness)
	require.Contains(t, cfg.Follow, "tip")
	assert.Equal(t, -0.5, cfg.Follow["tip"].OffsetY)

	b, err := cfg.Builder()
	require.NoError(t, err)
	scene, err := b.Init()
	require.NoError(t, err)

	assert.Equal(t, DualGraph, scene.Mode())
	assert.Equal(t, 20*time.Millisecond, scene.Scheduler().TickRate())

	// Ropes first, each kind in name order.
	topologies := scene.Topologies()
	require.Len(t, topologies, 3)
	assert.Equal(t, "anchor-only", topologies[0].Name())
	assert.Equal(t, "left", topologies[1].Name())
	assert.Equal(t, "flag", topologies[2].Name())

	left := scene.TopologyByName("left")
	assert.Equal(t, 13, left.Len())
	root, _ := left.Node(0)
	pos, _ := scene.Main().Position(root.Main)
	assert.Equal(t, mgl64.Vec3{-2, 4, 0}, pos)

	tip, ok := scene.Follower("tip")
	require.True(t, ok)
	pos, _ = scene.Main().Position(tip)
	// Node 12 hangs 11 segments below the origin.
	assertVec(t, mgl64.Vec3{-2, 4 - 11*0.25 - 0.5, 0}, pos)

	flag := scene.TopologyByName("flag")
	corner, _ := flag.Cell(0, 0)
	pos, _ = scene.Main().Position(corner.Main)
	assertVec(t, mgl64.Vec3{1.75, 0, 0}, pos, "right-to-left puts column 0 on the positive side")
}

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig("[rope \"r\"]\nlength = 1\nresolution = 1\n")
	require.NoError(t, err)
	b, err := cfg.Builder()
	require.NoError(t, err)
	scene, err := b.Init()
	require.NoError(t, err)

	assert.Equal(t, SingleGraph, scene.Mode())
	assert.Equal(t, DefaultTickRate, scene.Scheduler().TickRate())
	mass, _ := scene.Main().Mass(scene.TopologyByName("r").Nodes()[1].Main)
	assert.Equal(t, DefaultMass, mass)
}

func TestReadConfigZeroMass(t *testing.T) {
	cfg, err := ReadConfig("[scene]\nmass = 0\n\n[rope \"r\"]\nlength = 1\nresolution = 1\n")
	require.NoError(t, err)
	b, err := cfg.Builder()
	require.NoError(t, err)

	_, err = b.Init()
	assert.True(t, errors.Is(err, ErrInvalidConfig), "an explicit zero mass is not defaulted")
	assert.Contains(t, err.Error(), "mass")
}

func TestReadConfigWarnings(t *testing.T) {
	cfg, err := ReadConfig("[scene]\nmode = single\ncolour = red\n")
	require.NoError(t, err, "unknown variables are only warnings")
	assert.Equal(t, "single", cfg.Scene.Mode)
}

func TestReadConfigErrors(t *testing.T) {
	_, err := ReadConfig("[scene\nmode = dual\n")
	assert.True(t, errors.Is(err, ErrInvalidConfig), "syntax error")

	for _, text := range []string{
		"[scene]\nmode = triple\n",
		"[scene]\ntickrate = soon\n",
		"[scene]\nmass = heavy\n",
		"[scene]\ntickrate = -1s\n",
		"[cloth \"c\"]\nwidth = 2\nheight = 1\nresolution = 1\nhandedness = sideways\n",
		"[follow \"f\"]\noffsetx = 1\n",
	} {
		cfg, err := ReadConfig(text)
		require.NoError(t, err, text)
		_, err = cfg.Builder()
		assert.True(t, errors.Is(err, ErrInvalidConfig), text)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.ini")
	require.NoError(t, os.WriteFile(path, []byte(sceneFile), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Rope, 2)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}
