package softbody

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Handedness picks which side of the reference position column 0 lies on.
type Handedness uint8

const (
	// LeftToRight puts column 0 on the negative horizontal side.
	LeftToRight Handedness = iota
	// RightToLeft mirrors the layout: column 0 on the positive side.
	RightToLeft
)

// String returns the string representation of the handedness.
func (h Handedness) String() string {
	switch h {
	case LeftToRight:
		return "left-to-right"
	case RightToLeft:
		return "right-to-left"
	default:
		return "unknown"
	}
}

// ParseHandedness parses "left-to-right" or "right-to-left".
func ParseHandedness(s string) (Handedness, error) {
	switch s {
	case "", "left-to-right":
		return LeftToRight, nil
	case "right-to-left":
		return RightToLeft, nil
	default:
		return 0, fmt.Errorf("%w: unknown handedness %q", ErrInvalidConfig, s)
	}
}

// sign returns +1 or -1 for the horizontal axis.
func (h Handedness) sign() float64 {
	if h == RightToLeft {
		return -1
	}
	return 1
}

// ClothSpec describes a rectangular cloth whose top edge is centred on
// Origin and which hangs from its two top corners.
type ClothSpec struct {
	// Name identifies the cloth in a scene. Optional.
	Name string

	// Origin is the top-centre reference position.
	Origin mgl64.Vec3

	// Width is the number of columns (>= 2, one anchor per top corner).
	Width int

	// Height is the number of rows (>= 1).
	Height int

	// Resolution is the rest length of every edge (> 0).
	Resolution float64

	// Handedness mirrors the horizontal axis when set to RightToLeft.
	Handedness Handedness
}

// Validate reports a configuration error for out-of-range parameters.
func (s ClothSpec) Validate() error {
	if s.Width < 2 {
		return fmt.Errorf("%w: cloth %q width must be >= 2, got %d", ErrInvalidConfig, s.Name, s.Width)
	}
	if s.Height < 1 {
		return fmt.Errorf("%w: cloth %q height must be >= 1, got %d", ErrInvalidConfig, s.Name, s.Height)
	}
	if !positive(s.Resolution) {
		return fmt.Errorf("%w: cloth %q resolution must be positive and finite, got %g", ErrInvalidConfig, s.Name, s.Resolution)
	}
	if s.Handedness > RightToLeft {
		return fmt.Errorf("%w: cloth %q has unknown handedness %d", ErrInvalidConfig, s.Name, s.Handedness)
	}
	return nil
}

// CellPosition returns the world position of grid cell (row, col).
func (s ClothSpec) CellPosition(row, col int) mgl64.Vec3 {
	r := s.Resolution
	x := -float64(s.Width-1)*r/2 + float64(col)*r
	return s.Origin.Add(mgl64.Vec3{s.Handedness.sign() * x, -float64(row) * r, 0})
}

// EdgeCount returns the number of undirected edges a cloth of this size has.
func (s ClothSpec) EdgeCount() int {
	return s.Height*(s.Width-1) + (s.Height-1)*s.Width
}

// isAnchor returns true for the two top corners.
func (s ClothSpec) isAnchor(row, col int) bool {
	return row == 0 && (col == 0 || col == s.Width-1)
}

// ClothBlueprint builds one cloth, once.
type ClothBlueprint struct {
	blueprint
	spec ClothSpec
}

// NewCloth validates the spec and returns a blueprint ready to build.
func NewCloth(spec ClothSpec) (*ClothBlueprint, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &ClothBlueprint{spec: spec}, nil
}

// Spec returns the spec the blueprint was created from.
func (b *ClothBlueprint) Spec() ClothSpec {
	return b.spec
}

// neighbours lists the grid directions in the order records are appended:
// up, down, left, right.
var neighbours = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Build creates the cloth in w.
//
// The two anchors are created first and seeded into a height x width grid.
// Remaining cells are filled in row-major order. Every non-anchor cell then
// receives a constraint container and one directed record per in-bounds
// neighbour. Each edge between free cells is thereby stored once from each
// endpoint without any "edge exists" check; edges touching an anchor are
// stored on the free side only.
//
// Build consumes the blueprint; a second call returns ErrAlreadyBuilt
// without touching w.
func (b *ClothBlueprint) Build(w *Worlds) (*Topology, error) {
	if err := w.check(); err != nil {
		return nil, err
	}
	if !b.consume() {
		return nil, fmt.Errorf("cloth %q: %w", b.spec.Name, ErrAlreadyBuilt)
	}

	s := b.spec
	width, height := s.Width, s.Height

	left, err := w.createAnchor("Cloth Root 1", s.CellPosition(0, 0))
	if err != nil {
		return nil, fmt.Errorf("cloth %q root 1: %w", s.Name, err)
	}
	right, err := w.createAnchor("Cloth Root 2", s.CellPosition(0, width-1))
	if err != nil {
		return nil, fmt.Errorf("cloth %q root 2: %w", s.Name, err)
	}

	// A zero Pair marks an empty cell; handles start at 1.
	grid := make([][]Pair, height)
	for row := range grid {
		grid[row] = make([]Pair, width)
	}
	grid[0][0] = left
	grid[0][width-1] = right

	for row := range height {
		for col := range width {
			if grid[row][col].Main != 0 {
				continue
			}
			p, err := w.createFree("Cloth Node", s.CellPosition(row, col))
			if err != nil {
				return nil, fmt.Errorf("cloth %q cell (%d,%d): %w", s.Name, row, col, err)
			}
			grid[row][col] = p
		}
	}

	for row := range height {
		for col := range width {
			if s.isAnchor(row, col) {
				continue
			}
			owner := grid[row][col]
			w.attachConstraints(owner)
			for _, d := range neighbours {
				nr, nc := row+d[0], col+d[1]
				if nr < 0 || nr >= height || nc < 0 || nc >= width {
					continue
				}
				w.link(owner, grid[nr][nc], s.Resolution)
			}
		}
	}

	t := &Topology{
		id:         uuid.New(),
		name:       s.Name,
		shape:      ShapeCloth,
		mode:       w.mode,
		nodes:      make([]Pair, 0, width*height),
		anchors:    []Pair{left, right},
		width:      width,
		height:     height,
		edges:      s.EdgeCount(),
		resolution: s.Resolution,
	}
	for row := range height {
		t.nodes = append(t.nodes, grid[row]...)
	}

	slog.Debug("softbody: built cloth",
		"topology", s.Name,
		"mode", w.mode,
		"nodes", len(t.nodes),
		"edges", t.edges)
	return t, nil
}
