package softbody

import "github.com/go-gl/mathgl/mgl64"

// Segment is a straight line between two points, used to draw a body before
// it is built.
type Segment struct {
	From, To mgl64.Vec3
}

// Len returns the segment length.
func (s Segment) Len() float64 {
	return s.To.Sub(s.From).Len()
}

// Preview returns the rope outline: a single vertical segment from Origin
// down by Length*Resolution.
func (s RopeSpec) Preview() []Segment {
	drop := mgl64.Vec3{0, float64(s.Length) * s.Resolution, 0}
	return []Segment{{From: s.Origin, To: s.Origin.Sub(drop)}}
}

// Preview returns every horizontal and vertical grid segment of the cloth
// layout once: rows first, then columns.
func (s ClothSpec) Preview() []Segment {
	if s.Width < 1 || s.Height < 1 {
		return nil
	}
	segments := make([]Segment, 0, s.EdgeCount())
	for row := range s.Height {
		for col := range s.Width - 1 {
			segments = append(segments, Segment{
				From: s.CellPosition(row, col),
				To:   s.CellPosition(row, col+1),
			})
		}
	}
	for col := range s.Width {
		for row := range s.Height - 1 {
			segments = append(segments, Segment{
				From: s.CellPosition(row, col),
				To:   s.CellPosition(row+1, col),
			})
		}
	}
	return segments
}
