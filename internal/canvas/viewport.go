package canvas

import "math"

const (
	MinZoom     = 0.25
	MaxZoom     = 3.0
	ZoomStep    = 0.1
	DefaultZoom = 1.0
)

// Viewport is the pan offset and zoom of one board. It is a value: every
// operation returns a new Viewport and the caller stores it on the board.
type Viewport struct {
	Offset Point   `yaml:"offset" json:"offset"`
	Zoom   float64 `yaml:"zoom" json:"zoom"`
}

func DefaultViewport() Viewport {
	return Viewport{Zoom: DefaultZoom}
}

func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Normalize repairs a viewport read from storage. A zero or negative zoom
// becomes the default, anything else is clamped.
func (v Viewport) Normalize() Viewport {
	if v.Zoom <= 0 || math.IsNaN(v.Zoom) {
		v.Zoom = DefaultZoom
	}
	v.Zoom = ClampZoom(v.Zoom)
	if math.IsNaN(v.Offset.X) || math.IsInf(v.Offset.X, 0) {
		v.Offset.X = 0
	}
	if math.IsNaN(v.Offset.Y) || math.IsInf(v.Offset.Y, 0) {
		v.Offset.Y = 0
	}
	return v
}

// Pan adds screen-space deltas to the offset. Panning speed does not depend on zoom.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.Offset = v.Offset.Add(Point{X: dx, Y: dy})
	return v
}

// ZoomAt steps the zoom by one ZoomStep in the given direction (positive zooms
// in, negative zooms out, zero is a no-op) and moves the offset so the board
// point under cursor stays under cursor. cursor is relative to the viewport origin.
func (v Viewport) ZoomAt(cursor Point, direction int) Viewport {
	switch {
	case direction > 0:
		direction = 1
	case direction < 0:
		direction = -1
	default:
		return v
	}

	newZoom := ClampZoom(v.Zoom + float64(direction)*ZoomStep)
	if newZoom == v.Zoom {
		return v
	}
	ratio := newZoom / v.Zoom
	v.Offset = cursor.Sub(cursor.Sub(v.Offset).Mul(ratio))
	v.Zoom = newZoom
	return v
}

// SetZoom sets the zoom directly, clamped, leaving the offset alone.
func (v Viewport) SetZoom(z float64) Viewport {
	v.Zoom = ClampZoom(z)
	return v
}

func (v Viewport) ResetZoom() Viewport {
	v.Zoom = DefaultZoom
	return v
}

// Percent is the zoom as a whole percentage, for status lines.
func (v Viewport) Percent() int {
	return int(math.Round(v.Zoom * 100))
}
