package canvas

// Every note occupies the same footprint in board space. Hit testing, area
// selection, placement and rendering all use these two values.
const (
	NoteWidth  = 200.0
	NoteHeight = 200.0
)

type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Div(f float64) Point {
	return Point{X: p.X / f, Y: p.Y / f}
}

// Rect is an axis-aligned rectangle with Min <= Max on both axes.
type Rect struct {
	Min Point
	Max Point
}

// NewRect normalises two arbitrary corners into a Rect.
func NewRect(a, b Point) Rect {
	return Rect{
		Min: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Overlaps uses open intervals: rectangles that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X < o.Max.X && r.Max.X > o.Min.X &&
		r.Min.Y < o.Max.Y && r.Max.Y > o.Min.Y
}

// Contains is half-open: the left and top edges are inside, right and bottom are not.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// NoteBounds returns the footprint of a note whose top-left corner is at pos.
func NoteBounds(pos Point) Rect {
	return Rect{Min: pos, Max: Point{X: pos.X + NoteWidth, Y: pos.Y + NoteHeight}}
}

// CenteredAt returns the top-left position that centres a note on p.
func CenteredAt(p Point) Point {
	return Point{X: p.X - NoteWidth/2, Y: p.Y - NoteHeight/2}
}
