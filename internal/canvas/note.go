package canvas

import (
	"regexp"
	"strings"
	"time"
)

const (
	DefaultNoteText  = "New Note"
	DefaultBoardName = "My Board"
)

// Palette is the fixed set of note colours. Any other #rrggbb value is accepted too.
var Palette = []string{
	"#ffd700",
	"#ff9999",
	"#99ff99",
	"#9999ff",
	"#ffcc99",
	"#99ffff",
	"#ff99ff",
	"#ffff99",
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func DefaultColor() string {
	return Palette[0]
}

// NormalizeColor lower-cases a valid #rrggbb colour and maps anything else to the default.
func NormalizeColor(c string) string {
	if !hexColor.MatchString(c) {
		return DefaultColor()
	}
	return strings.ToLower(c)
}

// NextColor returns the palette colour after c, wrapping around. Colours
// outside the palette continue from the start.
func NextColor(c string) string {
	c = strings.ToLower(c)
	for i, p := range Palette {
		if p == c {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}

type Note struct {
	ID      string  `yaml:"id" json:"id"`
	Text    string  `yaml:"text" json:"text"`
	X       float64 `yaml:"x" json:"x"`
	Y       float64 `yaml:"y" json:"y"`
	Color   string  `yaml:"color" json:"color"`
	BoardID string  `yaml:"board_id" json:"board_id"`
	GroupID string  `yaml:"group_id,omitempty" json:"group_id,omitempty"`
}

func (n Note) Position() Point {
	return Point{X: n.X, Y: n.Y}
}

func (n Note) Bounds() Rect {
	return NoteBounds(n.Position())
}

func (n Note) Grouped() bool {
	return n.GroupID != ""
}

type Board struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Viewport  Viewport  `yaml:"viewport" json:"viewport"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}
