package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"pinboard/internal/canvas"
)

// glyph is one terminal cell of the rendered canvas. A zero rune marks the
// second half of a wide character.
type glyph struct {
	r  rune
	fg string
	bg string
}

type grid [][]glyph

type borderSet struct {
	topLeft, topRight, bottomLeft, bottomRight, horizontal, vertical rune
}

var (
	plainBorder    = borderSet{'╭', '╮', '╰', '╯', '─', '│'}
	selectedBorder = borderSet{'╔', '╗', '╚', '╝', '═', '║'}
	draggingBorder = borderSet{'┏', '┓', '┗', '┛', '━', '┃'}
	areaBorder     = borderSet{'┌', '┐', '└', '┘', '┄', '┆'}
)

const (
	groupMarker = '◆'
	areaColor   = "#888888"
)

func newGrid(cols, rows int) grid {
	g := make(grid, rows)
	for y := range g {
		g[y] = make([]glyph, cols)
		for x := range g[y] {
			g[y][x] = glyph{r: ' '}
		}
	}
	return g
}

func (g grid) set(x, y int, gl glyph) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return
	}
	g[y][x] = gl
}

// cellRect maps a board-space rectangle to canvas cells.
func cellRect(r canvas.Rect, snap canvas.Snapshot) (x0, y0, x1, y1 int) {
	tl := canvas.ToScreenSpace(r.Min, snap.Origin, snap.Board.Viewport).Sub(snap.Origin)
	br := canvas.ToScreenSpace(r.Max, snap.Origin, snap.Board.Viewport).Sub(snap.Origin)
	x0 = int(math.Floor(tl.X / cellWidth))
	y0 = int(math.Floor(tl.Y / cellHeight))
	x1 = max(x0+1, int(math.Round(br.X/cellWidth))-1)
	y1 = max(y0+1, int(math.Round(br.Y/cellHeight))-1)
	return x0, y0, x1, y1
}

// rasterize draws the notes of a board in paint order, then the area
// selection rectangle on top.
func rasterize(snap canvas.Snapshot, cols, rows int) grid {
	g := newGrid(cols, rows)
	for _, n := range snap.Notes {
		drawNote(g, n, snap)
	}
	if snap.Selecting {
		x0, y0, x1, y1 := cellRect(snap.Area, snap)
		drawBorder(g, x0, y0, x1, y1, areaBorder, glyph{fg: areaColor})
	}
	return g
}

func drawNote(g grid, n canvas.Note, snap canvas.Snapshot) {
	x0, y0, x1, y1 := cellRect(n.Bounds(), snap)
	if x1 < 0 || y1 < 0 || y0 >= len(g) || (len(g) > 0 && x0 >= len(g[0])) {
		return
	}

	bg := canvas.NormalizeColor(n.Color)
	base := glyph{r: ' ', fg: textColorFor(bg), bg: bg}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.set(x, y, base)
		}
	}

	border := plainBorder
	switch {
	case snap.IsDragging(n.ID):
		border = draggingBorder
	case snap.IsSelected(n.ID):
		border = selectedBorder
	}
	drawBorder(g, x0, y0, x1, y1, border, base)
	if n.Grouped() && x1-x0 > 2 {
		marker := base
		marker.r = groupMarker
		g.set(x0+1, y0, marker)
	}

	inner := x1 - x0 - 1
	lines := noteLines(n.Text, inner)
	for i, line := range lines {
		y := y0 + 1 + i
		if y >= y1 {
			break
		}
		x := x0 + 1
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			gl := base
			gl.r = r
			g.set(x, y, gl)
			if w == 2 {
				gl.r = 0
				g.set(x+1, y, gl)
			}
			x += w
		}
	}
}

// noteLines wraps note text to width columns.
func noteLines(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	wrapped := wrap.String(wordwrap.String(text, width), width)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = truncate.String(strings.TrimRight(line, " "), uint(width))
	}
	return lines
}

func drawBorder(g grid, x0, y0, x1, y1 int, b borderSet, style glyph) {
	put := func(x, y int, r rune) {
		gl := style
		gl.r = r
		if gl.bg == "" && y >= 0 && y < len(g) && x >= 0 && x < len(g[y]) {
			gl.bg = g[y][x].bg
		}
		g.set(x, y, gl)
	}
	for x := x0 + 1; x < x1; x++ {
		put(x, y0, b.horizontal)
		put(x, y1, b.horizontal)
	}
	for y := y0 + 1; y < y1; y++ {
		put(x0, y, b.vertical)
		put(x1, y, b.vertical)
	}
	put(x0, y0, b.topLeft)
	put(x1, y0, b.topRight)
	put(x0, y1, b.bottomLeft)
	put(x1, y1, b.bottomRight)
}

// styledLines renders the grid with colours, one lipgloss style per run of
// equally coloured cells.
func (g grid) styledLines() []string {
	lines := make([]string, len(g))
	for y, row := range g {
		var line, run strings.Builder
		var fg, bg string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if fg == "" && bg == "" {
				line.WriteString(run.String())
			} else {
				style := lipgloss.NewStyle()
				if fg != "" {
					style = style.Foreground(lipgloss.Color(fg))
				}
				if bg != "" {
					style = style.Background(lipgloss.Color(bg))
				}
				line.WriteString(style.Render(run.String()))
			}
			run.Reset()
		}
		for _, gl := range row {
			if gl.r == 0 {
				continue
			}
			if gl.fg != fg || gl.bg != bg {
				flush()
				fg, bg = gl.fg, gl.bg
			}
			run.WriteRune(gl.r)
		}
		flush()
		lines[y] = line.String()
	}
	return lines
}

// plainLines renders the grid without colour, trailing blanks trimmed.
func (g grid) plainLines() []string {
	lines := make([]string, len(g))
	for y, row := range g {
		var line strings.Builder
		for _, gl := range row {
			if gl.r != 0 {
				line.WriteRune(gl.r)
			}
		}
		lines[y] = strings.TrimRight(line.String(), " ")
	}
	return lines
}

// textColorFor picks black or white text for a #rrggbb background by its
// perceived luminance.
func textColorFor(hex string) string {
	v, err := strconv.ParseUint(strings.TrimPrefix(canvas.NormalizeColor(hex), "#"), 16, 32)
	if err != nil {
		return "#000000"
	}
	r, g, b := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	if (0.299*r+0.587*g+0.114*b)/255 > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}
