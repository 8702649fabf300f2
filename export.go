package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"pinboard/internal/canvas"
)

var (
	ErrNothingToExport = errors.New("nothing to export")
	ErrExportTooLarge  = errors.New("board too large to export")
)

const (
	exportPadding  = 40.0
	noteInset      = 12.0
	noteRadius     = 6.0
	exportFontSize = 14.0
	groupPadding   = 10.0

	// Largest PNG side in pixels and text export side in cells.
	maxImageSide = 16384
	maxTextSide  = 2000
)

// exportPNG draws every note of a board at zoom 1, groups outlined with a
// dashed rectangle.
func exportPNG(path string, board canvas.Board, notes []canvas.Note) error {
	bounds, ok := canvas.NewNoteSet(notes...).Bounds()
	if !ok {
		return ErrNothingToExport
	}

	origin := canvas.Pt(bounds.Min.X-exportPadding, bounds.Min.Y-exportPadding)
	imageWidth := int(math.Ceil(bounds.Width() + 2*exportPadding))
	imageHeight := int(math.Ceil(bounds.Height() + 2*exportPadding))
	if imageWidth > maxImageSide || imageHeight > maxImageSide {
		return fmt.Errorf("%w: %dx%d pixels, limit %d", ErrExportTooLarge, imageWidth, imageHeight, maxImageSide)
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    exportFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	drawGroupsPNG(dc, notes, origin)
	for _, n := range notes {
		drawNotePNG(dc, n, origin)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func drawNotePNG(dc *gg.Context, n canvas.Note, origin canvas.Point) {
	x, y := n.X-origin.X, n.Y-origin.Y
	bg := canvas.NormalizeColor(n.Color)

	dc.DrawRoundedRectangle(x, y, canvas.NoteWidth, canvas.NoteHeight, noteRadius)
	dc.SetHexColor(bg)
	dc.FillPreserve()
	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	dc.Stroke()

	dc.SetHexColor(textColorFor(bg))
	lineHeight := dc.FontHeight() * 1.3
	maxLines := int((canvas.NoteHeight - 2*noteInset) / lineHeight)
	var lines []string
	for _, paragraph := range strings.Split(n.Text, "\n") {
		wrapped := dc.WordWrap(paragraph, canvas.NoteWidth-2*noteInset)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		lines = append(lines, wrapped...)
	}
	for i, line := range lines {
		if i >= maxLines {
			break
		}
		dc.DrawStringAnchored(line, x+noteInset, y+noteInset+float64(i)*lineHeight, 0, 1)
	}
}

func drawGroupsPNG(dc *gg.Context, notes []canvas.Note, origin canvas.Point) {
	groups := make(map[string]canvas.Rect)
	var order []string
	for _, n := range notes {
		if !n.Grouped() {
			continue
		}
		r, seen := groups[n.GroupID]
		if !seen {
			order = append(order, n.GroupID)
			groups[n.GroupID] = n.Bounds()
			continue
		}
		b := n.Bounds()
		groups[n.GroupID] = canvas.Rect{
			Min: canvas.Pt(min(r.Min.X, b.Min.X), min(r.Min.Y, b.Min.Y)),
			Max: canvas.Pt(max(r.Max.X, b.Max.X), max(r.Max.Y, b.Max.Y)),
		}
	}

	dc.SetDash(6, 4)
	dc.SetLineWidth(1.5)
	dc.SetRGB(0.4, 0.4, 0.4)
	for _, tag := range order {
		r := groups[tag]
		dc.DrawRectangle(r.Min.X-origin.X-groupPadding, r.Min.Y-origin.Y-groupPadding,
			r.Width()+2*groupPadding, r.Height()+2*groupPadding)
		dc.Stroke()
	}
	dc.SetDash()
}

// exportTXT writes the board as the terminal would draw it in a cols x rows view.
func exportTXT(path string, snap canvas.Snapshot, cols, rows int) error {
	if len(snap.Notes) == 0 {
		return ErrNothingToExport
	}
	if cols > maxTextSide || rows > maxTextSide {
		return fmt.Errorf("%w: %dx%d cells, limit %d", ErrExportTooLarge, cols, rows, maxTextSide)
	}
	snap.Selected = nil
	snap.Dragging = nil
	snap.Selecting = false

	lines := rasterize(snap, cols, rows).plainLines()
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// fitSnapshot frames every note of a board at zoom 1 and returns the cell
// size of a view that shows them all.
func fitSnapshot(board canvas.Board, notes []canvas.Note) (canvas.Snapshot, int, int) {
	board.Viewport = canvas.DefaultViewport()
	snap := canvas.Snapshot{Board: board, Notes: notes}
	bounds, ok := canvas.NewNoteSet(notes...).Bounds()
	if !ok {
		return snap, 0, 0
	}
	board.Viewport.Offset = canvas.Pt(-bounds.Min.X+cellWidth, -bounds.Min.Y+cellHeight)
	snap.Board = board
	cols := int(math.Ceil(bounds.Width()/cellWidth)) + 2
	rows := int(math.Ceil(bounds.Height()/cellHeight)) + 2
	return snap, cols, rows
}
