package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pinboard/internal/canvas"
)

// canvasOrigin is the screen position of the canvas' top-left corner,
// just below the tab bar.
var canvasOrigin = canvas.Pt(0, tabBarRows*cellHeight)

// cellCenter converts a terminal cell to the screen point at its centre.
func cellCenter(x, y int) canvas.Point {
	return canvas.Pt((float64(x)+0.5)*cellWidth, (float64(y)+0.5)*cellHeight)
}

func (m *model) canvasRows() int {
	return max(1, m.height-tabBarRows-statusRows)
}

func (m *model) canvasCols() int {
	return max(1, m.width)
}

// handlePan moves the active board's view. Keys name the direction the view
// moves, so the offset moves the other way.
func (m *model) handlePan(msg tea.KeyMsg) {
	speed := panSpeed(msg.String())
	c := m.ws.Active()
	switch {
	case key.Matches(msg, m.keys.PanLeft):
		c.Pan(panStepX*speed, 0)
	case key.Matches(msg, m.keys.PanRight):
		c.Pan(-panStepX*speed, 0)
	case key.Matches(msg, m.keys.PanUp):
		c.Pan(0, panStepY*speed)
	case key.Matches(msg, m.keys.PanDown):
		c.Pan(0, -panStepY*speed)
	}
}

func (m *model) handleZoom(msg tea.KeyMsg) {
	c := m.ws.Active()
	switch {
	case key.Matches(msg, m.keys.ZoomIn):
		c.ZoomBy(canvas.ZoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		c.ZoomBy(-canvas.ZoomStep)
	case key.Matches(msg, m.keys.ZoomReset):
		c.ResetZoom()
	}
}

// pointerOrCenter is where keyboard-created notes go: the last mouse
// position if it is on the canvas, else the middle of the view.
func (m *model) pointerOrCenter() canvas.Point {
	if m.pointer.Y >= canvasOrigin.Y {
		return m.pointer
	}
	return canvas.Pt(float64(m.canvasCols())*cellWidth/2, canvasOrigin.Y+float64(m.canvasRows())*cellHeight/2)
}
