package main

import (
	"slices"

	"pinboard/internal/canvas"
)

func (m *model) boardHistory(boardID string) *history {
	h, ok := m.history[boardID]
	if !ok {
		h = &history{}
		m.history[boardID] = h
	}
	return h
}

// recordChange pushes an undo step when the notes actually changed.
func (m *model) recordChange(boardID, label string, before, after []canvas.Note) bool {
	if slices.Equal(before, after) {
		return false
	}
	h := m.boardHistory(boardID)
	h.undo = append(h.undo, change{label: label, before: before, after: after})
	if len(h.undo) > maxUndo {
		h.undo = h.undo[len(h.undo)-maxUndo:]
	}
	h.redo = h.redo[:0]
	return true
}

// track runs fn against the active board and records what it changed.
func (m *model) track(label string, fn func(c *canvas.Controller)) bool {
	c := m.ws.Active()
	before := c.Notes()
	fn(c)
	return m.recordChange(c.Board().ID, label, before, c.Notes())
}

func (m *model) undo() {
	c := m.ws.Active()
	h := m.boardHistory(c.Board().ID)
	if len(h.undo) == 0 {
		m.successMessage = "Nothing to undo"
		return
	}

	lastIndex := len(h.undo) - 1
	step := h.undo[lastIndex]
	h.undo = h.undo[:lastIndex]

	c.Replace(step.before)
	h.redo = append(h.redo, step)
	m.successMessage = "Undid " + step.label
}

func (m *model) redo() {
	c := m.ws.Active()
	h := m.boardHistory(c.Board().ID)
	if len(h.redo) == 0 {
		m.successMessage = "Nothing to redo"
		return
	}

	lastIndex := len(h.redo) - 1
	step := h.redo[lastIndex]
	h.redo = h.redo[:lastIndex]

	c.Replace(step.after)
	h.undo = append(h.undo, step)
	m.successMessage = "Redid " + step.label
}
