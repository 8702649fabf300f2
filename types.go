package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rs/zerolog"

	"pinboard/internal/canvas"
)

// saver is the part of the write-behind store the UI needs.
type saver interface {
	Pending() int
	Flush(ctx context.Context) error
}

type model struct {
	width  int
	height int

	ws     *canvas.Workspace
	saver  saver
	config *Config
	log    zerolog.Logger
	now    func() time.Time

	mode       Mode
	help       bool
	helpScroll int
	keys       keyMap
	helpView   help.Model

	editor   textarea.Model
	editID   string
	input    textinput.Model
	renameID string
	fileOp   FileOperation

	confirmAction ConfirmAction

	// pointer is the last mouse position in screen units.
	pointer     canvas.Point
	pressBoard  string
	pressBefore []canvas.Note
	lastClick   time.Time
	lastCell    cell

	history map[string]*history

	errorMessage   string
	successMessage string
}

type cell struct {
	X, Y int
}

// history is the undo and redo stack of one board.
type history struct {
	undo []change
	redo []change
}

// change is one undoable edit: the board's notes before and after.
type change struct {
	label  string
	before []canvas.Note
	after  []canvas.Note
}

type savedMsg struct {
	err error
}

type exportedMsg struct {
	path string
	err  error
}
