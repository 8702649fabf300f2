package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeRenaming
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpExportPNG FileOperation = iota
	FileOpExportTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmDeleteNotes
	ConfirmDeleteBoard
	ConfirmClearBoard
)

// A terminal cell covers cellWidth x cellHeight screen units, so a note is
// 20x10 cells at 100% zoom.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	tabBarRows = 1
	statusRows = 1

	panStepX    = 5 * cellWidth
	panStepY    = 3 * cellHeight
	maxUndo     = 100
	doubleClick = 400 * time.Millisecond
)
