package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pinboard/internal/canvas"
)

const saveTimeout = 10 * time.Second

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(20, msg.Width-4))
		m.editor.SetHeight(max(3, msg.Height/3))
		m.helpView.Width = msg.Width
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("save failed")
			m.errorMessage = fmt.Sprintf("Save failed: %v", msg.err)
			m.successMessage = ""
		} else {
			m.errorMessage = ""
			m.successMessage = "Saved"
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("path", msg.path).Msg("export failed")
			m.errorMessage = fmt.Sprintf("Export failed: %v", msg.err)
			m.successMessage = ""
		} else {
			m.log.Info().Str("path", msg.path).Msg("exported")
			m.errorMessage = ""
			m.successMessage = "Exported to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModeEditing:
			return m.handleEditingKey(msg)
		case ModeRenaming:
			return m.handleRenamingKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleNormalKey(msg)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease {
			m.pointer = cellCenter(msg.X, msg.Y)
			m.releasePointer(pointerEvent(msg, m.pointer))
			return m, nil
		}
		if m.help || m.mode != ModeNormal {
			return m, nil
		}
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		maxScroll := max(0, len(helpLines(m.keys))-max(1, m.height-1))
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""
	m.settleGesture()
	c := m.ws.Active()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.confirm(ConfirmQuit)

	case key.Matches(msg, m.keys.Help):
		m.help = true
		m.helpScroll = 0

	case key.Matches(msg, m.keys.Cancel):
		c.Cancel()
		c.ClearSelection()

	case key.Matches(msg, m.keys.NewNote):
		var n canvas.Note
		m.track("add note", func(c *canvas.Controller) {
			n = c.AddNoteAt(m.pointerOrCenter(), canvas.DefaultColor())
		})
		c.ToggleSelection(n.ID, false)

	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.editTarget(); ok {
			return m.startEditing(id)
		}
		m.errorMessage = "No note to edit"

	case key.Matches(msg, m.keys.Color):
		if len(c.Selected()) == 0 {
			m.errorMessage = "No notes selected"
			break
		}
		m.track("colour", func(c *canvas.Controller) { c.CycleColor() })

	case key.Matches(msg, m.keys.Delete):
		if len(c.Selected()) == 0 {
			m.errorMessage = "No notes selected"
			break
		}
		return m.confirm(ConfirmDeleteNotes)

	case key.Matches(msg, m.keys.Group):
		if len(c.Selected()) < 2 {
			m.errorMessage = "Select at least two notes to group"
			break
		}
		m.track("group", func(c *canvas.Controller) { c.GroupSelected() })

	case key.Matches(msg, m.keys.Ungroup):
		if !m.track("ungroup", func(c *canvas.Controller) { c.UngroupSelected() }) {
			m.errorMessage = "No groups selected"
		}

	case key.Matches(msg, m.keys.SelectAll):
		c.SelectAll()

	case key.Matches(msg, m.keys.Undo):
		m.undo()

	case key.Matches(msg, m.keys.Redo):
		m.redo()

	case key.Matches(msg, m.keys.Copy):
		m.copySelection()

	case key.Matches(msg, m.keys.Paste):
		m.pasteNote()

	case key.Matches(msg, m.keys.NewBoard):
		b := m.ws.AddBoard("")
		return m.startRenaming(b)

	case key.Matches(msg, m.keys.Rename):
		return m.startRenaming(c.Board())

	case key.Matches(msg, m.keys.DeleteBoard):
		if m.ws.Len() <= 1 {
			m.errorMessage = "Cannot delete the last board"
			break
		}
		return m.confirm(ConfirmDeleteBoard)

	case key.Matches(msg, m.keys.PrevBoard):
		m.ws.PrevBoard()

	case key.Matches(msg, m.keys.NextBoard):
		m.ws.NextBoard()

	case key.Matches(msg, m.keys.PanLeft, m.keys.PanRight, m.keys.PanUp, m.keys.PanDown):
		m.handlePan(msg)

	case key.Matches(msg, m.keys.ZoomIn, m.keys.ZoomOut, m.keys.ZoomReset):
		m.handleZoom(msg)

	case key.Matches(msg, m.keys.ClearBoard):
		if len(c.Notes()) == 0 {
			m.errorMessage = "Board is already empty"
			break
		}
		return m.confirm(ConfirmClearBoard)

	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.ExportPNG):
		return m.startFileInput(FileOpExportPNG)

	case key.Matches(msg, m.keys.ExportTXT):
		return m.startFileInput(FileOpExportTXT)
	}
	return m, nil
}

// editTarget is the note to open in the editor: the first selected note,
// or the note under the pointer.
func (m *model) editTarget() (string, bool) {
	c := m.ws.Active()
	if sel := c.Selected(); len(sel) > 0 {
		return sel[0], true
	}
	if n, ok := c.NoteAt(m.pointer); ok {
		return n.ID, true
	}
	return "", false
}

func (m model) startEditing(id string) (tea.Model, tea.Cmd) {
	n, ok := m.ws.Active().Note(id)
	if !ok {
		return m, nil
	}
	m.mode = ModeEditing
	m.editID = id
	m.editor.SetValue(n.Text)
	m.editor.CursorEnd()
	return m, m.editor.Focus()
}

func (m model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		text := m.editor.Value()
		id := m.editID
		m.track("edit", func(c *canvas.Controller) { c.SetText(id, text) })
		m.stopEditing()
		return m, nil
	case "esc":
		m.stopEditing()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *model) stopEditing() {
	m.editor.Blur()
	m.editor.Reset()
	m.editID = ""
	m.mode = ModeNormal
}

func (m model) startRenaming(b canvas.Board) (tea.Model, tea.Cmd) {
	m.mode = ModeRenaming
	m.renameID = b.ID
	m.input.Placeholder = "board name"
	m.input.SetValue(b.Name)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m model) handleRenamingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.errorMessage = "Board name cannot be empty"
			return m, nil
		}
		m.ws.RenameBoard(m.renameID, name)
		m.stopInput()
		return m, nil
	case "esc":
		m.stopInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) stopInput() {
	m.input.Blur()
	m.input.Reset()
	m.renameID = ""
	m.errorMessage = ""
	m.mode = ModeNormal
}

func (m model) startFileInput(op FileOperation) (tea.Model, tea.Cmd) {
	ext := ".png"
	if op == FileOpExportTXT {
		ext = ".txt"
	}
	m.mode = ModeFileInput
	m.fileOp = op
	m.input.Placeholder = "filename"
	m.input.SetValue(exportFileName(m.ws.Active().Board().Name, ext))
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		filename := strings.TrimSpace(m.input.Value())
		if filename == "" {
			m.errorMessage = "Filename cannot be empty"
			return m, nil
		}
		path := m.config.GetSavePath(filename)
		op := m.fileOp
		m.stopInput()
		return m, m.exportCmd(op, path)
	case "esc":
		m.stopInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// exportFileName turns a board name into a file name.
func exportFileName(board, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == filepath.Separator:
			return '-'
		case r < 32:
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(board)))
	if name == "" {
		name = "board"
	}
	return name + ext
}

func (m model) confirm(action ConfirmAction) (tea.Model, tea.Cmd) {
	if !m.config.Confirmations {
		return m.runConfirmed(action)
	}
	m.mode = ModeConfirm
	m.confirmAction = action
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		return m.runConfirmed(m.confirmAction)
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) runConfirmed(action ConfirmAction) (tea.Model, tea.Cmd) {
	switch action {
	case ConfirmQuit:
		return m, tea.Quit
	case ConfirmDeleteNotes:
		m.track("delete", func(c *canvas.Controller) { c.DeleteSelected() })
	case ConfirmClearBoard:
		m.track("clear", func(c *canvas.Controller) { c.ClearBoard() })
	case ConfirmDeleteBoard:
		b := m.ws.Active().Board()
		if m.ws.DeleteBoard(b.ID) {
			delete(m.history, b.ID)
			m.successMessage = "Deleted board " + b.Name
		}
	}
	return m, nil
}

func (m *model) copySelection() {
	c := m.ws.Active()
	text := notesText(c.Notes(), c.Selected())
	if text == "" {
		m.errorMessage = "No notes selected"
		return
	}
	if err := writeClipboardText(text); err != nil {
		m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.successMessage = "Copied"
}

func (m *model) pasteNote() {
	raw, err := readClipboardText()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
		return
	}
	text := cleanClipboardText(raw)
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return
	}
	c := m.ws.Active()
	at := c.ToBoard(m.pointerOrCenter())
	m.track("paste", func(c *canvas.Controller) { c.AddNote(at, text, canvas.DefaultColor()) })
}

func (m *model) saveCmd() tea.Cmd {
	s := m.saver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return savedMsg{err: s.Flush(ctx)}
	}
}

func (m *model) exportCmd(op FileOperation, path string) tea.Cmd {
	snap := m.ws.Active().Snapshot()
	cols, rows := m.canvasCols(), m.canvasRows()
	return func() tea.Msg {
		var err error
		switch op {
		case FileOpExportTXT:
			err = exportTXT(path, snap, cols, rows)
		default:
			err = exportPNG(path, snap.Board, snap.Notes)
		}
		return exportedMsg{path: path, err: err}
	}
}

// --- mouse ---

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	screen := cellCenter(msg.X, msg.Y)
	c := m.ws.Active()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		c.Wheel(screen, 1)
		return m, nil
	case tea.MouseButtonWheelDown:
		c.Wheel(screen, -1)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.settleGesture()
		if msg.Y < tabBarRows {
			if b, ok := m.tabAt(msg.X); ok {
				m.ws.SwitchBoard(b.ID)
			}
			return m, nil
		}
		if msg.Y >= m.height-statusRows {
			return m, nil
		}
		m.pointer = screen
		ev := pointerEvent(msg, screen)
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.leftPress(msg, ev)
		case tea.MouseButtonRight:
			ev.Button = canvas.ButtonSecondary
		case tea.MouseButtonMiddle:
			ev.Button = canvas.ButtonMiddle
		default:
			return m, nil
		}
		m.startPress(c)
		c.PointerDown(ev)

	case tea.MouseActionMotion:
		m.pointer = screen
		c.PointerMove(screen)
	}
	return m, nil
}

// pointerEvent maps terminal modifiers: ctrl and alt toggle, shift extends.
func pointerEvent(msg tea.MouseMsg, screen canvas.Point) canvas.PointerEvent {
	return canvas.PointerEvent{
		Screen:   screen,
		Button:   canvas.ButtonPrimary,
		Modifier: msg.Ctrl || msg.Alt,
		Extend:   msg.Shift,
	}
}

func (m model) leftPress(msg tea.MouseMsg, ev canvas.PointerEvent) (tea.Model, tea.Cmd) {
	c := m.ws.Active()
	now := m.now()
	here := cell{X: msg.X, Y: msg.Y}
	double := here == m.lastCell && now.Sub(m.lastClick) < doubleClick
	m.lastCell = here
	m.lastClick = now

	if double && !ev.Modifier && !ev.Extend {
		m.lastClick = time.Time{}
		if n, ok := c.NoteAt(ev.Screen); ok {
			return m.startEditing(n.ID)
		}
		var n canvas.Note
		m.track("add note", func(c *canvas.Controller) {
			n = c.AddNoteAt(ev.Screen, canvas.DefaultColor())
		})
		c.ToggleSelection(n.ID, false)
		return m, nil
	}

	m.startPress(c)
	c.PointerDown(ev)
	return m, nil
}

func (m *model) startPress(c *canvas.Controller) {
	m.pressBoard = c.Board().ID
	m.pressBefore = c.Notes()
}

// releasePointer finishes the gesture on the board where the press began,
// whatever mode the host is in by now.
func (m *model) releasePointer(ev canvas.PointerEvent) {
	c := m.ws.Active()
	if pc, ok := m.ws.Board(m.pressBoard); ok {
		c = pc
	}
	c.PointerUp(ev)
	m.endPress()
}

// settleGesture commits an open gesture at the last pointer position before
// a key or a new press changes the board under it.
func (m *model) settleGesture() {
	if m.pressBoard == "" && m.ws.Active().Gesture() == canvas.GestureNone {
		return
	}
	m.releasePointer(canvas.PointerEvent{Screen: m.pointer})
}

// endPress records the notes changed since the last press as one undo step.
func (m *model) endPress() {
	if m.pressBoard == "" {
		return
	}
	if c, ok := m.ws.Board(m.pressBoard); ok {
		m.recordChange(m.pressBoard, "move", m.pressBefore, c.Notes())
	}
	m.pressBoard = ""
	m.pressBefore = nil
}
