package main

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinboard/internal/canvas"
	"pinboard/internal/store"
)

type testApp struct {
	m   model
	mem *store.Memory
	wb  *store.WriteBehind
	now time.Time
}

func idSeq(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestApp(t *testing.T, boards []canvas.Board, notes ...canvas.Note) *testApp {
	t.Helper()
	if len(boards) == 0 {
		boards = []canvas.Board{{ID: "b1", Name: "Main", Viewport: canvas.DefaultViewport()}}
	}
	mem := store.NewMemory(store.Snapshot{})
	wb := store.NewWriteBehind(mem)
	ws := canvas.NewWorkspace(boards, notes, boards[0].ID,
		canvas.WithSink(wb),
		canvas.WithOrigin(canvasOrigin),
		canvas.WithIDGenerator(idSeq("n")),
		canvas.WithTagGenerator(idSeq("g")),
	)
	cfg := defaultConfig(t.TempDir())
	cfg.Confirmations = false

	app := &testApp{mem: mem, wb: wb, now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	app.m = newModel(ws, wb, cfg, zerolog.Nop())
	app.m.now = func() time.Time { return app.now }
	app.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

func (a *testApp) send(msg tea.Msg) tea.Cmd {
	next, cmd := a.m.Update(msg)
	a.m = next.(model)
	return cmd
}

func (a *testApp) key(keys ...string) {
	for _, k := range keys {
		a.send(keyMsg(k))
	}
}

func (a *testApp) mouse(action tea.MouseAction, button tea.MouseButton, x, y int) {
	a.send(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

func (a *testApp) click(x, y int) {
	a.mouse(tea.MouseActionPress, tea.MouseButtonLeft, x, y)
	a.mouse(tea.MouseActionRelease, tea.MouseButtonNone, x, y)
}

func (a *testApp) active() *canvas.Controller {
	return a.m.ws.Active()
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func noteAt(id string, x, y float64) canvas.Note {
	return canvas.Note{ID: id, Text: "note " + id, X: x, Y: y, Color: canvas.DefaultColor(), BoardID: "b1"}
}

func notePos(t *testing.T, c *canvas.Controller, id string) canvas.Point {
	t.Helper()
	n, ok := c.Note(id)
	require.True(t, ok, id)
	return n.Position()
}

func TestNewNoteKeyPlacesNoteAtViewCenter(t *testing.T) {
	app := newTestApp(t, nil)

	app.key("n")

	notes := app.active().Notes()
	require.Len(t, notes, 1)
	// 100x38 canvas cells: centre is screen (500, 400), board (500, 380).
	assert.Equal(t, canvas.Pt(400, 280), notes[0].Position())
	assert.Equal(t, canvas.DefaultNoteText, notes[0].Text)
	assert.Equal(t, []string{notes[0].ID}, app.active().Selected())

	app.key("u")
	assert.Empty(t, app.active().Notes())
	app.key("U")
	assert.Len(t, app.active().Notes(), 1)
}

func TestMouseDragMovesNoteAsOneUndoStep(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))

	app.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 3)
	app.mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 6, 4)
	app.mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 8, 5)
	app.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 8, 5)

	assert.Equal(t, canvas.Pt(30, 40), notePos(t, app.active(), "a"))
	assert.Equal(t, canvas.GestureNone, app.active().Gesture())

	app.key("u")
	assert.Equal(t, canvas.Pt(0, 0), notePos(t, app.active(), "a"))
	app.key("U")
	assert.Equal(t, canvas.Pt(30, 40), notePos(t, app.active(), "a"))
}

func TestClickWithoutMovingRecordsNoUndo(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))

	app.click(5, 3)
	app.key("u")

	assert.Equal(t, "Nothing to undo", app.m.successMessage)
	assert.Equal(t, []string{"a"}, app.active().Selected())
}

func TestDoubleClickEmptyCanvasAddsNote(t *testing.T) {
	app := newTestApp(t, nil)

	app.click(50, 20)
	app.now = app.now.Add(100 * time.Millisecond)
	app.click(50, 20)

	notes := app.active().Notes()
	require.Len(t, notes, 1)
	// cell (50,20) is screen (505, 410), board (505, 390).
	assert.Equal(t, canvas.Pt(405, 290), notes[0].Position())
}

func TestSlowSecondClickDoesNotAddNote(t *testing.T) {
	app := newTestApp(t, nil)

	app.click(50, 20)
	app.now = app.now.Add(time.Second)
	app.click(50, 20)

	assert.Empty(t, app.active().Notes())
}

func TestDoubleClickNoteOpensEditor(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))

	app.click(5, 3)
	app.now = app.now.Add(50 * time.Millisecond)
	app.click(5, 3)

	assert.Equal(t, ModeEditing, app.m.mode)
	assert.Equal(t, "a", app.m.editID)
	assert.Equal(t, "note a", app.m.editor.Value())
}

func TestCtrlClickTogglesWithoutDrag(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0), noteAt("b", 300, 0))

	app.click(5, 3)
	app.now = app.now.Add(time.Second)
	app.send(tea.MouseMsg{X: 35, Y: 3, Ctrl: true, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	app.send(tea.MouseMsg{X: 38, Y: 5, Ctrl: true, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	app.send(tea.MouseMsg{X: 38, Y: 5, Ctrl: true, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})

	assert.ElementsMatch(t, []string{"a", "b"}, app.active().Selected())
	assert.Equal(t, canvas.Pt(300, 0), notePos(t, app.active(), "b"))
}

func TestShiftDragExtendsSelection(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0), noteAt("b", 300, 0))

	app.click(5, 3)
	app.now = app.now.Add(time.Second)
	app.send(tea.MouseMsg{X: 35, Y: 3, Shift: true, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	app.send(tea.MouseMsg{X: 37, Y: 4, Shift: true, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	app.send(tea.MouseMsg{X: 37, Y: 4, Shift: true, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})

	assert.ElementsMatch(t, []string{"a", "b"}, app.active().Selected())
	assert.Equal(t, canvas.Pt(20, 20), notePos(t, app.active(), "a"))
	assert.Equal(t, canvas.Pt(320, 20), notePos(t, app.active(), "b"))
}

func TestKeyDuringDragCommitsDrag(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))

	app.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 3)
	app.mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 8, 5)
	app.key("e")
	require.Equal(t, ModeEditing, app.m.mode)
	assert.Equal(t, canvas.GestureNone, app.active().Gesture())

	app.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 8, 5)
	app.key("esc")

	assert.Equal(t, ModeNormal, app.m.mode)
	assert.Equal(t, canvas.GestureNone, app.active().Gesture())
	assert.Equal(t, canvas.Pt(30, 40), notePos(t, app.active(), "a"))
	app.key("u")
	assert.Equal(t, canvas.Pt(0, 0), notePos(t, app.active(), "a"))
}

func TestUndoDuringPressKeepsRedo(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))

	app.key("n")
	app.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 3)
	app.key("u")
	app.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 3)

	h := app.m.boardHistory("b1")
	assert.Empty(t, h.undo)
	assert.Len(t, h.redo, 1)
	require.Len(t, app.active().Notes(), 1)

	app.key("U")
	assert.Len(t, app.active().Notes(), 2)
}

func TestReleaseReachesBoardOutsideNormalMode(t *testing.T) {
	app := newTestApp(t, nil)

	app.mouse(tea.MouseActionPress, tea.MouseButtonRight, 10, 10)
	app.mouse(tea.MouseActionMotion, tea.MouseButtonRight, 12, 10)
	app.m.help = true
	app.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 12, 10)

	assert.Equal(t, canvas.GestureNone, app.active().Gesture())
	assert.Empty(t, app.m.pressBoard)
}

func TestMiddleDragPans(t *testing.T) {
	app := newTestApp(t, nil)

	app.mouse(tea.MouseActionPress, tea.MouseButtonMiddle, 10, 10)
	assert.Equal(t, canvas.GesturePan, app.active().Gesture())
	app.mouse(tea.MouseActionMotion, tea.MouseButtonMiddle, 13, 11)
	app.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 13, 11)

	assert.Equal(t, canvas.Pt(30, 20), app.active().Viewport().Offset)
}

func TestRightDragPans(t *testing.T) {
	app := newTestApp(t, nil)

	app.mouse(tea.MouseActionPress, tea.MouseButtonRight, 10, 10)
	app.mouse(tea.MouseActionMotion, tea.MouseButtonRight, 14, 12)
	app.mouse(tea.MouseActionRelease, tea.MouseButtonNone, 14, 12)

	assert.Equal(t, canvas.Pt(40, 40), app.active().Viewport().Offset)
}

func TestWheelZooms(t *testing.T) {
	app := newTestApp(t, nil)

	app.mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 0, 1)
	assert.Equal(t, 110, app.active().Viewport().Percent())

	app.mouse(tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 1)
	app.mouse(tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 1)
	assert.Equal(t, 90, app.active().Viewport().Percent())
}

func TestTabClickSwitchesBoard(t *testing.T) {
	app := newTestApp(t, []canvas.Board{
		{ID: "b1", Name: "Main", Viewport: canvas.DefaultViewport()},
		{ID: "b2", Name: "Other", Viewport: canvas.DefaultViewport()},
	})

	// "Main" is padded to 6 cells, so column 8 is inside "Other".
	app.click(8, 0)
	assert.Equal(t, "b2", app.active().Board().ID)

	app.click(1, 0)
	assert.Equal(t, "b1", app.active().Board().ID)
}

func TestKeyboardPanAndZoom(t *testing.T) {
	app := newTestApp(t, nil)

	app.key("l")
	assert.Equal(t, canvas.Pt(-panStepX, 0), app.active().Viewport().Offset)
	app.key("H")
	assert.Equal(t, canvas.Pt(panStepX, 0), app.active().Viewport().Offset)
	app.key("j")
	assert.Equal(t, canvas.Pt(panStepX, -panStepY), app.active().Viewport().Offset)

	app.key("+", "+")
	assert.Equal(t, 120, app.active().Viewport().Percent())
	app.key("-")
	assert.Equal(t, 110, app.active().Viewport().Percent())
	app.key("0")
	assert.Equal(t, 100, app.active().Viewport().Percent())
}

func TestEditNoteText(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))
	app.active().ToggleSelection("a", false)

	app.key("e")
	require.Equal(t, ModeEditing, app.m.mode)
	assert.Equal(t, "note a", app.m.editor.Value())

	app.m.editor.SetValue("Buy milk")
	app.key("ctrl+s")

	assert.Equal(t, ModeNormal, app.m.mode)
	n, _ := app.active().Note("a")
	assert.Equal(t, "Buy milk", n.Text)

	app.key("u")
	n, _ = app.active().Note("a")
	assert.Equal(t, "note a", n.Text)
}

func TestEditCancelKeepsText(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))
	app.active().ToggleSelection("a", false)

	app.key("e")
	app.m.editor.SetValue("changed")
	app.key("esc")

	assert.Equal(t, ModeNormal, app.m.mode)
	n, _ := app.active().Note("a")
	assert.Equal(t, "note a", n.Text)
}

func TestEditWithoutTarget(t *testing.T) {
	app := newTestApp(t, nil)

	app.key("e")

	assert.Equal(t, ModeNormal, app.m.mode)
	assert.Equal(t, "No note to edit", app.m.errorMessage)
}

func TestColorCycleAndGroup(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0), noteAt("b", 300, 0))

	app.key("g")
	assert.Equal(t, "Select at least two notes to group", app.m.errorMessage)

	app.key("a", "g")
	a, _ := app.active().Note("a")
	b, _ := app.active().Note("b")
	assert.True(t, a.Grouped())
	assert.Equal(t, a.GroupID, b.GroupID)

	app.key("c")
	a, _ = app.active().Note("a")
	assert.Equal(t, canvas.Palette[1], a.Color)

	app.key("G")
	a, _ = app.active().Note("a")
	assert.False(t, a.Grouped())

	app.key("u", "u")
	a, _ = app.active().Note("a")
	assert.True(t, a.Grouped())
	assert.Equal(t, canvas.DefaultColor(), a.Color)
}

func TestDeleteSelectedAsksFirst(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0), noteAt("b", 300, 0))
	app.m.config.Confirmations = true

	app.key("d")
	assert.Equal(t, "No notes selected", app.m.errorMessage)

	app.key("a", "d")
	require.Equal(t, ModeConfirm, app.m.mode)
	assert.Contains(t, app.m.statusLine(), "Delete 2 selected notes? (y/n)")

	app.key("n")
	assert.Equal(t, ModeNormal, app.m.mode)
	assert.Len(t, app.active().Notes(), 2)

	app.key("d", "y")
	assert.Empty(t, app.active().Notes())

	app.key("u")
	assert.Len(t, app.active().Notes(), 2)
}

func TestClearBoardWithoutConfirmations(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0), noteAt("b", 300, 0))

	app.key("X")
	assert.Empty(t, app.active().Notes())

	app.key("X")
	assert.Equal(t, "Board is already empty", app.m.errorMessage)
}

func TestQuit(t *testing.T) {
	app := newTestApp(t, nil)

	cmd := app.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitAsksWhenConfirmationsOn(t *testing.T) {
	app := newTestApp(t, nil)
	app.m.config.Confirmations = true

	cmd := app.send(keyMsg("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, ModeConfirm, app.m.mode)
	assert.Contains(t, app.m.statusLine(), "Quit Pinboard? (y/n)")

	cmd = app.send(keyMsg("y"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBoardKeys(t *testing.T) {
	app := newTestApp(t, nil)

	app.key("x")
	assert.Equal(t, "Cannot delete the last board", app.m.errorMessage)

	app.key("t")
	require.Equal(t, ModeRenaming, app.m.mode)
	assert.Equal(t, 2, app.m.ws.Len())
	assert.Equal(t, "Board 2", app.m.input.Value())

	app.m.input.SetValue("Ideas")
	app.key("enter")
	assert.Equal(t, ModeNormal, app.m.mode)
	assert.Equal(t, "Ideas", app.active().Board().Name)

	app.key("[")
	assert.Equal(t, "Main", app.active().Board().Name)
	app.key("]")
	assert.Equal(t, "Ideas", app.active().Board().Name)

	app.key("x")
	assert.Equal(t, 1, app.m.ws.Len())
	assert.Equal(t, "Main", app.active().Board().Name)
}

func TestRenameRejectsBlankName(t *testing.T) {
	app := newTestApp(t, nil)

	app.key("r")
	app.m.input.SetValue("   ")
	app.key("enter")

	assert.Equal(t, ModeRenaming, app.m.mode)
	assert.Equal(t, "Board name cannot be empty", app.m.errorMessage)

	app.key("esc")
	assert.Equal(t, ModeNormal, app.m.mode)
	assert.Equal(t, "Main", app.active().Board().Name)
}

func TestUndoIsPerBoard(t *testing.T) {
	app := newTestApp(t, []canvas.Board{
		{ID: "b1", Name: "Main", Viewport: canvas.DefaultViewport()},
		{ID: "b2", Name: "Other", Viewport: canvas.DefaultViewport()},
	})

	app.key("n", "]")
	app.key("u")
	assert.Equal(t, "Nothing to undo", app.m.successMessage)

	app.key("[", "u")
	assert.Empty(t, app.active().Notes())
}

func TestSaveKeyFlushes(t *testing.T) {
	app := newTestApp(t, nil)
	app.key("n")
	require.Positive(t, app.wb.Pending())

	cmd := app.send(keyMsg("s"))
	require.NotNil(t, cmd)
	msg := cmd()
	app.send(msg)

	assert.Equal(t, savedMsg{}, msg)
	assert.Zero(t, app.wb.Pending())
	assert.Equal(t, "Saved", app.m.successMessage)
	snap, err := app.mem.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Notes, 1)
}

func TestExportKeyWritesText(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))

	app.key("T")
	require.Equal(t, ModeFileInput, app.m.mode)
	assert.Equal(t, "main.txt", app.m.input.Value())

	cmd := app.send(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, app.m.config.GetSavePath("main.txt"), msg.path)

	app.send(msg)
	assert.Equal(t, "Exported to "+msg.path, app.m.successMessage)
}

func TestHelpScreen(t *testing.T) {
	app := newTestApp(t, nil)

	app.key("?")
	require.True(t, app.m.help)
	assert.Contains(t, app.m.View(), "Pinboard Help")

	app.key("j", "j", "k")
	assert.Equal(t, 1, app.m.helpScroll)

	app.key("esc")
	assert.False(t, app.m.help)
	assert.Zero(t, app.m.helpScroll)
}

func TestViewShowsBoardAndNotes(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))
	app.active().ToggleSelection("a", false)

	view := app.m.View()
	lines := strings.Split(view, "\n")

	assert.Len(t, lines, 40)
	assert.Contains(t, lines[0], "Main")
	assert.Contains(t, view, "note a")
	assert.Contains(t, lines[len(lines)-1], "Board: Main")
	assert.Contains(t, lines[len(lines)-1], "Selected: 1")
}

func TestMouseIgnoredOutsideNormalMode(t *testing.T) {
	app := newTestApp(t, nil, noteAt("a", 0, 0))
	app.key("r")

	app.mouse(tea.MouseActionPress, tea.MouseButtonLeft, 5, 3)

	assert.Equal(t, canvas.GestureNone, app.active().Gesture())
}
