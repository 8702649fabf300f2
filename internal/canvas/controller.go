package canvas

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// PointerEvent is a pointer press, motion or release in screen space.
// Modifier is set while ctrl or meta is held: a press on a note toggles it
// without dragging. Extend is set while shift is held: a press on a note
// adds it to the selection and drags. Either makes an area selection additive.
type PointerEvent struct {
	Screen   Point
	Button   Button
	Modifier bool
	Extend   bool
}

type Gesture int

const (
	GestureNone Gesture = iota
	GesturePan
	GestureAreaSelect
	GestureDrag
)

func (g Gesture) String() string {
	switch g {
	case GesturePan:
		return "pan"
	case GestureAreaSelect:
		return "select"
	case GestureDrag:
		return "drag"
	default:
		return "idle"
	}
}

// Snapshot is a read-only copy of a board's interaction state for renderers.
type Snapshot struct {
	Board     Board
	Notes     []Note
	Selected  []string
	Area      Rect
	Selecting bool
	Gesture   Gesture
	Dragging  []string
	Origin    Point
}

func (s Snapshot) IsSelected(id string) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// IsDragging reports whether id moves with the drag in progress.
func (s Snapshot) IsDragging(id string) bool {
	for _, d := range s.Dragging {
		if d == id {
			return true
		}
	}
	return false
}

// Controller owns the notes, viewport, selection and active gesture of one
// board. All methods are serialised by one mutex, so controllers of
// different boards never contend.
type Controller struct {
	mu sync.Mutex

	board   Board
	notes   *NoteSet
	sel     Selection
	drag    Drag
	panning bool
	panLast Point

	opts options
	log  zerolog.Logger
}

func NewController(board Board, notes []Note, opts ...Option) *Controller {
	return newController(board, notes, buildOptions(opts))
}

func newController(board Board, notes []Note, o options) *Controller {
	board.Viewport = board.Viewport.Normalize()
	set := NewNoteSet()
	for _, n := range notes {
		n.BoardID = board.ID
		set.Put(n)
	}
	return &Controller{
		board: board,
		notes: set,
		opts:  o,
		log:   o.log.With().Str("board", board.ID).Logger(),
	}
}

func (c *Controller) Board() Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board
}

func (c *Controller) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Viewport
}

func (c *Controller) Notes() []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notes.Snapshot()
}

func (c *Controller) Note(id string) (Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.notes.Get(id)
	if !ok {
		return Note{}, false
	}
	return *n, true
}

func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.IDs()
}

func (c *Controller) Gesture() Gesture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gesture()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	area, selecting := c.sel.Area()
	return Snapshot{
		Board:     c.board,
		Notes:     c.notes.Snapshot(),
		Selected:  c.sel.IDs(),
		Area:      area,
		Selecting: selecting,
		Gesture:   c.gesture(),
		Dragging:  c.drag.Related(),
		Origin:    c.opts.origin,
	}
}

// ToBoard converts a screen point using this board's viewport.
func (c *Controller) ToBoard(screen Point) Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ToBoardSpace(screen, c.opts.origin, c.board.Viewport)
}

// NoteAt returns the topmost note under a screen point.
func (c *Controller) NoteAt(screen Point) (Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.notes.TopAt(ToBoardSpace(screen, c.opts.origin, c.board.Viewport))
	if !ok {
		return Note{}, false
	}
	return *n, true
}

// --- pointer input ---

// PointerDown starts a gesture. A press that arrives while another gesture
// is still open finishes that gesture first, as if its release was seen.
func (c *Controller) PointerDown(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture() != GestureNone {
		c.finishLocked(ev.Modifier || ev.Extend)
	}

	switch ev.Button {
	case ButtonSecondary, ButtonMiddle:
		c.panning = true
		c.panLast = ev.Screen
		c.log.Debug().Msg("pan start")
	case ButtonPrimary:
		p := ToBoardSpace(ev.Screen, c.opts.origin, c.board.Viewport)
		n, ok := c.notes.TopAt(p)
		if !ok {
			c.sel.StartArea(p)
			c.log.Debug().Float64("x", p.X).Float64("y", p.Y).Msg("area selection start")
			return
		}
		if ev.Modifier {
			c.sel.Toggle(n.ID, true)
			return
		}
		if !c.sel.Contains(n.ID) {
			c.sel.Toggle(n.ID, ev.Extend)
		}
		related := RelatedNotes(c.notes, n.ID, c.sel.IDs())
		c.drag.Start(n.ID, ev.Screen, related)
		c.log.Debug().Str("note", n.ID).Int("related", len(related)).Msg("drag start")
	}
}

func (c *Controller) PointerMove(screen Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.drag.Active():
		for _, n := range c.drag.Move(screen, c.board.Viewport.Zoom, c.notes) {
			c.opts.sink.Record(noteSaved(n))
		}
	case c.panning:
		delta := screen.Sub(c.panLast)
		c.panLast = screen
		if delta.X != 0 || delta.Y != 0 {
			c.setViewportLocked(c.board.Viewport.Pan(delta.X, delta.Y))
		}
	case c.sel.Selecting():
		c.sel.UpdateArea(ToBoardSpace(screen, c.opts.origin, c.board.Viewport))
	}
}

// PointerUp finalises the active gesture. For an area selection the
// modifier makes the selection additive.
func (c *Controller) PointerUp(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishLocked(ev.Modifier || ev.Extend)
}

// Wheel zooms one step at the pointer. Positive direction zooms in.
func (c *Controller) Wheel(screen Point, direction int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cursor := screen.Sub(c.opts.origin)
	c.setViewportLocked(c.board.Viewport.ZoomAt(cursor, direction))
}

// Cancel abandons an area selection. Drags and pans have no cancel path.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.CancelArea()
}

func (c *Controller) gesture() Gesture {
	switch {
	case c.drag.Active():
		return GestureDrag
	case c.panning:
		return GesturePan
	case c.sel.Selecting():
		return GestureAreaSelect
	default:
		return GestureNone
	}
}

func (c *Controller) finishLocked(additive bool) {
	switch {
	case c.drag.Active():
		anchor := c.drag.Anchor()
		moved := c.drag.End()
		c.log.Debug().Str("note", anchor).Bool("moved", moved).Msg("drag end")
	case c.panning:
		c.panning = false
		c.log.Debug().Msg("pan end")
	case c.sel.Selecting():
		hit := c.sel.CompleteArea(c.notes, additive)
		c.log.Debug().Int("hit", len(hit)).Int("selected", c.sel.Len()).Bool("additive", additive).
			Msg("area selection complete")
	}
}

// --- viewport ---

func (c *Controller) Pan(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewportLocked(c.board.Viewport.Pan(dx, dy))
}

func (c *Controller) SetZoom(z float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewportLocked(c.board.Viewport.SetZoom(z))
}

// ZoomBy adjusts the zoom without moving the offset, like toolbar buttons.
func (c *Controller) ZoomBy(step float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewportLocked(c.board.Viewport.SetZoom(c.board.Viewport.Zoom + step))
}

func (c *Controller) ResetZoom() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewportLocked(c.board.Viewport.ResetZoom())
}

func (c *Controller) setViewportLocked(v Viewport) {
	if v == c.board.Viewport {
		return
	}
	c.board.Viewport = v
	c.opts.sink.Record(viewportChanged(c.board))
}

// --- selection ---

func (c *Controller) ToggleSelection(id string, multi bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.notes.Has(id) {
		return
	}
	c.sel.Toggle(id, multi)
}

func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.Set(c.notes.IDs())
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.Clear()
}

// --- grouping ---

// GroupSelected puts the selected notes in one new group.
func (c *Controller) GroupSelected() []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := GroupNotes(c.notes, c.sel.IDs(), c.opts.newTag)
	c.saveLocked(changed)
	if len(changed) > 0 {
		c.log.Debug().Str("group", changed[0].GroupID).Int("notes", c.sel.Len()).Msg("grouped")
	}
	return changed
}

// UngroupSelected dissolves every group touched by the selection.
func (c *Controller) UngroupSelected() []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := UngroupNotes(c.notes, c.sel.IDs())
	c.saveLocked(changed)
	return changed
}

func (c *Controller) Ungroup(tag string) []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := UngroupTag(c.notes, tag)
	c.saveLocked(changed)
	return changed
}

// RelatedNotes resolves the notes that would move with id right now.
func (c *Controller) RelatedNotes(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return RelatedNotes(c.notes, id, c.sel.IDs())
}

// --- notes ---

// AddNoteAt creates a note centred on a screen point and puts it on top.
func (c *Controller) AddNoteAt(screen Point, color string) Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(ToBoardSpace(screen, c.opts.origin, c.board.Viewport), DefaultNoteText, color)
}

// AddNote creates a note centred on a board-space point.
func (c *Controller) AddNote(at Point, text, color string) Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(at, text, color)
}

func (c *Controller) addLocked(at Point, text, color string) Note {
	pos := CenteredAt(at)
	n := Note{
		ID:      c.opts.newID(),
		Text:    text,
		X:       pos.X,
		Y:       pos.Y,
		Color:   NormalizeColor(color),
		BoardID: c.board.ID,
	}
	c.notes.Put(n)
	c.opts.sink.Record(noteSaved(n))
	c.log.Debug().Str("note", n.ID).Float64("x", n.X).Float64("y", n.Y).Msg("note added")
	return n
}

func (c *Controller) SetText(id, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.notes.Get(id)
	if !ok || n.Text == text {
		return false
	}
	n.Text = text
	c.opts.sink.Record(noteSaved(*n))
	return true
}

func (c *Controller) SetColor(id, color string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setColorLocked(id, NormalizeColor(color))
}

// CycleColor moves every selected note to the next palette colour.
func (c *Controller) CycleColor() []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	var changed []Note
	for _, id := range c.sel.IDs() {
		n, ok := c.notes.Get(id)
		if !ok {
			continue
		}
		if c.setColorLocked(id, NextColor(n.Color)) {
			changed = append(changed, *n)
		}
	}
	return changed
}

func (c *Controller) setColorLocked(id, color string) bool {
	n, ok := c.notes.Get(id)
	if !ok || n.Color == color {
		return false
	}
	n.Color = color
	c.opts.sink.Record(noteSaved(*n))
	return true
}

func (c *Controller) DeleteNote(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deleteLocked([]string{id})) > 0
}

func (c *Controller) DeleteSelected() []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteLocked(c.sel.IDs())
}

// ClearBoard deletes every note on the board.
func (c *Controller) ClearBoard() []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteLocked(c.notes.IDs())
}

func (c *Controller) deleteLocked(ids []string) []Note {
	var removed []Note
	tags := make(map[string]bool)
	for _, id := range ids {
		n, ok := c.notes.Remove(id)
		if !ok {
			continue
		}
		if n.GroupID != "" {
			tags[n.GroupID] = true
		}
		removed = append(removed, n)
		c.opts.sink.Record(noteDeleted(n))
	}
	if len(removed) == 0 {
		return nil
	}
	c.saveLocked(dissolveSingletons(c.notes, tags))
	c.sel.Prune(c.notes)
	if c.drag.Active() {
		c.drag.related = pruneIDs(c.drag.related, c.notes)
	}
	return removed
}

// Replace makes the board hold exactly notes, in that order, recording only
// the differences. Undo and redo restore board states through it.
func (c *Controller) Replace(notes []Note) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keep := make(map[string]bool, len(notes))
	for _, n := range notes {
		keep[n.ID] = true
	}
	for _, id := range c.notes.IDs() {
		if !keep[id] {
			if n, ok := c.notes.Remove(id); ok {
				c.opts.sink.Record(noteDeleted(n))
			}
		}
	}

	next := NewNoteSet()
	for _, n := range notes {
		n.BoardID = c.board.ID
		old, ok := c.notes.Get(n.ID)
		if !ok || *old != n {
			c.opts.sink.Record(noteSaved(n))
		}
		next.Put(n)
	}
	c.notes = next
	c.sel.Prune(c.notes)
}

// Rename is used by the workspace. Blank names are ignored.
func (c *Controller) Rename(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" || name == c.board.Name {
		return false
	}
	c.board.Name = name
	c.opts.sink.Record(boardSaved(c.board))
	return true
}

// Leave drops transient state when the board stops being active.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel.CancelArea()
	c.drag.End()
	c.panning = false
	c.sel.Clear()
}

func (c *Controller) saveLocked(notes []Note) {
	for _, n := range notes {
		c.opts.sink.Record(noteSaved(n))
	}
}

func pruneIDs(ids []string, notes *NoteSet) []string {
	kept := ids[:0]
	for _, id := range ids {
		if notes.Has(id) {
			kept = append(kept, id)
		}
	}
	return kept
}
