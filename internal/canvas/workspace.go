package canvas

import (
	"fmt"
	"strings"
	"sync"
)

// Workspace is the set of boards, each driven by its own Controller, plus
// which board is active. There is always at least one board.
type Workspace struct {
	mu     sync.Mutex
	boards []*Controller
	active int
	opts   options
}

// NewWorkspace builds a workspace from persisted data. An empty board list
// gets a default board, notes whose board is unknown move to the active
// board, and group tags left on a single note are cleared.
func NewWorkspace(boards []Board, notes []Note, activeID string, opts ...Option) *Workspace {
	o := buildOptions(opts)
	w := &Workspace{opts: o}

	seen := make(map[string]bool)
	for _, b := range boards {
		if b.ID == "" || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		if strings.TrimSpace(b.Name) == "" {
			b.Name = fmt.Sprintf("Board %d", len(w.boards)+1)
		}
		w.boards = append(w.boards, newController(b, nil, o))
	}
	if len(w.boards) == 0 {
		b := w.newBoard(DefaultBoardName)
		w.boards = append(w.boards, newController(b, nil, o))
		o.sink.Record(boardSaved(b))
	}

	w.active = 0
	for i, c := range w.boards {
		if c.board.ID == activeID {
			w.active = i
		}
	}
	if w.boards[w.active].board.ID != activeID {
		o.sink.Record(Mutation{Kind: ActiveBoardChanged, ID: w.boards[w.active].board.ID})
	}

	byID := make(map[string]*Controller, len(w.boards))
	for _, c := range w.boards {
		byID[c.board.ID] = c
	}
	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		if n.Color == "" {
			n.Color = DefaultColor()
		}
		c, ok := byID[n.BoardID]
		if !ok {
			c = w.boards[w.active]
			n.BoardID = c.board.ID
			o.sink.Record(noteSaved(n))
			o.log.Warn().Str("note", n.ID).Str("board", c.board.ID).Msg("note without board moved to active board")
		}
		c.notes.Put(n)
	}

	for _, c := range w.boards {
		tags := make(map[string]bool)
		c.notes.Each(func(n *Note) bool {
			if n.GroupID != "" {
				tags[n.GroupID] = true
			}
			return true
		})
		c.saveLocked(dissolveSingletons(c.notes, tags))
	}
	return w
}

func (w *Workspace) newBoard(name string) Board {
	return Board{
		ID:        w.opts.newID(),
		Name:      name,
		Viewport:  DefaultViewport(),
		CreatedAt: w.opts.now(),
	}
}

// Boards lists the boards in tab order.
func (w *Workspace) Boards() []Board {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Board, len(w.boards))
	for i, c := range w.boards {
		out[i] = c.Board()
	}
	return out
}

func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.boards)
}

// Active returns the controller of the active board.
func (w *Workspace) Active() *Controller {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.boards[w.active]
}

func (w *Workspace) ActiveIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Workspace) Board(id string) (*Controller, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return w.boards[i], true
}

// BoardByName finds a board by case-insensitive name.
func (w *Workspace) BoardByName(name string) (*Controller, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.boards {
		if strings.EqualFold(c.Board().Name, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return nil, false
}

// AddBoard creates a board and makes it active. A blank name becomes "Board N".
func (w *Workspace) AddBoard(name string) Board {
	w.mu.Lock()
	defer w.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Board %d", len(w.boards)+1)
	}
	b := w.newBoard(name)
	w.boards = append(w.boards, newController(b, nil, w.opts))
	w.opts.sink.Record(boardSaved(b))
	w.switchLocked(len(w.boards) - 1)
	w.opts.log.Info().Str("board", b.ID).Str("name", b.Name).Msg("board added")
	return b
}

func (w *Workspace) RenameBoard(id, name string) bool {
	c, ok := w.Board(id)
	if !ok {
		return false
	}
	return c.Rename(name)
}

// DeleteBoard removes a board and its notes. The last board cannot be
// deleted. Deleting the active board activates the first remaining one.
func (w *Workspace) DeleteBoard(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 || len(w.boards) <= 1 {
		return false
	}

	c := w.boards[i]
	removed := c.ClearBoard()
	w.opts.sink.Record(Mutation{Kind: BoardDeleted, ID: id, Board: c.Board()})
	w.boards = append(w.boards[:i], w.boards[i+1:]...)

	switch {
	case i == w.active:
		w.active = 0
		w.opts.sink.Record(Mutation{Kind: ActiveBoardChanged, ID: w.boards[0].board.ID})
	case i < w.active:
		w.active--
	}
	w.opts.log.Info().Str("board", id).Int("notes", len(removed)).Msg("board deleted")
	return true
}

func (w *Workspace) SwitchBoard(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 {
		return false
	}
	w.switchLocked(i)
	return true
}

func (w *Workspace) NextBoard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switchLocked((w.active + 1) % len(w.boards))
}

func (w *Workspace) PrevBoard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switchLocked((w.active - 1 + len(w.boards)) % len(w.boards))
}

func (w *Workspace) switchLocked(i int) {
	if i == w.active {
		return
	}
	w.boards[w.active].Leave()
	w.active = i
	w.opts.sink.Record(Mutation{Kind: ActiveBoardChanged, ID: w.boards[i].board.ID})
}

func (w *Workspace) indexLocked(id string) int {
	for i, c := range w.boards {
		if c.board.ID == id {
			return i
		}
	}
	return -1
}
