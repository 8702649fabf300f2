// Package store persists pinboard workspaces. A Backend loads a whole
// workspace and applies batches of committed canvas mutations; WriteBehind
// sits between the canvas engine and a Backend so gestures never wait on I/O.
package store

import (
	"context"
	"sync"

	"pinboard/internal/canvas"
)

// SnapshotVersion is written into board files.
const SnapshotVersion = 1

// Snapshot is a complete persisted workspace.
type Snapshot struct {
	Version     int            `yaml:"version" json:"version"`
	ActiveBoard string         `yaml:"active_board" json:"active_board"`
	Boards      []canvas.Board `yaml:"boards" json:"boards"`
	Notes       []canvas.Note  `yaml:"notes" json:"notes"`
}

type Backend interface {
	Load(ctx context.Context) (Snapshot, error)
	Apply(ctx context.Context, muts []canvas.Mutation) error
}

// NotesOf returns the notes of one board in stored order.
func (s Snapshot) NotesOf(boardID string) []canvas.Note {
	var out []canvas.Note
	for _, n := range s.Notes {
		if n.BoardID == boardID {
			out = append(out, n)
		}
	}
	return out
}

// Apply folds mutations into the snapshot. Saves upsert in place so stored
// order follows creation order, which keeps paint order stable across loads.
func (s *Snapshot) Apply(muts []canvas.Mutation) {
	for _, m := range muts {
		switch m.Kind {
		case canvas.NoteSaved:
			s.putNote(m.Note)
		case canvas.NoteDeleted:
			s.deleteNote(m.ID)
		case canvas.BoardSaved, canvas.ViewportChanged:
			s.putBoard(m.Board)
		case canvas.BoardDeleted:
			s.deleteBoard(m.ID)
		case canvas.ActiveBoardChanged:
			s.ActiveBoard = m.ID
		}
	}
}

func (s *Snapshot) putNote(n canvas.Note) {
	for i := range s.Notes {
		if s.Notes[i].ID == n.ID {
			s.Notes[i] = n
			return
		}
	}
	s.Notes = append(s.Notes, n)
}

func (s *Snapshot) deleteNote(id string) {
	for i := range s.Notes {
		if s.Notes[i].ID == id {
			s.Notes = append(s.Notes[:i], s.Notes[i+1:]...)
			return
		}
	}
}

func (s *Snapshot) putBoard(b canvas.Board) {
	for i := range s.Boards {
		if s.Boards[i].ID == b.ID {
			s.Boards[i] = b
			return
		}
	}
	s.Boards = append(s.Boards, b)
}

// deleteBoard also drops any notes still filed under the board.
func (s *Snapshot) deleteBoard(id string) {
	boards := s.Boards[:0]
	for _, b := range s.Boards {
		if b.ID != id {
			boards = append(boards, b)
		}
	}
	s.Boards = boards

	notes := s.Notes[:0]
	for _, n := range s.Notes {
		if n.BoardID != id {
			notes = append(notes, n)
		}
	}
	s.Notes = notes
}

// Memory is a Backend that keeps the snapshot in memory. It backs headless
// commands and tests.
type Memory struct {
	mu      sync.Mutex
	snap    Snapshot
	applied int
	fail    error
}

func NewMemory(snap Snapshot) *Memory {
	return &Memory{snap: snap}
}

func (m *Memory) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copySnapshot(), nil
}

func (m *Memory) Apply(ctx context.Context, muts []canvas.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.snap.Apply(muts)
	m.applied++
	return nil
}

// FailWith makes every later Apply return err until called with nil.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// Batches reports how many successful Apply calls were made.
func (m *Memory) Batches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

func (m *Memory) copySnapshot() Snapshot {
	out := m.snap
	out.Boards = append([]canvas.Board(nil), m.snap.Boards...)
	out.Notes = append([]canvas.Note(nil), m.snap.Notes...)
	return out
}
