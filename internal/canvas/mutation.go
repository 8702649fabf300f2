package canvas

import "fmt"

type MutationKind int

const (
	NoteSaved MutationKind = iota
	NoteDeleted
	BoardSaved
	BoardDeleted
	ViewportChanged
	ActiveBoardChanged
)

func (k MutationKind) String() string {
	switch k {
	case NoteSaved:
		return "note-saved"
	case NoteDeleted:
		return "note-deleted"
	case BoardSaved:
		return "board-saved"
	case BoardDeleted:
		return "board-deleted"
	case ViewportChanged:
		return "viewport-changed"
	case ActiveBoardChanged:
		return "active-board-changed"
	default:
		return fmt.Sprintf("mutation(%d)", int(k))
	}
}

// Mutation is a committed change for the persistence collaborator. Note and
// Board are copies; the receiver may keep them.
type Mutation struct {
	Kind  MutationKind
	ID    string
	Note  Note
	Board Board
}

// Key identifies the entity a mutation touches. Two mutations with the same
// key can be coalesced, the later one winning.
func (m Mutation) Key() string {
	switch m.Kind {
	case NoteSaved, NoteDeleted:
		return "note:" + m.ID
	case BoardSaved, BoardDeleted, ViewportChanged:
		return "board:" + m.ID
	case ActiveBoardChanged:
		return "meta:active"
	default:
		return fmt.Sprintf("%d:%s", m.Kind, m.ID)
	}
}

func noteSaved(n Note) Mutation {
	return Mutation{Kind: NoteSaved, ID: n.ID, Note: n}
}

func noteDeleted(n Note) Mutation {
	return Mutation{Kind: NoteDeleted, ID: n.ID, Note: n}
}

func boardSaved(b Board) Mutation {
	return Mutation{Kind: BoardSaved, ID: b.ID, Board: b}
}

func viewportChanged(b Board) Mutation {
	return Mutation{Kind: ViewportChanged, ID: b.ID, Board: b}
}

// Sink receives committed mutations. Record must not block.
type Sink interface {
	Record(m Mutation)
}

type discardSink struct{}

func (discardSink) Record(Mutation) {}
