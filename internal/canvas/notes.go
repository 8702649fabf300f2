package canvas

// NoteSet holds the notes of one board in paint order: later notes are drawn
// above earlier ones and win hit tests.
type NoteSet struct {
	notes []*Note
	index map[string]int
}

func NewNoteSet(notes ...Note) *NoteSet {
	s := &NoteSet{index: make(map[string]int)}
	for _, n := range notes {
		s.Put(n)
	}
	return s
}

func (s *NoteSet) Len() int {
	return len(s.notes)
}

func (s *NoteSet) Get(id string) (*Note, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.notes[i], true
}

func (s *NoteSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Put inserts n on top, or replaces the note with the same id in place.
func (s *NoteSet) Put(n Note) {
	if i, ok := s.index[n.ID]; ok {
		*s.notes[i] = n
		return
	}
	note := n
	s.index[n.ID] = len(s.notes)
	s.notes = append(s.notes, &note)
}

func (s *NoteSet) Remove(id string) (Note, bool) {
	i, ok := s.index[id]
	if !ok {
		return Note{}, false
	}
	removed := *s.notes[i]
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.notes); j++ {
		s.index[s.notes[j].ID] = j
	}
	return removed, true
}

// Each visits notes bottom to top. Returning false stops the walk.
func (s *NoteSet) Each(fn func(n *Note) bool) {
	for _, n := range s.notes {
		if !fn(n) {
			return
		}
	}
}

// Snapshot copies the notes so callers cannot mutate engine state.
func (s *NoteSet) Snapshot() []Note {
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = *n
	}
	return out
}

func (s *NoteSet) IDs() []string {
	out := make([]string, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.ID
	}
	return out
}

// TopAt returns the topmost note whose footprint contains p.
func (s *NoteSet) TopAt(p Point) (*Note, bool) {
	for i := len(s.notes) - 1; i >= 0; i-- {
		if s.notes[i].Bounds().Contains(p) {
			return s.notes[i], true
		}
	}
	return nil, false
}

// Intersecting returns the ids of notes whose footprint overlaps r.
func (s *NoteSet) Intersecting(r Rect) []string {
	var ids []string
	for _, n := range s.notes {
		if n.Bounds().Overlaps(r) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Bounds is the union of all note footprints. ok is false for an empty set.
func (s *NoteSet) Bounds() (r Rect, ok bool) {
	for i, n := range s.notes {
		b := n.Bounds()
		if i == 0 {
			r = b
			continue
		}
		r.Min.X = min(r.Min.X, b.Min.X)
		r.Min.Y = min(r.Min.Y, b.Min.Y)
		r.Max.X = max(r.Max.X, b.Max.X)
		r.Max.Y = max(r.Max.Y, b.Max.Y)
	}
	return r, len(s.notes) > 0
}
