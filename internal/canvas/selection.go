package canvas

// Selection tracks the selected notes of a board and an in-progress
// rubber-band rectangle. Ids keep the order they were selected in.
type Selection struct {
	ids       []string
	selecting bool
	start     Point
	end       Point
}

func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Contains(id string) bool {
	for _, sel := range s.ids {
		if sel == id {
			return true
		}
	}
	return false
}

// Selecting reports whether an area selection is in progress.
func (s *Selection) Selecting() bool {
	return s.selecting
}

// Area returns the live selection rectangle while an area selection is active.
func (s *Selection) Area() (Rect, bool) {
	if !s.selecting {
		return Rect{}, false
	}
	return NewRect(s.start, s.end), true
}

func (s *Selection) StartArea(p Point) {
	s.selecting = true
	s.start = p
	s.end = p
}

func (s *Selection) UpdateArea(p Point) {
	if !s.selecting {
		return
	}
	s.end = p
}

// CompleteArea ends the area selection and selects every note whose footprint
// overlaps the rectangle, adding to the current selection when additive is
// set. A zero-size rectangle still runs the test. It returns the ids hit.
func (s *Selection) CompleteArea(notes *NoteSet, additive bool) []string {
	if !s.selecting {
		return nil
	}
	rect := NewRect(s.start, s.end)
	s.selecting = false

	hit := notes.Intersecting(rect)
	if !additive {
		s.ids = append([]string(nil), hit...)
		return hit
	}
	for _, id := range hit {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return hit
}

func (s *Selection) CancelArea() {
	s.selecting = false
}

// Toggle with multi flips membership of id. Without multi the selection
// becomes {id}, or empty when it already was exactly {id}.
func (s *Selection) Toggle(id string, multi bool) {
	if multi {
		if s.Contains(id) {
			s.remove(id)
		} else {
			s.ids = append(s.ids, id)
		}
		return
	}
	if len(s.ids) == 1 && s.ids[0] == id {
		s.ids = nil
		return
	}
	s.ids = []string{id}
}

// Set replaces the selection.
func (s *Selection) Set(ids []string) {
	s.ids = nil
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
}

func (s *Selection) Clear() {
	s.ids = nil
}

// Prune drops ids that no longer belong to notes.
func (s *Selection) Prune(notes *NoteSet) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if notes.Has(id) {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}

func (s *Selection) remove(id string) {
	for i, sel := range s.ids {
		if sel == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}
