package canvas

// Drag moves a fixed set of notes with the pointer. The set is resolved once
// when the drag starts; selection changes during the drag do not affect it.
type Drag struct {
	active  bool
	anchor  string
	related []string
	last    Point
	moved   bool
}

func (d *Drag) Active() bool {
	return d.active
}

func (d *Drag) Anchor() string {
	return d.anchor
}

func (d *Drag) Related() []string {
	return append([]string(nil), d.related...)
}

// Start begins dragging anchor together with related.
func (d *Drag) Start(anchor string, pointer Point, related []string) {
	d.active = true
	d.anchor = anchor
	d.related = append([]string(nil), related...)
	d.last = pointer
	d.moved = false
}

// Move applies the pointer movement since the last event, divided by zoom,
// to every related note still on the board. It returns the moved notes.
func (d *Drag) Move(pointer Point, zoom float64, notes *NoteSet) []Note {
	if !d.active {
		return nil
	}
	delta := pointer.Sub(d.last).Div(zoom)
	d.last = pointer
	if delta.X == 0 && delta.Y == 0 {
		return nil
	}

	var moved []Note
	for _, id := range d.related {
		n, ok := notes.Get(id)
		if !ok {
			continue
		}
		n.X += delta.X
		n.Y += delta.Y
		moved = append(moved, *n)
	}
	if len(moved) > 0 {
		d.moved = true
	}
	return moved
}

// End finishes the drag. Positions were committed by Move, so there is
// nothing to roll back. It reports whether anything moved.
func (d *Drag) End() bool {
	moved := d.active && d.moved
	*d = Drag{}
	return moved
}
