package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noteAt(id string, x, y float64) Note {
	return Note{ID: id, X: x, Y: y, Color: DefaultColor(), BoardID: "b1"}
}

func TestAreaSelectionIntersection(t *testing.T) {
	notes := NewNoteSet(noteAt("n", 50, 50))

	tests := []struct {
		name       string
		start, end Point
		want       []string
	}{
		{name: "overlapping corner", start: Pt(0, 0), end: Pt(60, 60), want: []string{"n"}},
		{name: "disjoint", start: Pt(300, 300), end: Pt(400, 400), want: []string{}},
		{name: "dragged backwards", start: Pt(60, 60), end: Pt(0, 0), want: []string{"n"}},
		{name: "touching right edge", start: Pt(250, 0), end: Pt(300, 100), want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selection
			s.StartArea(tt.start)
			s.UpdateArea(tt.end)
			s.CompleteArea(notes, false)
			assert.ElementsMatch(t, tt.want, s.IDs())
			assert.False(t, s.Selecting())
		})
	}
}

func TestAdditiveAreaSelection(t *testing.T) {
	notes := NewNoteSet(noteAt("A", 0, 0), noteAt("B", 300, 0), noteAt("C", 600, 0))

	var s Selection
	s.StartArea(Pt(-10, -10))
	s.UpdateArea(Pt(350, 50))
	s.CompleteArea(notes, false)
	require.ElementsMatch(t, []string{"A", "B"}, s.IDs())

	s.StartArea(Pt(450, 50))
	s.UpdateArea(Pt(650, 60))
	s.CompleteArea(notes, true)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, s.IDs())
	assert.Equal(t, []string{"A", "B", "C"}, s.IDs(), "no duplicates, order kept")
}

func TestNonAdditiveAreaSelectionReplaces(t *testing.T) {
	notes := NewNoteSet(noteAt("A", 0, 0), noteAt("B", 300, 0))

	var s Selection
	s.Set([]string{"A"})
	s.StartArea(Pt(310, 10))
	s.CompleteArea(notes, false)
	assert.Equal(t, []string{"B"}, s.IDs())
}

func TestZeroAreaSelectionStillRuns(t *testing.T) {
	notes := NewNoteSet(noteAt("A", 0, 0))

	var s Selection
	s.Set([]string{"A"})
	s.StartArea(Pt(500, 500))
	hit := s.CompleteArea(notes, false)
	assert.Empty(t, hit)
	assert.Empty(t, s.IDs(), "a click on empty space clears the selection")

	s.StartArea(Pt(100, 100))
	s.CompleteArea(notes, false)
	assert.Equal(t, []string{"A"}, s.IDs(), "a degenerate rect inside a note hits it")
}

func TestAreaCallsWhileIdleAreNoops(t *testing.T) {
	notes := NewNoteSet(noteAt("A", 0, 0))

	var s Selection
	s.Set([]string{"A"})
	s.UpdateArea(Pt(10, 10))
	assert.Nil(t, s.CompleteArea(notes, false))
	assert.Equal(t, []string{"A"}, s.IDs())

	_, ok := s.Area()
	assert.False(t, ok)
}

func TestCancelAreaKeepsSelection(t *testing.T) {
	notes := NewNoteSet(noteAt("A", 0, 0))

	var s Selection
	s.Set([]string{"A"})
	s.StartArea(Pt(400, 400))
	s.UpdateArea(Pt(500, 500))
	area, ok := s.Area()
	require.True(t, ok)
	assert.Equal(t, NewRect(Pt(400, 400), Pt(500, 500)), area)

	s.CancelArea()
	assert.False(t, s.Selecting())
	assert.Nil(t, s.CompleteArea(notes, false))
	assert.Equal(t, []string{"A"}, s.IDs())
}

func TestToggle(t *testing.T) {
	var s Selection

	s.Toggle("a", false)
	assert.Equal(t, []string{"a"}, s.IDs())

	s.Toggle("b", true)
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	s.Toggle("a", true)
	assert.Equal(t, []string{"b"}, s.IDs())

	s.Toggle("c", false)
	assert.Equal(t, []string{"c"}, s.IDs())

	s.Toggle("c", false)
	assert.Empty(t, s.IDs(), "single toggle of the only selected note clears")

	s.Set([]string{"a", "b"})
	s.Toggle("a", false)
	assert.Equal(t, []string{"a"}, s.IDs(), "single toggle inside a larger selection narrows to it")
}

func TestClearSelectionDuringArea(t *testing.T) {
	var s Selection
	s.Set([]string{"a"})
	s.StartArea(Pt(0, 0))
	s.Clear()
	assert.Empty(t, s.IDs())
	assert.True(t, s.Selecting())
}

func TestPrune(t *testing.T) {
	notes := NewNoteSet(noteAt("a", 0, 0))
	var s Selection
	s.Set([]string{"a", "gone"})
	s.Prune(notes)
	assert.Equal(t, []string{"a"}, s.IDs())
}
