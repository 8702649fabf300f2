package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinboard/internal/canvas"
)

func TestWriteBoardList(t *testing.T) {
	boards := []canvas.Board{
		{ID: "b1", Name: "Main", Viewport: canvas.DefaultViewport()},
		{ID: "b2", Name: "Ideas", Viewport: canvas.Viewport{Zoom: 1.5}},
	}
	ws := canvas.NewWorkspace(boards, []canvas.Note{noteAt("a", 0, 0), noteAt("b", 300, 0)}, "b2")

	var buf bytes.Buffer
	require.NoError(t, writeBoardList(&buf, ws))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "NOTES", "ZOOM"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Main", "2", "100%"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"*", "Ideas", "0", "150%"}, strings.Fields(lines[2]))
}

func TestPickBoard(t *testing.T) {
	ws := canvas.NewWorkspace([]canvas.Board{
		{ID: "b1", Name: "Main"},
		{ID: "b2", Name: "Ideas"},
	}, nil, "b1")

	c, err := pickBoard(ws, "")
	require.NoError(t, err)
	assert.Equal(t, "b1", c.Board().ID)

	c, err = pickBoard(ws, "ideas")
	require.NoError(t, err)
	assert.Equal(t, "b2", c.Board().ID)

	_, err = pickBoard(ws, "missing")
	assert.ErrorIs(t, err, ErrBoardNotFound)
}
