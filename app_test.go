package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinboard/internal/store"
)

func TestOpenBackendUsesBoardFile(t *testing.T) {
	home := t.TempDir()
	cfg := defaultConfig(home)
	cfg.BoardFile = "work.yaml"

	backend, closeFn, err := openBackend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	file, ok := backend.(*store.File)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, ".pinboard", "work.yaml"), file.Path())
}
