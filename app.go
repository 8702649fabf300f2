package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pinboard/internal/canvas"
	"pinboard/internal/store"
)

var ErrBoardNotFound = errors.New("board not found")

const (
	openTimeout  = 30 * time.Second
	flushTimeout = 10 * time.Second
)

// session is an opened workspace and the store behind it.
type session struct {
	ws    *canvas.Workspace
	wb    *store.WriteBehind
	close func() error
}

func openBackend(ctx context.Context, cfg *Config, log zerolog.Logger) (store.Backend, func() error, error) {
	if cfg.CouchURL != "" {
		couch, err := store.NewCouch(ctx, cfg.CouchURL, cfg.CouchDB)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("db", cfg.CouchDB).Msg("using couchdb")
		return couch, couch.Close, nil
	}
	file := store.NewFile(cfg.GetSavePath(cfg.BoardFile))
	log.Debug().Str("path", file.Path()).Msg("using board file")
	return file, func() error { return nil }, nil
}

func openSession(ctx context.Context, cfg *Config, log zerolog.Logger) (*session, error) {
	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	backend, closeFn, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	snap, err := backend.Load(ctx)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("load boards: %w", err)
	}

	wb := store.NewWriteBehind(backend,
		store.WithDelay(cfg.SaveDelay),
		store.WithLogger(log.With().Str("component", "store").Logger()),
	)
	ws := canvas.NewWorkspace(snap.Boards, snap.Notes, snap.ActiveBoard,
		canvas.WithSink(wb),
		canvas.WithLogger(log.With().Str("component", "canvas").Logger()),
		canvas.WithOrigin(canvasOrigin),
	)
	log.Info().Int("boards", ws.Len()).Int("notes", len(snap.Notes)).Msg("workspace loaded")
	return &session{ws: ws, wb: wb, close: closeFn}, nil
}

// flush writes whatever the write-behind queue still holds.
func (s *session) flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	return s.wb.Flush(ctx)
}

func (s *session) Close() error {
	return s.close()
}

func newModel(ws *canvas.Workspace, sv saver, cfg *Config, log zerolog.Logger) model {
	editor := textarea.New()
	editor.Placeholder = "Note text"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	input := textinput.New()
	input.Prompt = ""

	return model{
		ws:       ws,
		saver:    sv,
		config:   cfg,
		log:      log,
		now:      time.Now,
		mode:     ModeNormal,
		keys:     defaultKeyMap(),
		helpView: help.New(),
		editor:   editor,
		input:    input,
		history:  make(map[string]*history),
	}
}

// runTUI runs the interactive board with the write-behind loop alongside it,
// flushing once the program exits.
func runTUI(cfg *Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.wb.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	p := tea.NewProgram(
		newModel(s.ws, s.wb, cfg, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, runErr := p.Run()

	cancel()
	waitErr := g.Wait()
	if err := s.flush(); err != nil {
		log.Error().Err(err).Int("pending", s.wb.Pending()).Msg("final save failed")
		return errors.Join(runErr, waitErr, err)
	}
	log.Info().Msg("saved on exit")
	return errors.Join(runErr, waitErr)
}

// loadWorkspace opens the store read-only for the headless commands.
func loadWorkspace(ctx context.Context, cfg *Config, log zerolog.Logger) (*canvas.Workspace, error) {
	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	backend, closeFn, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	snap, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load boards: %w", err)
	}
	return canvas.NewWorkspace(snap.Boards, snap.Notes, snap.ActiveBoard,
		canvas.WithLogger(log),
		canvas.WithOrigin(canvasOrigin),
	), nil
}

// pickBoard returns the named board, or the active one when name is empty.
func pickBoard(ws *canvas.Workspace, name string) (*canvas.Controller, error) {
	if name == "" {
		return ws.Active(), nil
	}
	c, ok := ws.BoardByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, name)
	}
	return c, nil
}
