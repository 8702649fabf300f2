package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"pinboard/internal/canvas"
)

const tempFilePrefix = ".pinboard-tmp-"

// File keeps the whole workspace in one YAML file. Every Apply rewrites the
// file atomically.
type File struct {
	path string
	perm os.FileMode

	mu     sync.Mutex
	snap   Snapshot
	loaded bool
}

func NewFile(path string) *File {
	return &File{path: path, perm: 0o644}
}

func (f *File) Path() string {
	return f.path
}

// Load reads the file. A missing file is an empty workspace.
func (f *File) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, err := f.readLocked()
	if err != nil {
		return Snapshot{}, err
	}
	f.snap = snap
	f.loaded = true

	out := snap
	out.Boards = append([]canvas.Board(nil), snap.Boards...)
	out.Notes = append([]canvas.Note(nil), snap.Notes...)
	return out, nil
}

func (f *File) Apply(ctx context.Context, muts []canvas.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.loaded {
		snap, err := f.readLocked()
		if err != nil {
			return err
		}
		f.snap = snap
		f.loaded = true
	}

	next := f.snap
	next.Boards = append([]canvas.Board(nil), f.snap.Boards...)
	next.Notes = append([]canvas.Note(nil), f.snap.Notes...)
	next.Apply(muts)
	next.Version = SnapshotVersion

	data, err := yaml.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}
	if err := writeFileAtomic(f.path, data, f.perm); err != nil {
		return err
	}
	f.snap = next
	return nil
}

func (f *File) readLocked() (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{Version: SnapshotVersion}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", f.path, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if snap.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%s: unsupported version %d", f.path, snap.Version)
	}
	return snap, nil
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
