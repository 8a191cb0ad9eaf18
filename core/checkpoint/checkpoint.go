// Package checkpoint persists how far a batch run has progressed so an
// interrupted run can resume. Positions only move forward.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gaurav-prasanna/paperback/core"
)

// ErrCorrupt is returned when a stored position cannot be read.
var ErrCorrupt = errors.New("checkpoint corrupt")

// Backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config selects and locates a checkpoint store.
type Config struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path is a directory for the file backend and a database file for
	// the sqlite backend.
	Path string `mapstructure:"path" yaml:"path"`
}

// Open returns the store named name in the configured backend. runID is
// recorded with each commit where the backend supports it.
func Open(ctx context.Context, cfg Config, name, runID string) (core.CheckpointStore, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(filepath.Join(cfg.Path, name+".checkpoint")), nil
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.Path, name, runID)
	default:
		return nil, fmt.Errorf("unknown checkpoint backend %q", cfg.Backend)
	}
}

// FileStore keeps the position as a decimal integer in a file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore at path. The file is created on the
// first commit.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the stored position, or 0 when nothing was committed.
func (s *FileStore) Load(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading checkpoint %s: %w", s.path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s holds %q", ErrCorrupt, s.path, text)
	}
	return n, nil
}

// Commit stores position unless a higher one is already stored.
func (s *FileStore) Commit(_ context.Context, position int) error {
	if position < 0 {
		return fmt.Errorf("negative checkpoint position %d", position)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if err == nil && position <= current {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(position)+"\n"), 0644); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}

// Close implements core.CheckpointStore.
func (s *FileStore) Close() error {
	return nil
}
