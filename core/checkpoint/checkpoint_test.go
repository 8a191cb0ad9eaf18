package checkpoint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/paperback/core"
)

func stores(t *testing.T) map[string]func(*testing.T) core.CheckpointStore {
	dir := t.TempDir()
	ctx := context.Background()
	return map[string]func(*testing.T) core.CheckpointStore{
		BackendFile: func(t *testing.T) core.CheckpointStore {
			s, err := Open(ctx, Config{Backend: BackendFile, Path: dir}, "books", "run-1")
			if err != nil {
				t.Fatalf("Open(file) error = %v", err)
			}
			return s
		},
		BackendSQLite: func(t *testing.T) core.CheckpointStore {
			s, err := Open(ctx, Config{Backend: BackendSQLite, Path: filepath.Join(dir, "state", "paperback.db")}, "books", "run-1")
			if err != nil {
				t.Fatalf("Open(sqlite) error = %v", err)
			}
			return s
		},
	}
}

func TestStoreMonotonic(t *testing.T) {
	ctx := context.Background()
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			if pos, err := s.Load(ctx); err != nil || pos != 0 {
				t.Fatalf("Load() on empty store = %d, %v; want 0", pos, err)
			}
			for _, p := range []int{10, 40, 25} {
				if err := s.Commit(ctx, p); err != nil {
					t.Fatalf("Commit(%d) error = %v", p, err)
				}
			}
			if err := s.Commit(ctx, -1); err == nil {
				t.Error("Commit(-1) error = nil, want error")
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			// A reopened store sees the highest committed position.
			s = open(t)
			defer s.Close()
			if pos, err := s.Load(ctx); err != nil || pos != 40 {
				t.Errorf("Load() after reopen = %d, %v; want 40", pos, err)
			}
		})
	}
}

func TestSQLiteRecordsAdvancingRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cp.db")

	s, err := OpenSQLite(ctx, path, "bundles", "run-1")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	s.Commit(ctx, 5)
	s.Close()

	s, err = OpenSQLite(ctx, path, "bundles", "run-2")
	if err != nil {
		t.Fatalf("OpenSQLite() reopen error = %v", err)
	}
	defer s.Close()
	s.Commit(ctx, 3)
	if id, _ := s.RunID(ctx); id != "run-1" {
		t.Errorf("RunID() after lower commit = %q, want run-1", id)
	}
	s.Commit(ctx, 6)
	if id, _ := s.RunID(ctx); id != "run-2" {
		t.Errorf("RunID() after higher commit = %q, want run-2", id)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "books.checkpoint")
	if err := os.WriteFile(path, []byte("twelve"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	if _, err := s.Load(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load() error = %v, want ErrCorrupt", err)
	}
	// A commit repairs the file.
	if err := s.Commit(ctx, 7); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if pos, err := s.Load(ctx); err != nil || pos != 7 {
		t.Errorf("Load() = %d, %v; want 7", pos, err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Config{Backend: "redis"}, "books", ""); err == nil {
		t.Error("Open() error = nil, want error")
	}
}
