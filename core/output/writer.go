// Package output handles the run folder layout and file naming for
// paperback deliverables.
//
// A run writes into output_dir/<Month-Year>/, with one subfolder per kind
// of deliverable:
//
//	interior/  <id>_paperback_interior.pdf
//	cover/     <id>_paperback_cover.pdf
//	word/      <id>_paperback_interior.docx
//	bundles/   <bundle>_bundle_interior.pdf
//	segments/  <id>.json, <id>.md
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind is a deliverable type; each kind has its own subfolder.
type Kind string

const (
	Interior Kind = "interior"
	Cover    Kind = "cover"
	Word     Kind = "word"
	Bundle   Kind = "bundles"
	Segments Kind = "segments"
)

var kinds = []Kind{Interior, Cover, Word, Bundle, Segments}

// Writer writes rendered output to a run folder.
type Writer struct {
	RunDir string
}

// RunFolder returns the run folder name for t, e.g. "October-2026".
func RunFolder(t time.Time) string {
	return t.Format("January-2006")
}

// New creates a Writer for the run folder of now under outputDir, creating
// every subfolder. If outputDir is empty, the working directory is used.
func New(outputDir string, now time.Time) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	runDir := filepath.Join(outputDir, RunFolder(now))
	for _, k := range kinds {
		if err := os.MkdirAll(filepath.Join(runDir, string(k)), 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	return &Writer{RunDir: runDir}, nil
}

// FileName returns the deliverable file name for id and kind, with ext
// (".pdf", ".docx", ...).
func FileName(id string, kind Kind, ext string) string {
	id = sanitize(id)
	switch kind {
	case Interior, Word:
		return id + "_paperback_interior" + ext
	case Cover:
		return id + "_paperback_cover" + ext
	case Bundle:
		return id + "_bundle_interior" + ext
	default:
		return id + ext
	}
}

// Write stores data as the deliverable for id and returns the file name
// relative to its subfolder.
func (w *Writer) Write(id string, kind Kind, ext string, data []byte) (string, error) {
	name := FileName(id, kind, ext)
	path := filepath.Join(w.RunDir, string(kind), name)

	// Deliverables appear atomically.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return name, nil
}

// Path returns the absolute location of a named file of kind.
func (w *Writer) Path(kind Kind, name string) string {
	return filepath.Join(w.RunDir, string(kind), name)
}

// sanitize replaces characters outside letters, digits, '-' and '_' with
// underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
