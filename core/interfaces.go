// Package core defines the pipeline types and interfaces for paperback.
// Each collaborator of the segmenter is a small, testable interface.
package core

import (
	"context"

	"github.com/gaurav-prasanna/paperback/core/segment"
)

// Unknown is the value recorded when a lookup has no answer.
const Unknown = "N/A"

// FetchResult holds a fetched response body and its status.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       string
}

// Book is one catalog entry after fetching and segmentation.
type Book struct {
	ID       int              `json:"id"`
	URL      string           `json:"url"`
	Meta     segment.Metadata `json:"metadata"`
	Segments segment.Book     `json:"segments"`
}

// Volume is what a Renderer lays out: a single book, or a bundle of books
// under a shared title.
type Volume struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Books       []Book `json:"books"`
	// Pages is the interior page count, known once the interior is rendered.
	// Covers are sized from it.
	Pages int `json:"pages,omitempty"`
}

// IsBundle reports whether the volume holds more than one book.
func (v Volume) IsBundle() bool {
	return len(v.Books) > 1
}

// Rendered is a renderer's output. Pages is 0 when the format is not
// paginated by the renderer (Word paginates on open).
type Rendered struct {
	Data  []byte
	Pages int
}

// Prompt is a single text-generation request. A zero Temperature leaves
// the model default.
type Prompt struct {
	System      string
	User        string
	Temperature float32
}

// Fetcher retrieves a document from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor pulls the main content from raw HTML, stripping noise.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts cleaned HTML into plain text.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// MetadataProvider looks up best-effort facts about a book. Keys it cannot
// answer are omitted or set to Unknown.
type MetadataProvider interface {
	Name() string
	Lookup(ctx context.Context, title, author string) (map[string]string, error)
}

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// Renderer lays out a volume in one output format.
type Renderer interface {
	Render(v Volume) (*Rendered, error)
	// Extension returns the file extension for this renderer (e.g. ".pdf").
	Extension() string
}

// CheckpointStore persists the last processed position of a batch run.
type CheckpointStore interface {
	Load(ctx context.Context) (int, error)
	Commit(ctx context.Context, position int) error
	Close() error
}
