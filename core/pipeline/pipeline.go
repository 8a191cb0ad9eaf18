// Package pipeline implements the units of work of each batch mode: a
// catalog book, a two-book bundle and a spreadsheet enrichment row.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gaurav-prasanna/paperback/catalog"
	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/fetch"
	"github.com/gaurav-prasanna/paperback/core/llm"
	"github.com/gaurav-prasanna/paperback/core/output"
	"github.com/gaurav-prasanna/paperback/core/policy"
	"github.com/gaurav-prasanna/paperback/core/render"
	"github.com/gaurav-prasanna/paperback/core/segment"
	"go.uber.org/zap"
)

// ErrSkipped is returned for books the run deliberately leaves out.
var ErrSkipped = errors.New("skipped")

// Outputs selects what a books run produces.
type Outputs struct {
	Interior bool
	Cover    bool
	Word     bool
	// Listing adds keywords, subject codes and metadata lookups for the
	// spreadsheet row.
	Listing bool
}

// AllOutputs produces every deliverable.
func AllOutputs() Outputs {
	return Outputs{Interior: true, Cover: true, Word: true, Listing: true}
}

// Pipeline holds the collaborators shared by all units of a run.
type Pipeline struct {
	Fetcher   core.Fetcher
	TextURL   string
	Segmenter *segment.Segmenter
	Policy    *policy.Policy
	Copy      *llm.Copywriter
	Providers []core.MetadataProvider
	Layout    render.Layout
	Interior  core.Renderer
	Cover     core.Renderer
	Word      core.Renderer
	Out       *output.Writer
	Outputs   Outputs
	Log       *zap.Logger
}

// LoadBook fetches a catalog text and segments it. It applies no policy.
func (p *Pipeline) LoadBook(ctx context.Context, id int) (core.Book, error) {
	url := catalog.TextURL(p.TextURL, id)
	res, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return core.Book{}, fmt.Errorf("fetching book %d: %w", id, err)
	}
	meta := segment.ParseHeader(res.Body)
	seg := p.Segmenter.Segment(res.Body, meta.Language)
	p.Log.Debug("book segmented",
		zap.Int("id", id),
		zap.String("title", meta.Title),
		zap.Int("threshold", seg.Detection.Threshold),
		zap.Bool("contents", seg.Detection.Contents),
		zap.Bool("preface", seg.Detection.Preface),
		zap.Bool("back_matter", seg.Detection.BackMatter),
		zap.Strings("noise", seg.Detection.Noise))
	return core.Book{ID: id, URL: url, Meta: meta, Segments: seg}, nil
}

// bookID is the file name stem for a book's deliverables.
func bookID(id int) string {
	return strconv.Itoa(id)
}

// notFound reports whether err is a missing catalog entry.
func notFound(err error) bool {
	return errors.Is(err, fetch.ErrNotFound)
}
