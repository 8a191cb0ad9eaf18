package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/checkpoint"
	"github.com/gaurav-prasanna/paperback/core/extract"
	"github.com/gaurav-prasanna/paperback/core/fetch"
	"github.com/gaurav-prasanna/paperback/core/llm"
	"github.com/gaurav-prasanna/paperback/core/metadata"
	"github.com/gaurav-prasanna/paperback/core/normalize"
	"github.com/gaurav-prasanna/paperback/core/output"
	"github.com/gaurav-prasanna/paperback/core/pipeline"
	"github.com/gaurav-prasanna/paperback/core/policy"
	"github.com/gaurav-prasanna/paperback/core/render"
	"github.com/gaurav-prasanna/paperback/core/segment"
	"github.com/gaurav-prasanna/paperback/core/sheet"
)

func newFetcher() *fetch.HTTPFetcher {
	return fetch.New(fetch.Options{
		Timeout:   cfg.Catalog.Timeout,
		UserAgent: cfg.Catalog.UserAgent,
		Attempts:  cfg.Catalog.Retries,
	})
}

func newCopywriter() (*llm.Copywriter, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	gen := llm.NewOpenAI(llm.Options{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		MaxTokens:         cfg.LLM.MaxTokens,
	})
	return llm.NewCopywriter(gen, cfg.LLM.Prompts, cfg.LLM.ExcerptWords, logger)
}

func newProviders(client *fetch.HTTPFetcher) []core.MetadataProvider {
	if !cfg.Catalog.Metadata {
		return nil
	}
	return []core.MetadataProvider{
		metadata.NewGoogleBooks(client, ""),
		metadata.NewOpenLibrary(client, ""),
		metadata.NewWikidata(client, ""),
		metadata.NewWikipedia(client, extract.New(), normalize.New(), ""),
	}
}

// newPipeline wires every collaborator of a books or bundles run.
func newPipeline(outputs pipeline.Outputs) (*pipeline.Pipeline, error) {
	seg, err := segment.New(cfg.Segment)
	if err != nil {
		return nil, err
	}
	copywriter, err := newCopywriter()
	if err != nil {
		return nil, err
	}
	out, err := output.New(cfg.OutputDir, time.Now())
	if err != nil {
		return nil, err
	}
	client := newFetcher()
	return &pipeline.Pipeline{
		Fetcher:   client,
		TextURL:   cfg.Catalog.TextURL,
		Segmenter: seg,
		Policy:    policy.New(cfg.Policy),
		Copy:      copywriter,
		Providers: newProviders(client),
		Layout:    cfg.Render,
		Interior:  render.NewPDFRenderer(cfg.Render),
		Cover:     render.NewCoverRenderer(cfg.Render),
		Word:      render.NewDOCXRenderer(cfg.Render),
		Out:       out,
		Outputs:   outputs,
		Log:       logger,
	}, nil
}

func openCheckpoint(ctx context.Context, name string) (core.CheckpointStore, error) {
	store, err := checkpoint.Open(ctx, cfg.Checkpoint, name, runID)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint %s: %w", name, err)
	}
	return store, nil
}

// workbooks opens the input and output workbooks, sharing one handle when
// they are the same file. The returned close func closes both.
func workbooks(input, out string) (in, dst *sheet.Workbook, closeAll func(), err error) {
	dst, err = sheet.Open(out)
	if err != nil {
		return nil, nil, nil, err
	}
	if sameFile(input, out) {
		return dst, dst, func() { dst.Close() }, nil
	}
	in, err = sheet.Open(input)
	if err != nil {
		dst.Close()
		return nil, nil, nil, err
	}
	return in, dst, func() { in.Close(); dst.Close() }, nil
}

func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	ia, errA := os.Stat(a)
	ib, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ia, ib)
	}
	absA, _ := filepath.Abs(a)
	absB, _ := filepath.Abs(b)
	return absA == absB
}
