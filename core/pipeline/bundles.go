package pipeline

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/output"
	"github.com/gaurav-prasanna/paperback/core/sheet"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Bundle input columns.
const (
	ColBundleID    = "bundle_id"
	ColTitle       = "title"
	ColDescription = "description"
	ColBook1       = "book1_id"
	ColBook2       = "book2_id"
	ColTitle1      = "title_1"
	ColTitle2      = "title_2"
	ColAuthor1     = "author_1"
	ColAuthor2     = "author_2"
)

// BundleSpec is one bundle definition from the input workbook. Non-empty
// Titles and Authors replace the fetched header values of the matching book.
type BundleSpec struct {
	ID          string
	Title       string
	Description string
	Books       [2]int
	Titles      [2]string
	Authors     [2]string
}

// ParseBundle reads a bundle definition record.
func ParseBundle(rec map[string]string) (BundleSpec, error) {
	spec := BundleSpec{
		ID:          rec[ColBundleID],
		Title:       rec[ColTitle],
		Description: rec[ColDescription],
		Titles:      [2]string{rec[ColTitle1], rec[ColTitle2]},
		Authors:     [2]string{rec[ColAuthor1], rec[ColAuthor2]},
	}
	if spec.ID == "" {
		return spec, fmt.Errorf("bundle record has no %s", ColBundleID)
	}
	for i, col := range []string{ColBook1, ColBook2} {
		n, err := sheet.Int(rec, col)
		if err != nil {
			return spec, fmt.Errorf("bundle %s: %w", spec.ID, err)
		}
		spec.Books[i] = n
	}
	return spec, nil
}

// ProcessBundle fetches both books of a bundle concurrently, tidies their
// contents and lays them out as one interior with a matching cover.
func (p *Pipeline) ProcessBundle(ctx context.Context, spec BundleSpec) (sheet.BundleRow, error) {
	row := sheet.BundleRow{ID: spec.ID, Title: spec.Title, Description: spec.Description}

	books := make([]core.Book, len(spec.Books))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range spec.Books {
		g.Go(func() error {
			b, err := p.LoadBook(gctx, id)
			if err != nil {
				return err
			}
			if t := spec.Titles[i]; t != "" {
				b.Meta.Title = t
			}
			if a := spec.Authors[i]; a != "" {
				b.Meta.Author = a
			}
			b.Segments = p.Policy.Apply(b.Segments)
			b.Segments.Contents = p.Copy.FormatContents(gctx, b.Meta.Title, b.Segments.Contents)
			books[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return row, fmt.Errorf("bundle %s: %w", spec.ID, err)
	}

	vol := core.Volume{Title: spec.Title, Description: spec.Description, Books: books}
	interior, err := p.Interior.Render(vol)
	if err != nil {
		return row, fmt.Errorf("rendering bundle interior: %w", err)
	}
	if err := p.Layout.CheckPages(interior.Pages); err != nil {
		return row, err
	}
	if _, err := p.Out.Write(spec.ID, output.Bundle, p.Interior.Extension(), interior.Data); err != nil {
		return row, err
	}

	vol.Pages = interior.Pages
	cover, err := p.Cover.Render(vol)
	if err != nil {
		return row, fmt.Errorf("rendering bundle cover: %w", err)
	}
	if _, err := p.Out.Write(spec.ID, output.Cover, p.Cover.Extension(), cover.Data); err != nil {
		return row, err
	}

	row.Pages = interior.Pages
	p.Log.Info("bundle rendered", zap.String("id", spec.ID), zap.Int("pages", row.Pages))
	return row, nil
}
