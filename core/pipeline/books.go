package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaurav-prasanna/paperback/catalog"
	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/metadata"
	"github.com/gaurav-prasanna/paperback/core/output"
	"github.com/gaurav-prasanna/paperback/core/sheet"
	"go.uber.org/zap"
)

// RecordBook returns the sheet row for a ProcessBook result and whether it
// is written at all. Skipped books get no row; failures are marked in Error.
func RecordBook(row sheet.BookRow, err error) (sheet.BookRow, bool) {
	switch {
	case errors.Is(err, ErrSkipped):
		return row, false
	case err != nil:
		row.Error = "ERROR: " + err.Error()
	}
	return row, true
}

// ProcessBook turns one catalog entry into its deliverables and sheet row.
// Missing and policy-excluded books return ErrSkipped. On any other
// failure the row is returned filled as far as processing got.
func (p *Pipeline) ProcessBook(ctx context.Context, id int) (sheet.BookRow, error) {
	row := sheet.BookRow{ID: id}

	book, err := p.LoadBook(ctx, id)
	if notFound(err) {
		return row, fmt.Errorf("%w: book %d not in catalog", ErrSkipped, id)
	}
	if err != nil {
		row.URL = catalog.TextURL(p.TextURL, id)
		return row, err
	}
	meta := book.Meta
	row.URL = book.URL
	row.Title = meta.Title
	row.Language = meta.Language
	row.Author = meta.Author
	row.Translator = meta.Translator
	row.Illustrator = meta.Illustrator

	if skip, reason := p.Policy.Skip(meta); skip {
		return row, fmt.Errorf("%w: %s", ErrSkipped, reason)
	}
	book.Segments = p.Policy.Apply(book.Segments)

	description, err := p.Copy.Description(ctx, book)
	if err != nil {
		return row, err
	}
	row.Description = description

	vol := core.Volume{
		Title:       meta.Title,
		Author:      meta.Author,
		Description: description,
		Books:       []core.Book{book},
	}
	if err := p.renderBook(&row, &vol); err != nil {
		return row, err
	}

	if !p.Outputs.Listing {
		return row, nil
	}
	if row.Keywords, err = p.Copy.Keywords(ctx, book, description); err != nil {
		return row, err
	}
	if row.BISAC, err = p.Copy.BISAC(ctx, book, description); err != nil {
		return row, err
	}
	found := metadata.Collect(ctx, p.Log, p.Providers, meta.Title, meta.Author)
	for _, k := range metadata.Keys {
		row.Lookups = append(row.Lookups, found[k])
	}
	return row, nil
}

// renderBook lays out the interior, gates it on page count, and writes the
// selected deliverables. The cover is sized from the interior, so the
// interior is always rendered.
func (p *Pipeline) renderBook(row *sheet.BookRow, vol *core.Volume) error {
	stem := bookID(row.ID)

	interior, err := p.Interior.Render(*vol)
	if err != nil {
		return fmt.Errorf("rendering interior: %w", err)
	}
	row.Pages = interior.Pages
	vol.Pages = interior.Pages
	if err := p.Layout.CheckPages(interior.Pages); err != nil {
		return err
	}

	if p.Outputs.Interior {
		if row.InteriorPDF, err = p.Out.Write(stem, output.Interior, p.Interior.Extension(), interior.Data); err != nil {
			return err
		}
	}
	if p.Outputs.Cover {
		cover, err := p.Cover.Render(*vol)
		if err != nil {
			return fmt.Errorf("rendering cover: %w", err)
		}
		if row.CoverPDF, err = p.Out.Write(stem, output.Cover, p.Cover.Extension(), cover.Data); err != nil {
			return err
		}
	}
	if p.Outputs.Word {
		word, err := p.Word.Render(*vol)
		if err != nil {
			return fmt.Errorf("rendering Word document: %w", err)
		}
		if row.WordFile, err = p.Out.Write(stem, output.Word, p.Word.Extension(), word.Data); err != nil {
			return err
		}
	}
	p.Log.Info("book rendered", zap.Int("id", row.ID), zap.String("title", row.Title), zap.Int("pages", row.Pages))
	return nil
}
