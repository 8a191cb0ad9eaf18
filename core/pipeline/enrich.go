package pipeline

import (
	"context"

	"github.com/gaurav-prasanna/paperback/core/sheet"
)

// Enrichment input columns.
const (
	ColReferenceID = "reference_id"
	ColAuthor      = "author"

	// colLegacyID is the id column of older title exports.
	colLegacyID = "_id"
)

// Enrich asks the model for the publication year and the author's year of
// death of one input record. It never fails; unknown years are
// llm.NoYear.
func (p *Pipeline) Enrich(ctx context.Context, rec map[string]string) sheet.EnrichmentRow {
	title, author := rec[ColTitle], rec[ColAuthor]
	id := rec[ColReferenceID]
	if id == "" {
		id = rec[colLegacyID]
	}
	return sheet.EnrichmentRow{
		ReferenceID:   id,
		Title:         title,
		Author:        author,
		PublishedYear: p.Copy.PublishedYear(ctx, title, author),
		DeathYear:     p.Copy.AuthorDeathYear(ctx, title, author),
	}
}
