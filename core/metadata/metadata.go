// Package metadata implements best-effort MetadataProviders backed by
// public book and encyclopedia APIs, and Collect, which merges their answers.
package metadata

import (
	"context"
	"errors"
	"regexp"

	"github.com/gaurav-prasanna/paperback/core"
	"go.uber.org/zap"
)

// Result keys.
const (
	KeyGoogleBooksYear  = "google_books_publication_year"
	KeyOpenLibraryYear  = "open_library_publication_year"
	KeyOpenLibraryDeath = "open_library_author_death_year"
	KeyWikidataDeath    = "wikidata_author_death_year"
	KeyWikipediaDeath   = "wikipedia_author_death_year"
)

// Keys lists every key Collect reports, in spreadsheet column order.
var Keys = []string{
	KeyGoogleBooksYear,
	KeyOpenLibraryYear,
	KeyWikidataDeath,
	KeyWikipediaDeath,
	KeyOpenLibraryDeath,
}

// ErrNoMatch is returned when a provider finds nothing for the query.
var ErrNoMatch = errors.New("no match")

// JSONGetter fetches a URL and decodes its JSON body.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, out any) error
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// yearOf returns the first four-digit year in s, or "".
func yearOf(s string) string {
	if m := yearPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// Collect asks every provider about a book and merges the answers. It never
// fails: a provider error is logged and its keys stay core.Unknown.
func Collect(ctx context.Context, log *zap.Logger, providers []core.MetadataProvider, title, author string) map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k] = core.Unknown
	}
	for _, p := range providers {
		res, err := p.Lookup(ctx, title, author)
		if err != nil {
			log.Debug("metadata lookup failed",
				zap.String("provider", p.Name()),
				zap.String("title", title),
				zap.Error(err))
			continue
		}
		for k, v := range res {
			if v != "" {
				out[k] = v
			}
		}
	}
	return out
}
