package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultOpenLibraryURL is the Open Library API root.
const DefaultOpenLibraryURL = "https://openlibrary.org"

type olSearch struct {
	Docs []struct {
		FirstPublishYear int      `json:"first_publish_year"`
		AuthorKey        []string `json:"author_key"`
	} `json:"docs"`
}

type olAuthor struct {
	DeathDate string `json:"death_date"`
}

// OpenLibrary reports the first publication year of a work and its
// author's year of death.
type OpenLibrary struct {
	client  JSONGetter
	baseURL string
}

// NewOpenLibrary creates an OpenLibrary provider.
func NewOpenLibrary(client JSONGetter, baseURL string) *OpenLibrary {
	if baseURL == "" {
		baseURL = DefaultOpenLibraryURL
	}
	return &OpenLibrary{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements core.MetadataProvider.
func (o *OpenLibrary) Name() string { return "openlibrary" }

// Lookup implements core.MetadataProvider.
func (o *OpenLibrary) Lookup(ctx context.Context, title, author string) (map[string]string, error) {
	q := url.Values{}
	q.Set("title", title)
	if author != "" {
		q.Set("author", author)
	}
	q.Set("fields", "first_publish_year,author_key")
	q.Set("limit", "1")

	var search olSearch
	if err := o.client.GetJSON(ctx, o.baseURL+"/search.json?"+q.Encode(), &search); err != nil {
		return nil, fmt.Errorf("open library search: %w", err)
	}
	if len(search.Docs) == 0 {
		return nil, ErrNoMatch
	}

	doc := search.Docs[0]
	out := make(map[string]string)
	if doc.FirstPublishYear > 0 {
		out[KeyOpenLibraryYear] = strconv.Itoa(doc.FirstPublishYear)
	}
	if len(doc.AuthorKey) == 0 {
		return out, nil
	}

	var a olAuthor
	if err := o.client.GetJSON(ctx, o.baseURL+"/authors/"+url.PathEscape(doc.AuthorKey[0])+".json", &a); err != nil {
		return out, nil
	}
	if y := yearOf(a.DeathDate); y != "" {
		out[KeyOpenLibraryDeath] = y
	}
	return out, nil
}
