package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultGoogleBooksURL is the Google Books API root.
const DefaultGoogleBooksURL = "https://www.googleapis.com/books/v1"

type gbVolumes struct {
	Items []struct {
		VolumeInfo struct {
			PublishedDate string `json:"publishedDate"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// GoogleBooks reports the publication year of the best matching volume.
type GoogleBooks struct {
	client  JSONGetter
	baseURL string
}

// NewGoogleBooks creates a GoogleBooks provider.
func NewGoogleBooks(client JSONGetter, baseURL string) *GoogleBooks {
	if baseURL == "" {
		baseURL = DefaultGoogleBooksURL
	}
	return &GoogleBooks{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements core.MetadataProvider.
func (g *GoogleBooks) Name() string { return "googlebooks" }

// Lookup implements core.MetadataProvider.
func (g *GoogleBooks) Lookup(ctx context.Context, title, author string) (map[string]string, error) {
	query := "intitle:" + title
	if author != "" {
		query += " inauthor:" + author
	}

	var vols gbVolumes
	if err := g.client.GetJSON(ctx, g.baseURL+"/volumes?q="+url.QueryEscape(query), &vols); err != nil {
		return nil, fmt.Errorf("google books search: %w", err)
	}
	for _, item := range vols.Items {
		if y := yearOf(item.VolumeInfo.PublishedDate); y != "" {
			return map[string]string{KeyGoogleBooksYear: y}, nil
		}
	}
	return nil, ErrNoMatch
}
