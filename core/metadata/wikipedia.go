package metadata

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/paperback/core"
)

// DefaultWikipediaURL is the English Wikipedia action API.
const DefaultWikipediaURL = "https://en.wikipedia.org/w/api.php"

var deathPattern = regexp.MustCompile(`(?i)\b(?:died|death)\b(?:\s+(?:on|in))?[^\d.]{0,30}(?:\d{1,2}(?:st|nd|rd|th)?[^\d.]{0,12})?(\d{4})\b`)

type wpSearch struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wpParse struct {
	Parse struct {
		Text map[string]string `json:"text"`
	} `json:"parse"`
}

// Wikipedia reads an author's year of death from their article prose.
type Wikipedia struct {
	client     JSONGetter
	extractor  core.Extractor
	normalizer core.Normalizer
	apiURL     string
}

// NewWikipedia creates a Wikipedia provider.
func NewWikipedia(client JSONGetter, extractor core.Extractor, normalizer core.Normalizer, apiURL string) *Wikipedia {
	if apiURL == "" {
		apiURL = DefaultWikipediaURL
	}
	return &Wikipedia{client: client, extractor: extractor, normalizer: normalizer, apiURL: apiURL}
}

// Name implements core.MetadataProvider.
func (w *Wikipedia) Name() string { return "wikipedia" }

// Lookup implements core.MetadataProvider.
func (w *Wikipedia) Lookup(ctx context.Context, _, author string) (map[string]string, error) {
	if strings.TrimSpace(author) == "" {
		return nil, ErrNoMatch
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", author)
	q.Set("srlimit", "1")
	q.Set("format", "json")
	var search wpSearch
	if err := w.client.GetJSON(ctx, w.apiURL+"?"+q.Encode(), &search); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}
	if len(search.Query.Search) == 0 {
		return nil, ErrNoMatch
	}

	q = url.Values{}
	q.Set("action", "parse")
	q.Set("page", search.Query.Search[0].Title)
	q.Set("prop", "text")
	q.Set("redirects", "1")
	q.Set("format", "json")
	var page wpParse
	if err := w.client.GetJSON(ctx, w.apiURL+"?"+q.Encode(), &page); err != nil {
		return nil, fmt.Errorf("wikipedia parse: %w", err)
	}

	fragment, err := w.extractor.Extract(page.Parse.Text["*"])
	if err != nil {
		return nil, err
	}
	text, err := w.normalizer.Normalize(fragment)
	if err != nil {
		return nil, err
	}

	m := deathPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, ErrNoMatch
	}
	return map[string]string{KeyWikipediaDeath: m[1]}, nil
}
