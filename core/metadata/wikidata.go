package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultWikidataURL is the Wikidata site root.
const DefaultWikidataURL = "https://www.wikidata.org"

// dateOfDeath is the Wikidata property for date of death.
const dateOfDeath = "P570"

type wdSearch struct {
	Search []struct {
		ID string `json:"id"`
	} `json:"search"`
}

type wdEntities struct {
	Entities map[string]struct {
		Claims map[string][]struct {
			Mainsnak struct {
				Datavalue struct {
					Value struct {
						Time string `json:"time"`
					} `json:"value"`
				} `json:"datavalue"`
			} `json:"mainsnak"`
		} `json:"claims"`
	} `json:"entities"`
}

// Wikidata reports an author's year of death from the P570 claim.
type Wikidata struct {
	client  JSONGetter
	baseURL string
}

// NewWikidata creates a Wikidata provider.
func NewWikidata(client JSONGetter, baseURL string) *Wikidata {
	if baseURL == "" {
		baseURL = DefaultWikidataURL
	}
	return &Wikidata{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements core.MetadataProvider.
func (w *Wikidata) Name() string { return "wikidata" }

// Lookup implements core.MetadataProvider.
func (w *Wikidata) Lookup(ctx context.Context, _, author string) (map[string]string, error) {
	if strings.TrimSpace(author) == "" {
		return nil, ErrNoMatch
	}

	q := url.Values{}
	q.Set("action", "wbsearchentities")
	q.Set("search", author)
	q.Set("language", "en")
	q.Set("limit", "1")
	q.Set("format", "json")
	var search wdSearch
	if err := w.client.GetJSON(ctx, w.baseURL+"/w/api.php?"+q.Encode(), &search); err != nil {
		return nil, fmt.Errorf("wikidata search: %w", err)
	}
	if len(search.Search) == 0 {
		return nil, ErrNoMatch
	}

	id := search.Search[0].ID
	var data wdEntities
	if err := w.client.GetJSON(ctx, w.baseURL+"/wiki/Special:EntityData/"+url.PathEscape(id)+".json", &data); err != nil {
		return nil, fmt.Errorf("wikidata entity %s: %w", id, err)
	}

	for _, claim := range data.Entities[id].Claims[dateOfDeath] {
		// Times look like "+1817-07-18T00:00:00Z".
		if t := claim.Mainsnak.Datavalue.Value.Time; len(t) >= 5 {
			if y := yearOf(t[1:5]); y != "" {
				return map[string]string{KeyWikidataDeath: y}, nil
			}
		}
	}
	return nil, ErrNoMatch
}
