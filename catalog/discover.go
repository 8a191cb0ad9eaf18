// Package catalog discovers catalog entries: the newest release id and the
// ids to process in a run, keeping discovery separate from the book pipeline.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/paperback/core"
)

// DefaultSearchURL lists catalog entries newest first.
const DefaultSearchURL = "https://www.gutenberg.org/ebooks/search/?sort_order=release_date"

// LatestID returns the id of the most recent release listed on searchURL.
func LatestID(ctx context.Context, fetcher core.Fetcher, searchURL string) (int, error) {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	result, err := fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return 0, fmt.Errorf("fetching release list: %w", err)
	}

	links, err := extractBookLinks(result.Body)
	if err != nil {
		return 0, fmt.Errorf("parsing release list: %w", err)
	}
	for _, href := range links {
		if id, ok := IDFromLink(href); ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no book links on %s", searchURL)
}

// Resume returns the ids to process after a checkpoint: from last+1 up to
// latest, capped at limit ids when limit is positive.
func Resume(last, latest, limit int) []int {
	start := last + 1
	end := latest
	if limit > 0 && end-start+1 > limit {
		end = start + limit - 1
	}
	return Range(start, end)
}

// extractBookLinks returns the href of every book entry in document order.
func extractBookLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("li.booklink a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		links = append(links, href)
	})
	return links, nil
}
