// Package extract implements the Extractor interface.
// It isolates the article prose of an encyclopedia page by:
//  1. Finding the best content container (.mw-parser-output, <main>, <article> or <body>)
//  2. Removing noise elements (infoboxes, references, navigation boxes, scripts, etc.)
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before extraction. Their text would leak
// stray years (citations, navboxes) into the death-year search.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"img", "picture", "figure", "figcaption",
	"sup.reference", ".reference", ".references", ".reflist",
	".mw-editsection", ".navbox", ".vertical-navbox", ".sidebar",
	".hatnote", ".metadata", ".ambox", ".mw-references-wrap",
	"table.infobox", "table.vcard",
}

var containers = []string{".mw-parser-output", "main", "article", "body"}

// HTMLExtractor strips noise from HTML and returns the main content fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract takes raw HTML and returns a cleaned HTML fragment containing
// only the main content.
func (e *HTMLExtractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, sel := range containers {
		found := doc.Find(sel)
		if found.Length() > 0 {
			content = found.First()
			break
		}
	}
	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	result, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return result, nil
}
