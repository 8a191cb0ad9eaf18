// Package normalize implements the Normalizer interface.
// It converts cleaned HTML into plain prose for pattern searches, going
// through Markdown and then dropping the Markdown markup.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var (
	mdLink     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	mdEmphasis = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_\n]+)(\*{1,3}|_{1,3})`)
	mdHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
)

// TextNormalizer converts HTML to plain text using html-to-markdown.
type TextNormalizer struct{}

// New creates a TextNormalizer.
func New() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize converts a cleaned HTML fragment into plain text with
// paragraphs separated by blank lines.
func (n *TextNormalizer) Normalize(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return StripMarkdown(markdown), nil
}

// StripMarkdown removes link, emphasis and heading markup, keeping the text.
func StripMarkdown(md string) string {
	md = mdLink.ReplaceAllString(md, "$1")
	md = mdEmphasis.ReplaceAllString(md, "$2")
	md = mdHeading.ReplaceAllString(md, "")
	md = blankRuns.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}
