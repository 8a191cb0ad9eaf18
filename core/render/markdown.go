package render

import (
	"strings"

	"github.com/gaurav-prasanna/paperback/core"
)

// MarkdownRenderer writes a reading copy of a volume. Segments are already
// paragraph-separated plain text, so only titles and rules are added.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render implements core.Renderer.
func (r *MarkdownRenderer) Render(v core.Volume) (*core.Rendered, error) {
	var b strings.Builder
	heading := "# "
	if v.IsBundle() {
		b.WriteString("# " + v.Title + "\n\n")
		if a := authors(v); a != "" {
			b.WriteString("By " + a + "\n\n")
		}
		heading = "## "
	}
	for i, book := range v.Books {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		b.WriteString(heading + book.Meta.Title + "\n\n")
		if by := byline(book.Meta); by != "" {
			b.WriteString("*" + by + "*\n\n")
		}
		for _, s := range sections(book.Segments) {
			b.WriteString("---\n\n")
			text := s.text
			if s.lines {
				// Hard line breaks keep contents entries apart.
				text = strings.ReplaceAll(text, "\n", "  \n")
			}
			b.WriteString(text + "\n\n")
		}
	}
	return &core.Rendered{Data: []byte(b.String())}, nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
