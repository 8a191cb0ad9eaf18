package segment

import (
	"regexp"
	"strings"
)

// paragraphToken protects paragraph breaks while single newlines collapse.
const paragraphToken = "\uE000"

var (
	paragraphRun = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)
	italics      = regexp.MustCompile(`_+`)
	dashes       = regexp.MustCompile(`-{2,}`)
	spaces       = regexp.MustCompile(`[ \t]{2,}|\t`)
	breakPadding = regexp.MustCompile(`[ \t]*\n\n(?:[ \t]*\n\n)*[ \t]*`)
)

// NormalizeLineEndings converts CRLF pairs and stray carriage returns to
// single newlines.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// NormalizeWhitespace reflows a segment: every blank-line run becomes one
// paragraph break, single newlines become spaces, italics underscores are
// dropped, dash and space runs are collapsed. Breaks are tokenized before
// the collapse and restored after it, so a collapsed space never merges two
// paragraphs. The transform is idempotent.
func NormalizeWhitespace(s string) string {
	s = NormalizeLineEndings(s)
	s = strings.ReplaceAll(s, paragraphToken, "")
	s = paragraphRun.ReplaceAllLiteralString(s, paragraphToken)
	s = strings.ReplaceAll(s, "\n", " ")
	s = italics.ReplaceAllLiteralString(s, "")
	s = dashes.ReplaceAllLiteralString(s, "-")
	s = spaces.ReplaceAllLiteralString(s, " ")
	s = strings.ReplaceAll(s, paragraphToken, "\n\n")
	s = breakPadding.ReplaceAllLiteralString(s, "\n\n")
	return strings.TrimSpace(s)
}
