package segment

import (
	"regexp"
	"strings"
)

var (
	pageWord = regexp.MustCompile(`(?i)\bpages?\b\.?`)
	// divisionLine marks entries whose trailing numerals are part of the title.
	divisionLine = regexp.MustCompile(`(?i)^(?:chapter|part|volume)\b`)
	pageNumber   = regexp.MustCompile(`[ \t.,·…]*[ \t.,·…](?:\d+|[ivxlc]+)\.?$`)
)

// CleanContents tidies a raw contents block: the heading line is kept on
// top, the words "page"/"pages" are dropped, blank lines are collapsed and
// trailing page numbers are stripped from every entry except chapter, part
// and volume lines.
func (s *Segmenter) CleanContents(raw string) string {
	raw = NormalizeLineEndings(raw)
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	var out []string
	if loc := s.vocab.contents.FindStringIndex(raw); loc != nil {
		if heading := strings.TrimRight(tidyLine(raw[loc[0]:loc[1]]), ":."); heading != "" {
			out = append(out, heading)
		}
		raw = raw[:loc[0]] + raw[loc[1]:]
	}
	raw = pageWord.ReplaceAllLiteralString(raw, "")

	for _, line := range strings.Split(raw, "\n") {
		line = tidyLine(line)
		if line != "" && !divisionLine.MatchString(line) {
			line = strings.TrimSpace(pageNumber.ReplaceAllLiteralString(line, ""))
		}
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func tidyLine(line string) string {
	line = italics.ReplaceAllLiteralString(line, "")
	line = dashes.ReplaceAllLiteralString(line, "-")
	line = spaces.ReplaceAllLiteralString(line, " ")
	return strings.TrimSpace(line)
}
