package segment

import "regexp"

var (
	startSentinel = regexp.MustCompile(`(?i)\*\*\*\s*START\s+OF\s+(?:THE|THIS)\s+PROJECT\s+GUTENBERG[^\n]*?\*\*\*`)
	endSentinel   = regexp.MustCompile(`(?i)\*\*\*\s*END\s+OF\s+(?:THE|THIS)\s+PROJECT\s+GUTENBERG[^\n]*?\*\*\*`)
)

// Boundaries are the offsets of the licensed-boilerplate sentinels in the
// raw text.
type Boundaries struct {
	// HeaderEnd is where the start sentinel begins (0 when absent).
	HeaderEnd  int
	Start      int
	End        int
	StartFound bool
	EndFound   bool
}

// StripBoundaries returns the text strictly between the start and end
// sentinels. A missing start sentinel defaults to offset 0, a missing end
// sentinel to the full length.
func StripBoundaries(raw string) (string, Boundaries) {
	b := Boundaries{End: len(raw)}
	if loc := startSentinel.FindStringIndex(raw); loc != nil {
		b.HeaderEnd = loc[0]
		b.Start = loc[1]
		b.StartFound = true
	}
	if loc := endSentinel.FindStringIndex(raw[b.Start:]); loc != nil {
		b.End = b.Start + loc[0]
		b.EndFound = true
	}
	return raw[b.Start:b.End], b
}
