package segment

import "regexp"

// Rule is one noise deletion. Lead, when positive, restricts the rule to
// that leading fraction of the text. First deletes only the first match.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Lead    float64
	First   bool
}

// nl matches one line break in either convention; noise removal runs before
// line endings are normalized.
const nl = `(?:\r?\n)`

// inPara lazily matches text that does not cross a blank line.
const inPara = `(?:[^\r\n]|\r?\n[^\r\n])*?`

// DefaultNoiseRules returns the illustration, credit, transcriber-note and
// residual-marker deletions. Every rule consumes its trailing blank-line run.
func DefaultNoiseRules() []Rule {
	return []Rule{
		{Name: "illustration", Pattern: regexp.MustCompile(`(?is)\[\s*(?:cover\s+)?(?:illustration|ilustraci[oó]n)[^\]]*\]` + nl + `{2}`)},
		{Name: "credits-pgdp", Pattern: regexp.MustCompile(`(?is)\bproduced\b` + inPara + `\bat\s*(?:https?://)?(?:www\.)?pgdp\.net.*?` + nl + `{3,}`)},
		{Name: "credits-ebooksgratuits", Pattern: regexp.MustCompile(`(?is)\bproduced\b` + inPara + `\bby\b` + inPara + `ebooksgratuits\.com.*?` + nl + `{3,}`)},
		{Name: "etext-credit", Pattern: regexp.MustCompile(`(?is)(?:this\s+)?\be-?(?:text|book)\s*(?:is\s+|was\s+)?(?:produced|prepared)\b.*?` + nl + `{3,}`)},
		{Name: "produced-by", Pattern: regexp.MustCompile(`(?ims)^[ \t]*produced\s+by\b.*?` + nl + `{2,}`), Lead: 0.05, First: true},
		{Name: "transcriber-note", Pattern: regexp.MustCompile(`(?is)\[?\+?(?:-{3,}\+?)?[ \t]*\|?\btranscriber(?:'s|’s)?\s*notes?\b\s*:?.*?` + nl + `{3,}`)},
		{Name: "transcription-note-fr", Pattern: regexp.MustCompile(`(?is)\bnotes?\s+de\s+transcription\s*:.*?` + nl + `{3,}`)},
		{Name: "sidenote", Pattern: regexp.MustCompile(`(?is)\[sidenotes?\s*:.*?` + nl + `{2}`)},
		{Name: "editorial-note", Pattern: regexp.MustCompile(`(?is)\[notes?\s*:.*?` + nl + `{2}`)},
		{Name: "footnote", Pattern: regexp.MustCompile(`(?is)\[footnote[^\]:]{0,20}:.*?\]` + nl + `{2}`)},
		{Name: "gutenberg-marker", Pattern: regexp.MustCompile(`(?is)\*{0,3}[ \t]*\b(?:start|end)\s*of\s*(?:the\s+|this\s+)?project\s*gutenberg.*?` + nl + `{2,}`)},
	}
}

// RemoveNoise deletes every match of rules from text and returns the names
// of the rules that fired.
func RemoveNoise(text string, rules []Rule) (string, []string) {
	var fired []string
	for _, r := range rules {
		n := len(text)
		if r.Lead > 0 {
			n = int(float64(len(text)) * r.Lead)
		}
		head := text[:n]
		cleaned := r.apply(head)
		if cleaned != head {
			text = cleaned + text[n:]
			fired = append(fired, r.Name)
		}
	}
	return text, fired
}

func (r Rule) apply(text string) string {
	if !r.First {
		return r.Pattern.ReplaceAllLiteralString(text, "")
	}
	loc := r.Pattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + text[loc[1]:]
}
