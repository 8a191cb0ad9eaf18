package segment

import (
	"fmt"
	"regexp"
	"strings"
)

// Vocabulary lists the heading tokens, as regular-expression fragments,
// that locate structural sections.
type Vocabulary struct {
	Contents          []string `mapstructure:"contents" yaml:"contents"`
	Preface           []string `mapstructure:"preface" yaml:"preface"`
	BackMatter        []string `mapstructure:"back_matter" yaml:"back_matter"`
	IllustrationLists []string `mapstructure:"illustration_lists" yaml:"illustration_lists"`
}

// DefaultVocabulary covers English, French, Spanish, German and Italian
// editions.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Contents: []string{
			`table\s+of\s+contents`, `list\s+of\s+contents`, `contents`, `content`,
			`chapters`, `file\s+numbers`,
			`table\s+des\s+mati[eè]res`, `liste\s+des\s+mati[eè]res`, `contenu`,
			`tabla\s+de\s+contenidos`, `contenidos`, `[íi]ndice`, `cap[íi]tulos`,
			`inhalt`, `inhaltsverzeichnis`, `indice`, `sommario`,
		},
		Preface: []string{
			`preface`, `foreword`, `prefatory\s+note`,
			`pr[ée]face`, `vorwort`, `pr[óo]logo`, `prefacio`, `prefazione`,
		},
		BackMatter: []string{
			`index`, `index\s+to\s+letters`, `general\s+index`, `appendix`, `appendices`,
		},
		IllustrationLists: []string{
			`list\s+of\s+illustrations`, `illustrations\s+(?:of|to|in)\s+vol(?:ume|\.)?(?:\s+[ivxlc\d]+)?`,
			`list\s+of\s+plates`, `plates\s+(?:of|to|in)\s+vol(?:ume|\.)?(?:\s+[ivxlc\d]+)?`,
		},
	}
}

func (v Vocabulary) withDefaults(def Vocabulary) Vocabulary {
	if len(v.Contents) == 0 {
		v.Contents = def.Contents
	}
	if len(v.Preface) == 0 {
		v.Preface = def.Preface
	}
	if len(v.BackMatter) == 0 {
		v.BackMatter = def.BackMatter
	}
	if len(v.IllustrationLists) == 0 {
		v.IllustrationLists = def.IllustrationLists
	}
	return v
}

type compiledVocabulary struct {
	contents      *regexp.Regexp
	contentsOf    *regexp.Regexp
	preface       *regexp.Regexp
	backMatter    *regexp.Regexp
	illustrations []*regexp.Regexp
}

var contentsOf = regexp.MustCompile(`(?i)\b(?:contents?|chapters|file\s+numbers)[:.]?\s+of\b`)

// headingPattern matches a line holding only one of tokens, optionally
// wrapped in italics underscores and followed by ":" or ".", then at least
// one blank line.
func headingPattern(tokens []string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?im)^[ \t]*_?(?:` + strings.Join(tokens, "|") + `)_?[ \t]*[:.]?[ \t]*_?[ \t]*\n{2,}`)
}

// linePattern matches a line holding only token.
func linePattern(token string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?im)^[ \t]*_?(?:` + token + `)_?[ \t]*[:.]?[ \t]*$`)
}

func (v Vocabulary) compile() (compiledVocabulary, error) {
	c := compiledVocabulary{contentsOf: contentsOf}
	var err error
	if c.contents, err = headingPattern(v.Contents); err != nil {
		return c, fmt.Errorf("contents vocabulary: %w", err)
	}
	if c.preface, err = headingPattern(v.Preface); err != nil {
		return c, fmt.Errorf("preface vocabulary: %w", err)
	}
	if c.backMatter, err = headingPattern(v.BackMatter); err != nil {
		return c, fmt.Errorf("back-matter vocabulary: %w", err)
	}
	for _, token := range v.IllustrationLists {
		re, err := linePattern(token)
		if err != nil {
			return c, fmt.Errorf("illustration-list vocabulary %q: %w", token, err)
		}
		c.illustrations = append(c.illustrations, re)
	}
	return c, nil
}
