// Package policy decides which catalog entries are turned into paperbacks
// and which segments they keep. Every caller of the segmenter applies the
// same Policy.
package policy

import (
	"strings"

	"github.com/gaurav-prasanna/paperback/core/segment"
)

// Reason explains why a book is skipped. The zero value means "keep".
type Reason string

const (
	Keep               Reason = ""
	DeniedLanguage     Reason = "denied language"
	MissingAuthor      Reason = "missing author"
	TranslatedEdition  Reason = "translated edition"
	IllustratedEdition Reason = "illustrated edition"
)

// Config holds the gating rules.
type Config struct {
	// LanguageDenylist entries match case-insensitively. A single language
	// matches any comma-separated part of the label, ignoring a trailing
	// parenthetical, so "latin" denies "Latin, English". An entry holding a
	// comma, such as "French, Dutch", matches the whole label only.
	LanguageDenylist []string `mapstructure:"language_denylist" yaml:"language_denylist"`
	// NotesLanguages lists languages whose publisher notes are dropped.
	NotesLanguages  []string `mapstructure:"notes_languages" yaml:"notes_languages"`
	RequireAuthor   bool     `mapstructure:"require_author" yaml:"require_author"`
	SkipTranslated  bool     `mapstructure:"skip_translated" yaml:"skip_translated"`
	SkipIllustrated bool     `mapstructure:"skip_illustrated" yaml:"skip_illustrated"`
}

// DefaultConfig returns the catalog policy.
func DefaultConfig() Config {
	return Config{
		LanguageDenylist: []string{
			"hungarian", "romanian", "esperanto", "latin", "greek", "tagalog",
			"japanese", "slovenian", "telugu", "gaelic, scottish",
			"french, dutch", "english, spanish", "ojibwa",
		},
		NotesLanguages:  []string{"english"},
		RequireAuthor:   true,
		SkipTranslated:  true,
		SkipIllustrated: true,
	}
}

// Policy applies a Config.
type Policy struct {
	cfg Config
}

// New creates a Policy.
func New(cfg Config) *Policy {
	return &Policy{cfg: cfg}
}

// Skip reports whether a book should be left out of the catalog, and why.
// It looks at header metadata only, never at segmentation output.
func (p *Policy) Skip(meta segment.Metadata) (bool, Reason) {
	if p.deniedLanguage(meta.Language) {
		return true, DeniedLanguage
	}
	if p.cfg.RequireAuthor && strings.TrimSpace(meta.Author) == "" {
		return true, MissingAuthor
	}
	if p.cfg.SkipTranslated && strings.TrimSpace(meta.Translator) != "" {
		return true, TranslatedEdition
	}
	if p.cfg.SkipIllustrated && strings.TrimSpace(meta.Illustrator) != "" {
		return true, IllustratedEdition
	}
	return false, Keep
}

func (p *Policy) deniedLanguage(language string) bool {
	lang := normalizeLanguage(language)
	if lang == "" {
		return false
	}
	parts := languageParts(lang)
	for _, entry := range p.cfg.LanguageDenylist {
		denied := normalizeLanguage(entry)
		if lang == denied {
			return true
		}
		if strings.Contains(denied, ",") {
			continue
		}
		for _, part := range parts {
			if part == denied {
				return true
			}
		}
	}
	return false
}

// languageParts splits a normalized label such as "greek, ancient (to 1453)"
// into its languages, dropping parentheticals.
func languageParts(lang string) []string {
	var parts []string
	for _, part := range strings.Split(lang, ",") {
		if i := strings.Index(part, "("); i >= 0 {
			part = part[:i]
		}
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// KeepPublisherNotes reports whether publisher notes survive for language.
// English notes are digitization boilerplate; other editions often carry
// translator or editor notes worth keeping.
func (p *Policy) KeepPublisherNotes(language string) bool {
	lang := normalizeLanguage(language)
	for _, l := range p.cfg.NotesLanguages {
		if lang == normalizeLanguage(l) {
			return false
		}
	}
	return true
}

// Apply drops the segments the policy excludes for book's language.
func (p *Policy) Apply(book segment.Book) segment.Book {
	if !p.KeepPublisherNotes(book.Language) {
		book.PublisherNotes = ""
	}
	return book
}

func normalizeLanguage(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
