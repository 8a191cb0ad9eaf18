package llm

import (
	"fmt"
	"strings"
	"text/template"
)

// Prompts holds the text/template sources for each copywriting request.
// Templates see a promptData value.
type Prompts struct {
	Description   string `mapstructure:"description" yaml:"description"`
	Keywords      string `mapstructure:"keywords" yaml:"keywords"`
	BISAC         string `mapstructure:"bisac" yaml:"bisac"`
	Contents      string `mapstructure:"contents" yaml:"contents"`
	PublishedYear string `mapstructure:"published_year" yaml:"published_year"`
	DeathYear     string `mapstructure:"death_year" yaml:"death_year"`
}

// DefaultPrompts returns the built-in prompt templates.
func DefaultPrompts() Prompts {
	return Prompts{
		Description: `Provide a 150 words description of the classic book "{{.Title}}"` +
			`{{if .Author}} by Author and Writer {{.Author}}{{end}}.` +
			` Do not repeat the title or the author name.` +
			`{{if .Language}} Write the description in this language: {{.Language}}.{{end}}` +
			`{{if .Excerpt}} The book opens as follows: {{.Excerpt}}{{end}}`,
		Keywords: `Give me 7 keywords separated by commas (only the keywords, no numbers nor introductory words)` +
			` that accurately reflect the main themes and genre of the classic book "{{.Title}}" by Author "{{.Author}}".` +
			` Keywords must not be subjective claims about its quality, time-sensitive statements and must not include the word "book".` +
			` Keywords must also not contain words included in the title, the author name nor the following description: {{.Description}}`,
		BISAC: `Give me up to 3 BISAC codes separated by commas (only the code in the official format, not its description and not numbered)` +
			` for the book "{{.Title}}" by Author "{{.Author}}" with description "{{.Description}}", for its correct classification.` +
			` Output format example would be: FIC019000, FIC031010, FIC014000`,
		Contents: `Reformat the following table of contents of the book "{{.Title}}" so that each entry is on its own line,` +
			` without page numbers, dots or leader characters. Keep the entries and their order unchanged.` +
			` Answer with the table of contents only:` + "\n\n{{.Contents}}",
		PublishedYear: `Provide only the year the book "{{.Title}}" by {{.Author}} was first published, in the format YYYY.` +
			` If you do not know it return "----".`,
		DeathYear: `Provide only the year of death for {{.Author}}, author of "{{.Title}}", in the format YYYY.` +
			` If the author is still alive or you do not know it return "----".`,
	}
}

// withDefaults fills empty templates from DefaultPrompts.
func (p Prompts) withDefaults() Prompts {
	d := DefaultPrompts()
	for _, f := range []struct{ v, def *string }{
		{&p.Description, &d.Description},
		{&p.Keywords, &d.Keywords},
		{&p.BISAC, &d.BISAC},
		{&p.Contents, &d.Contents},
		{&p.PublishedYear, &d.PublishedYear},
		{&p.DeathYear, &d.DeathYear},
	} {
		if strings.TrimSpace(*f.v) == "" {
			*f.v = *f.def
		}
	}
	return p
}

type promptData struct {
	Title       string
	Author      string
	Language    string
	Description string
	Excerpt     string
	Contents    string
}

const (
	tmplDescription   = "description"
	tmplKeywords      = "keywords"
	tmplBISAC         = "bisac"
	tmplContents      = "contents"
	tmplPublishedYear = "published_year"
	tmplDeathYear     = "death_year"
)

// compile parses every prompt into one template set.
func (p Prompts) compile() (*template.Template, error) {
	p = p.withDefaults()
	root := template.New("prompts").Option("missingkey=error")
	for name, src := range map[string]string{
		tmplDescription:   p.Description,
		tmplKeywords:      p.Keywords,
		tmplBISAC:         p.BISAC,
		tmplContents:      p.Contents,
		tmplPublishedYear: p.PublishedYear,
		tmplDeathYear:     p.DeathYear,
	} {
		if _, err := root.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parsing %s prompt: %w", name, err)
		}
	}
	return root, nil
}
