package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/chunk"
	"go.uber.org/zap"
)

// NoYear is recorded when a year is unknown or not applicable.
const NoYear = "----"

var (
	yearPattern = regexp.MustCompile(`\b(\d{4})\b`)
	listSplit   = regexp.MustCompile(`\s*[;,\n]\s*`)
	listNumber  = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)
)

// authorless names are not real people and get no death year.
var authorless = map[string]bool{
	"":          true,
	"anonymous": true,
	"various":   true,
	"unknown":   true,
	"#n/a":      true,
	"n/a":       true,
}

// Copywriter writes catalog copy for books with a TextGenerator.
type Copywriter struct {
	gen     core.TextGenerator
	tmpl    *template.Template
	chunker *chunk.Chunker
	log     *zap.Logger
}

// NewCopywriter compiles prompts and returns a Copywriter. excerptWords
// sets how much of the body is quoted in the description prompt; zero
// leaves the excerpt out.
func NewCopywriter(gen core.TextGenerator, prompts Prompts, excerptWords int, log *zap.Logger) (*Copywriter, error) {
	tmpl, err := prompts.compile()
	if err != nil {
		return nil, err
	}
	var c *chunk.Chunker
	if excerptWords > 0 {
		c = chunk.New(excerptWords)
	}
	return &Copywriter{gen: gen, tmpl: tmpl, chunker: c, log: log}, nil
}

func (c *Copywriter) ask(ctx context.Context, name string, data promptData, temperature float32) (string, error) {
	var b strings.Builder
	if err := c.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", name, err)
	}
	out, err := c.gen.Generate(ctx, core.Prompt{System: b.String(), Temperature: temperature})
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Description returns a short blurb for the book.
func (c *Copywriter) Description(ctx context.Context, book core.Book) (string, error) {
	data := promptData{
		Title:    book.Meta.Title,
		Author:   book.Meta.Author,
		Language: book.Meta.Language,
	}
	if c.chunker != nil {
		data.Excerpt = c.chunker.Excerpt(book.Segments.Body)
	}
	return c.ask(ctx, tmplDescription, data, 0)
}

// Keywords returns up to seven comma-separated keywords.
func (c *Copywriter) Keywords(ctx context.Context, book core.Book, description string) (string, error) {
	out, err := c.ask(ctx, tmplKeywords, promptData{
		Title:       book.Meta.Title,
		Author:      book.Meta.Author,
		Description: description,
	}, 0)
	if err != nil {
		return "", err
	}
	return joinList(out, 7), nil
}

// BISAC returns up to three comma-separated subject codes.
func (c *Copywriter) BISAC(ctx context.Context, book core.Book, description string) (string, error) {
	out, err := c.ask(ctx, tmplBISAC, promptData{
		Title:       book.Meta.Title,
		Author:      book.Meta.Author,
		Description: description,
	}, 0)
	if err != nil {
		return "", err
	}
	return joinList(strings.ToUpper(out), 3), nil
}

// FormatContents asks the model to tidy a table of contents. On failure
// the heuristic contents are returned unchanged.
func (c *Copywriter) FormatContents(ctx context.Context, title, contents string) string {
	if strings.TrimSpace(contents) == "" {
		return contents
	}
	out, err := c.ask(ctx, tmplContents, promptData{Title: title, Contents: contents}, Deterministic)
	if err != nil {
		c.log.Warn("contents formatting failed, keeping heuristic contents",
			zap.String("title", title), zap.Error(err))
		return contents
	}
	return out
}

// PublishedYear returns the first publication year or NoYear.
func (c *Copywriter) PublishedYear(ctx context.Context, title, author string) string {
	return c.year(ctx, tmplPublishedYear, title, author)
}

// AuthorDeathYear returns the author's year of death, or NoYear for
// anonymous and collective works.
func (c *Copywriter) AuthorDeathYear(ctx context.Context, title, author string) string {
	if authorless[strings.ToLower(strings.TrimSpace(author))] {
		return NoYear
	}
	return c.year(ctx, tmplDeathYear, title, author)
}

func (c *Copywriter) year(ctx context.Context, name, title, author string) string {
	out, err := c.ask(ctx, name, promptData{Title: title, Author: author}, Deterministic)
	if err != nil {
		c.log.Warn("year lookup failed", zap.String("prompt", name), zap.String("title", title), zap.Error(err))
		return NoYear
	}
	if m := yearPattern.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return NoYear
}

// joinList normalizes a model-written list to "a, b, c" with at most limit items.
func joinList(s string, limit int) string {
	var items []string
	for _, item := range listSplit.Split(s, -1) {
		item = strings.Trim(listNumber.ReplaceAllString(strings.TrimSpace(item), ""), `"'. `)
		if item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == limit {
			break
		}
	}
	return strings.Join(items, ", ")
}
