// Package render lays out segmented books as print interiors, covers,
// Word documents and plain JSON or Markdown.
package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/segment"
	"github.com/jung-kurt/gofpdf"
)

// Layout holds trim size, typography and page-range limits shared by
// the renderers. Sizes are in millimetres.
type Layout struct {
	FontDir      string  `mapstructure:"font_dir" yaml:"font_dir"`
	FontFamily   string  `mapstructure:"font_family" yaml:"font_family"`
	FontSize     float64 `mapstructure:"font_size" yaml:"font_size"`
	PageWidth    float64 `mapstructure:"page_width" yaml:"page_width"`
	PageHeight   float64 `mapstructure:"page_height" yaml:"page_height"`
	MinPages     int     `mapstructure:"min_pages" yaml:"min_pages"`
	MaxPages     int     `mapstructure:"max_pages" yaml:"max_pages"`
	WordTemplate string  `mapstructure:"word_template" yaml:"word_template"`
	CoverColor   []int   `mapstructure:"cover_color" yaml:"cover_color,flow"`
}

// DefaultLayout is a 6×9 in trade paperback set in Times.
func DefaultLayout() Layout {
	return Layout{
		FontFamily: "Times",
		FontSize:   11,
		PageWidth:  152.4,
		PageHeight: 228.6,
		MinPages:   24,
		MaxPages:   828,
		CoverColor: []int{250, 249, 222},
	}
}

func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.FontFamily == "" {
		l.FontFamily = d.FontFamily
	}
	if l.FontSize <= 0 {
		l.FontSize = d.FontSize
	}
	if l.PageWidth <= 0 {
		l.PageWidth = d.PageWidth
	}
	if l.PageHeight <= 0 {
		l.PageHeight = d.PageHeight
	}
	if l.MinPages <= 0 {
		l.MinPages = d.MinPages
	}
	if l.MaxPages <= 0 {
		l.MaxPages = d.MaxPages
	}
	if len(l.CoverColor) != 3 {
		l.CoverColor = d.CoverColor
	}
	return l
}

const (
	margin       = 15.0
	bottomMargin = 18.0
)

// section is one renderable block of a book in reading order.
type section struct {
	name string
	text string
	// lines marks text whose single newlines are significant.
	lines bool
}

// sections returns the non-empty printable segments of b in reading order.
// Appendix only names the trailing heading the body was cut at, so it is
// never printed.
func sections(b segment.Book) []section {
	all := []section{
		{name: "Publisher notes", text: b.PublisherNotes},
		{name: "Contents", text: b.Contents, lines: true},
		{name: "Preface", text: b.Preface},
		{name: "Text", text: b.Body},
	}
	out := all[:0]
	for _, s := range all {
		if strings.TrimSpace(s.text) != "" {
			out = append(out, s)
		}
	}
	return out
}

// paragraphs splits normalized text on blank lines.
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// byline is the author credit for a title page.
func byline(meta segment.Metadata) string {
	if meta.Author == "" || meta.Author == core.Unknown {
		return ""
	}
	return "By " + meta.Author
}

// authors joins the distinct authors of a volume with " & ".
func authors(v core.Volume) string {
	if !v.IsBundle() {
		if len(v.Books) == 1 && v.Books[0].Meta.Author != "" {
			return v.Books[0].Meta.Author
		}
		return v.Author
	}
	seen := make(map[string]bool)
	var names []string
	for _, b := range v.Books {
		a := b.Meta.Author
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		names = append(names, a)
	}
	if len(names) == 0 {
		return v.Author
	}
	return strings.Join(names, " & ")
}

// document wraps a gofpdf document with the layout's font and a text
// translator for the core fonts.
type document struct {
	*gofpdf.Fpdf
	layout Layout
	tr     func(string) string
}

func newDocument(l Layout, width, height float64) *document {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
		FontDirStr:     l.FontDir,
	})
	d := &document{Fpdf: pdf, layout: l}

	// A TrueType font in FontDir gives full Unicode coverage; otherwise the
	// core font is used and text is transcoded to cp1252.
	regular := l.FontFamily + ".ttf"
	if l.FontDir != "" && fileExists(filepath.Join(l.FontDir, regular)) {
		bold := l.FontFamily + "-Bold.ttf"
		if !fileExists(filepath.Join(l.FontDir, bold)) {
			bold = regular
		}
		pdf.AddUTF8Font(l.FontFamily, "", regular)
		pdf.AddUTF8Font(l.FontFamily, "B", bold)
		d.tr = func(s string) string { return s }
	} else {
		d.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	return d
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (d *document) font(style string, size float64) {
	d.SetFont(d.layout.FontFamily, style, size)
}

// centred writes lines of text centred on the page, each group separated
// by a small gap, with the block placed at one third of the height.
func (d *document) centred(groups []centredText) {
	w, h := d.GetPageSize()
	textWidth := w - 2*margin

	total := 0.0
	for _, g := range groups {
		d.font(g.style, g.size)
		total += float64(len(d.SplitLines([]byte(d.tr(g.text)), textWidth)))*g.size*0.5 + g.size*0.4
	}
	y := (h - total) / 3
	if y < margin {
		y = margin
	}
	d.SetY(y)
	for _, g := range groups {
		d.font(g.style, g.size)
		d.MultiCell(0, g.size*0.5, d.tr(g.text), "", "C", false)
		d.Ln(g.size * 0.4)
	}
}

type centredText struct {
	text  string
	style string
	size  float64
}
