package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gaurav-prasanna/paperback/core"
	"github.com/nguyenthenguyen/docx"
)

// ContentPlaceholder marks the paragraph of a Word template that is
// replaced by the book.
const ContentPlaceholder = "{{CONTENT}}"

// DOCXRenderer fills a Word template with a book's title page and segments.
type DOCXRenderer struct {
	template string
}

// NewDOCXRenderer creates a DOCXRenderer. An empty template path uses the
// built-in template.
func NewDOCXRenderer(l Layout) *DOCXRenderer {
	return &DOCXRenderer{template: l.WordTemplate}
}

// Extension returns the file extension for Word output.
func (r *DOCXRenderer) Extension() string {
	return ".docx"
}

// Render implements core.Renderer. Pages is left at zero; Word paginates
// on open.
func (r *DOCXRenderer) Render(v core.Volume) (*core.Rendered, error) {
	tmpl, err := r.load()
	if err != nil {
		return nil, err
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(tmpl), int64(len(tmpl)))
	if err != nil {
		return nil, fmt.Errorf("reading Word template: %w", err)
	}
	defer doc.Close()

	body := wordBody(v)
	editable := doc.Editable()
	if !strings.Contains(editable.GetContent(), ContentPlaceholder) {
		return nil, fmt.Errorf("template %q has no %s placeholder", r.template, ContentPlaceholder)
	}
	// Close the placeholder's paragraph, insert ours, and reopen an empty one
	// so the template's own closing tags still balance.
	editable.ReplaceRaw(ContentPlaceholder, "</w:t></w:r></w:p>"+body+"<w:p><w:r><w:t>", 1)

	var buf bytes.Buffer
	if err := editable.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing Word document: %w", err)
	}
	return &core.Rendered{Data: buf.Bytes()}, nil
}

func (r *DOCXRenderer) load() ([]byte, error) {
	if r.template == "" {
		var buf bytes.Buffer
		if err := WriteTemplate(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := os.ReadFile(r.template)
	if err != nil {
		return nil, fmt.Errorf("reading Word template: %w", err)
	}
	return data, nil
}

func wordBody(v core.Volume) string {
	var b strings.Builder
	for i, book := range v.Books {
		if i > 0 {
			b.WriteString(pageBreak)
		}
		b.WriteString(wordParagraph(book.Meta.Title, `<w:jc w:val="center"/>`, `<w:b/><w:sz w:val="44"/>`))
		if by := byline(book.Meta); by != "" {
			b.WriteString(wordParagraph(by, `<w:jc w:val="center"/>`, `<w:sz w:val="28"/>`))
		}
		if book.Meta.Translator != "" {
			b.WriteString(wordParagraph("Translated by "+book.Meta.Translator, `<w:jc w:val="center"/>`, `<w:sz w:val="24"/>`))
		}
		for _, s := range sections(book.Segments) {
			b.WriteString(pageBreak)
			if s.lines {
				for _, line := range strings.Split(s.text, "\n") {
					b.WriteString(wordParagraph(line, "", ""))
				}
				continue
			}
			for _, p := range paragraphs(s.text) {
				b.WriteString(wordParagraph(p, `<w:jc w:val="both"/>`, ""))
			}
		}
	}
	return b.String()
}

const pageBreak = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

func wordParagraph(text, pPr, rPr string) string {
	var esc bytes.Buffer
	xml.EscapeText(&esc, []byte(text))

	var b strings.Builder
	b.WriteString("<w:p>")
	if pPr != "" {
		b.WriteString("<w:pPr>" + pPr + "</w:pPr>")
	}
	b.WriteString("<w:r>")
	if rPr != "" {
		b.WriteString("<w:rPr>" + rPr + "</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.Write(esc.Bytes())
	b.WriteString("</w:t></w:r></w:p>")
	return b.String()
}

// WriteTemplate writes a minimal Word template holding only the content
// placeholder, on a 6×9 in page.
func WriteTemplate(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, part := range templateParts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("writing template part %s: %w", part.name, err)
		}
		if _, err := io.WriteString(f, part.body); err != nil {
			return fmt.Errorf("writing template part %s: %w", part.name, err)
		}
	}
	return zw.Close()
}

var templateParts = []struct{ name, body string }{
	{"[Content_Types].xml", xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`},
	{"_rels/.rels", xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`},
	{"word/_rels/document.xml.rels", xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
	{"word/document.xml", xml.Header + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>` + ContentPlaceholder + `</w:t></w:r></w:p>` +
		// 8640×12960 twips is 6×9 in.
		`<w:sectPr><w:pgSz w:w="8640" w:h="12960"/><w:pgMar w:top="1080" w:right="1080" w:bottom="1080" w:left="1080" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>` +
		`</w:body></w:document>`},
}
