package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/paperback/core"
)

// PDFRenderer lays out print interiors: a single book, or a bundle with a
// shared title page and a list of featured books.
type PDFRenderer struct {
	layout Layout
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(l Layout) *PDFRenderer {
	return &PDFRenderer{layout: l.withDefaults()}
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// Render lays out v and reads the page count back from the produced file.
func (r *PDFRenderer) Render(v core.Volume) (*core.Rendered, error) {
	if len(v.Books) == 0 {
		return nil, fmt.Errorf("volume %q has no books", v.Title)
	}

	var d *interior
	if v.IsBundle() {
		// The featured-books page lists start pages, which are only known
		// after layout. Both passes produce the same pagination.
		first := r.bundle(v, nil)
		if err := first.Error(); err != nil {
			return nil, fmt.Errorf("laying out bundle: %w", err)
		}
		d = r.bundle(v, first.starts)
	} else {
		d = r.single(v.Books[0])
	}

	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	pages, err := PageCount(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return &core.Rendered{Data: buf.Bytes(), Pages: pages}, nil
}

// interior is a document being laid out, with the bookkeeping for
// footers and bundle start pages.
type interior struct {
	*document
	blank         map[int]bool
	firstNumbered int
	starts        []int
}

func (r *PDFRenderer) newInterior(firstNumbered int) *interior {
	d := &interior{
		document:      newDocument(r.layout, r.layout.PageWidth, r.layout.PageHeight),
		blank:         make(map[int]bool),
		firstNumbered: firstNumbered,
	}
	d.SetFooterFunc(func() {
		n := d.PageNo()
		if n < d.firstNumbered || d.blank[n] {
			return
		}
		d.SetY(-12)
		d.font("", d.layout.FontSize-2)
		d.CellFormat(0, 6, strconv.Itoa(n), "", 0, "C", false, 0, "")
	})
	return d
}

func (r *PDFRenderer) single(b core.Book) *interior {
	d := r.newInterior(2)
	d.titlePage(b)
	d.segments(b)
	return d
}

func (r *PDFRenderer) bundle(v core.Volume, starts []int) *interior {
	const frontPages = 4
	d := r.newInterior(frontPages + 1)

	d.AddPage()
	d.centred([]centredText{
		{text: v.Title, style: "B", size: 22},
		{text: "By " + authors(v), style: "", size: 14},
	})
	d.blankPage()

	d.AddPage()
	d.font("B", 16)
	d.MultiCell(0, 9, d.tr("Featured books"), "", "C", false)
	d.Ln(8)
	for i, b := range v.Books {
		page := ""
		if i < len(starts) {
			page = strconv.Itoa(starts[i])
		}
		d.font("", d.layout.FontSize+1)
		d.CellFormat(d.layout.PageWidth-2*margin-15, 7, d.tr(b.Meta.Title), "", 0, "L", false, 0, "")
		d.CellFormat(15, 7, page, "", 1, "R", false, 0, "")
		if by := byline(b.Meta); by != "" {
			d.font("", d.layout.FontSize-1)
			d.MultiCell(0, 5, d.tr(by), "", "L", false)
		}
		d.Ln(4)
	}
	d.blankPage()

	for i, b := range v.Books {
		if i > 0 {
			d.blankPage()
		}
		d.starts = append(d.starts, d.PageNo()+1)
		d.titlePage(b)
		d.segments(b)
	}
	return d
}

func (d *interior) blankPage() {
	d.AddPage()
	d.blank[d.PageNo()] = true
}

func (d *interior) titlePage(b core.Book) {
	d.AddPage()
	groups := []centredText{{text: b.Meta.Title, style: "B", size: 22}}
	if by := byline(b.Meta); by != "" {
		groups = append(groups, centredText{text: by, size: 14})
	}
	if b.Meta.Translator != "" {
		groups = append(groups, centredText{text: "Translated by " + b.Meta.Translator, size: 12})
	}
	d.centred(groups)
}

func (d *interior) segments(b core.Book) {
	size := d.layout.FontSize
	lineHeight := size * 0.45
	for _, s := range sections(b.Segments) {
		d.AddPage()
		d.font("", size)
		if s.lines {
			for _, line := range strings.Split(s.text, "\n") {
				d.MultiCell(0, lineHeight, d.tr(line), "", "L", false)
			}
			continue
		}
		for _, p := range paragraphs(s.text) {
			d.MultiCell(0, lineHeight, d.tr(p), "", "J", false)
			d.Ln(lineHeight * 0.6)
		}
	}
}
