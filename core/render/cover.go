package render

import (
	"bytes"
	"fmt"

	"github.com/gaurav-prasanna/paperback/core"
)

const (
	// bleed is added on every outer edge of the cover.
	bleed = 3.175
	// paperThickness is the spine width per interior page.
	paperThickness = 0.0572
	// spineTextPages is the page count from which the spine carries text.
	spineTextPages = 100
)

// CoverRenderer lays out a wraparound cover: back, spine and front on one
// sheet whose width depends on the interior page count.
type CoverRenderer struct {
	layout Layout
}

// NewCoverRenderer creates a CoverRenderer.
func NewCoverRenderer(l Layout) *CoverRenderer {
	return &CoverRenderer{layout: l.withDefaults()}
}

// Extension returns the file extension for PDF output.
func (r *CoverRenderer) Extension() string {
	return ".pdf"
}

// CoverSize returns the full cover width and height for an interior of
// the given page count.
func (l Layout) CoverSize(pages int) (width, height float64) {
	l = l.withDefaults()
	return 2*l.PageWidth + float64(pages)*paperThickness + 2*bleed, l.PageHeight + 2*bleed
}

// Render lays out the cover for v. v.Pages must hold the interior page count.
func (r *CoverRenderer) Render(v core.Volume) (*core.Rendered, error) {
	if v.Pages <= 0 {
		return nil, fmt.Errorf("cover for %q needs the interior page count", v.Title)
	}
	l := r.layout
	width, height := l.CoverSize(v.Pages)
	spine := float64(v.Pages) * paperThickness
	author := authors(v)

	d := newDocument(l, width, height)
	d.SetAutoPageBreak(false, 0)
	d.AddPage()
	d.SetFillColor(l.CoverColor[0], l.CoverColor[1], l.CoverColor[2])
	d.Rect(0, 0, width, height, "F")

	// Back: description.
	backLeft := bleed + margin
	d.SetLeftMargin(backLeft)
	d.SetRightMargin(width - bleed - l.PageWidth + margin)
	d.SetY(bleed + 2*margin)
	d.font("", l.FontSize)
	d.MultiCell(0, l.FontSize*0.5, d.tr(v.Description), "", "J", false)

	// Spine: title and author, rotated to read top to bottom.
	if v.Pages >= spineTextPages {
		x := bleed + l.PageWidth + spine/2
		y := bleed + margin
		d.TransformBegin()
		d.TransformRotate(-90, x, y)
		d.font("B", min(spine*2, l.FontSize))
		d.Text(x, y+spine/4, d.tr(v.Title+"   "+author))
		d.TransformEnd()
	}

	// Front: title and author.
	frontLeft := bleed + l.PageWidth + spine
	d.SetLeftMargin(frontLeft + margin)
	d.SetRightMargin(bleed + margin)
	d.SetY(height / 3)
	d.font("B", 26)
	d.MultiCell(0, 12, d.tr(v.Title), "", "C", false)
	d.Ln(10)
	if author != "" {
		d.font("", 16)
		d.MultiCell(0, 8, d.tr(author), "", "C", false)
	}

	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing cover PDF: %w", err)
	}
	return &core.Rendered{Data: buf.Bytes(), Pages: 1}, nil
}
