package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrPageRange is returned when a rendered interior is too short or too
// long to print.
var ErrPageRange = errors.New("page count out of printable range")

// PageCount reads the number of pages of a PDF.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// CheckPages reports ErrPageRange when pages falls outside the layout's
// printable range.
func (l Layout) CheckPages(pages int) error {
	l = l.withDefaults()
	if pages < l.MinPages || pages > l.MaxPages {
		return fmt.Errorf("%w: %d pages, want %d to %d", ErrPageRange, pages, l.MinPages, l.MaxPages)
	}
	return nil
}
