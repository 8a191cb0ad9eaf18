// Package sheet keeps the run's spreadsheet: one row per processed book or
// bundle, plus reading of input records such as bundle definitions.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Column headers of each sheet kind.
var (
	BooksHeader = []string{
		"Book ID", "Plain text URL", "Title", "Language", "Author", "Translator", "Illustrator",
		"Description", "Keywords", "BISAC codes", "Pages num",
		"PDF file name", "Cover PDF file name", "Word file name",
		"Google Book Publication Year", "OpenLibrary Book Publication Year",
		"Wikidata Author Year of Death", "Wikipedia Author Year of Death", "OpenLibrary Author Year of Death",
		"Error",
	}
	BundlesHeader    = []string{"Bundle ID", "Title", "Description", "Pages num"}
	EnrichmentHeader = []string{"Reference ID", "Title", "Author", "Published Year", "Author Year of Death"}
)

// SheetName returns the books sheet name for a run date.
func SheetName(t time.Time) string {
	return t.Format("2006-01-02")
}

// Workbook is an xlsx file open for appending rows. It is not safe for
// concurrent use.
type Workbook struct {
	path  string
	f     *excelize.File
	fresh bool
	next  map[string]int
}

// Open opens the workbook at path, or starts a new one if it does not exist.
func Open(path string) (*Workbook, error) {
	w := &Workbook{path: path, next: make(map[string]int)}
	f, err := excelize.OpenFile(path)
	switch {
	case err == nil:
		w.f = f
	case errors.Is(err, os.ErrNotExist):
		w.f = excelize.NewFile()
		w.fresh = true
	default:
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return w, nil
}

// EnsureSheet creates sheet with header unless it exists, and positions
// appends after its last row.
func (w *Workbook) EnsureSheet(name string, header []string) error {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("looking up sheet %s: %w", name, err)
	}
	if idx == -1 {
		if _, err = w.f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
		if w.fresh && name != defaultSheet {
			if err := w.f.DeleteSheet(defaultSheet); err != nil {
				return fmt.Errorf("removing default sheet: %w", err)
			}
			w.fresh = false
		}
		if idx, err = w.f.GetSheetIndex(name); err == nil {
			w.f.SetActiveSheet(idx)
		}
	}

	rows, err := w.f.GetRows(name)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", name, err)
	}
	w.next[name] = len(rows) + 1
	if len(rows) == 0 {
		cells := make([]any, len(header))
		for i, h := range header {
			cells[i] = h
		}
		return w.AppendRow(name, cells...)
	}
	return nil
}

// AppendRow writes values to the next row of sheet.
func (w *Workbook) AppendRow(sheet string, values ...any) error {
	row, ok := w.next[sheet]
	if !ok {
		return fmt.Errorf("sheet %s not prepared", sheet)
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d of %s: %w", row, sheet, err)
	}
	w.next[sheet] = row + 1
	return nil
}

// ReadRecords returns the rows of sheet below its header as maps keyed by
// header name. Blank rows are skipped; short rows yield empty strings.
func (w *Workbook) ReadRecords(sheet string) ([]map[string]string, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var records []map[string]string
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Sheets lists the workbook's sheet names.
func (w *Workbook) Sheets() []string {
	return w.f.GetSheetList()
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Save writes the workbook to its path.
func (w *Workbook) Save() error {
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}

// Close releases the workbook without saving.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// BookRow is one line of the books sheet.
type BookRow struct {
	ID          int
	URL         string
	Title       string
	Language    string
	Author      string
	Translator  string
	Illustrator string
	Description string
	Keywords    string
	BISAC       string
	Pages       int
	InteriorPDF string
	CoverPDF    string
	WordFile    string
	// Lookups holds the metadata years in BooksHeader order, from
	// "Google Book Publication Year" on.
	Lookups []string
	Error   string
}

// Cells returns the row's values in BooksHeader order.
func (r BookRow) Cells() []any {
	cells := []any{
		r.ID, r.URL, r.Title, r.Language, r.Author, r.Translator, r.Illustrator,
		r.Description, r.Keywords, r.BISAC, r.Pages,
		r.InteriorPDF, r.CoverPDF, r.WordFile,
	}
	const lookups = 5
	for i := 0; i < lookups; i++ {
		v := ""
		if i < len(r.Lookups) {
			v = r.Lookups[i]
		}
		cells = append(cells, v)
	}
	return append(cells, r.Error)
}

// BundleRow is one line of the bundles sheet.
type BundleRow struct {
	ID          string
	Title       string
	Description string
	Pages       int
}

// Cells returns the row's values in BundlesHeader order.
func (r BundleRow) Cells() []any {
	return []any{r.ID, r.Title, r.Description, r.Pages}
}

// FailedBundle is the row recorded for a bundle that could not be built:
// the error takes the description's place and the page count is zero.
func FailedBundle(id, title string, err error) BundleRow {
	return BundleRow{ID: id, Title: title, Description: "ERROR: " + err.Error()}
}

// EnrichmentRow is one line of the enrichment sheet.
type EnrichmentRow struct {
	ReferenceID   string
	Title         string
	Author        string
	PublishedYear string
	DeathYear     string
}

// Cells returns the row's values in EnrichmentHeader order.
func (r EnrichmentRow) Cells() []any {
	return []any{r.ReferenceID, r.Title, r.Author, r.PublishedYear, r.DeathYear}
}

// Int parses a record field holding an integer, tolerating the ".0" suffix
// spreadsheets add to numbers.
func Int(rec map[string]string, key string) (int, error) {
	v := strings.TrimSuffix(strings.TrimSpace(rec[key]), ".0")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("field %s: %q is not a number", key, rec[key])
	}
	return n, nil
}
