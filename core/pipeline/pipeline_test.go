package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/fetch"
	"github.com/gaurav-prasanna/paperback/core/llm"
	"github.com/gaurav-prasanna/paperback/core/output"
	"github.com/gaurav-prasanna/paperback/core/policy"
	"github.com/gaurav-prasanna/paperback/core/render"
	"github.com/gaurav-prasanna/paperback/core/segment"
	"github.com/gaurav-prasanna/paperback/core/sheet"
	"go.uber.org/zap"
)

func catalogText(title, author, extra string) string {
	return "Title: " + title + "\n\nAuthor: " + author + "\n\n" + extra + "Language: English\n\n" +
		"*** START OF THE PROJECT GUTENBERG EBOOK " + strings.ToUpper(title) + " ***\n\n\n\n\n" +
		"CONTENTS\n\n\nI. Arrival\nII. Departure\n\n\n\n\n" +
		"I. ARRIVAL\n\nThe coach came in late that evening.\n\n" +
		"II. DEPARTURE\n\nShe left before the snow.\n\n" +
		"*** END OF THE PROJECT GUTENBERG EBOOK " + strings.ToUpper(title) + " ***\n"
}

// unavailableID is served as a 503.
const unavailableID = 503

var texts = map[int]string{
	1: catalogText("Winter Roads", "Ada Crane", ""),
	2: catalogText("Summer Lanes", "Ben Marsh", ""),
	3: catalogText("Les Routes", "Jules Verne", "Translator: Ann Other\n\n"),
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(_ context.Context, p core.Prompt) (string, error) {
	prompt := p.System + p.User
	switch {
	case strings.Contains(prompt, "BISAC"):
		return "FIC000000, FIC019000", nil
	case strings.Contains(prompt, "keywords"):
		return "1. winter, 2. travel", nil
	case strings.Contains(prompt, "year"):
		return "1850", nil
	}
	return "A quiet tale of two journeys.", nil
}

// fakeRenderer reports a fixed page count and records what it was given.
type fakeRenderer struct {
	ext     string
	pages   int
	volumes []core.Volume
}

func (r *fakeRenderer) Render(v core.Volume) (*core.Rendered, error) {
	r.volumes = append(r.volumes, v)
	return &core.Rendered{Data: []byte("data:" + v.Title), Pages: r.pages}, nil
}

func (r *fakeRenderer) Extension() string { return r.ext }

type fixture struct {
	p                     *Pipeline
	interior, cover, word *fakeRenderer
}

func newFixture(t *testing.T, pages int) *fixture {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/ebooks/%d.txt", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		if id == unavailableID {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		text, ok := texts[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, text)
	}))
	t.Cleanup(srv.Close)

	copywriter, err := llm.NewCopywriter(fakeGenerator{}, llm.Prompts{}, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCopywriter() error = %v", err)
	}
	seg, err := segment.New(segment.DefaultConfig())
	if err != nil {
		t.Fatalf("segment.New() error = %v", err)
	}
	out, err := output.New(t.TempDir(), time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("output.New() error = %v", err)
	}

	f := &fixture{
		interior: &fakeRenderer{ext: ".pdf", pages: pages},
		cover:    &fakeRenderer{ext: ".pdf", pages: 1},
		word:     &fakeRenderer{ext: ".docx"},
	}
	f.p = &Pipeline{
		Fetcher:   fetch.New(fetch.Options{Attempts: 1, Delay: time.Millisecond}),
		TextURL:   srv.URL + "/ebooks/%d.txt",
		Segmenter: seg,
		Policy:    policy.New(policy.DefaultConfig()),
		Copy:      copywriter,
		Layout:    render.DefaultLayout(),
		Interior:  f.interior,
		Cover:     f.cover,
		Word:      f.word,
		Out:       out,
		Outputs:   AllOutputs(),
		Log:       zap.NewNop(),
	}
	return f
}

func TestProcessBook(t *testing.T) {
	f := newFixture(t, 120)

	row, err := f.p.ProcessBook(context.Background(), 1)
	if err != nil {
		t.Fatalf("ProcessBook() error = %v", err)
	}
	if row.Title != "Winter Roads" || row.Author != "Ada Crane" || row.Language != "English" {
		t.Errorf("ProcessBook() header fields = %+v", row)
	}
	if row.Description != "A quiet tale of two journeys." {
		t.Errorf("Description = %q", row.Description)
	}
	if row.Keywords != "winter, travel" {
		t.Errorf("Keywords = %q", row.Keywords)
	}
	if row.BISAC != "FIC000000, FIC019000" {
		t.Errorf("BISAC = %q", row.BISAC)
	}
	if row.Pages != 120 {
		t.Errorf("Pages = %d, want 120", row.Pages)
	}
	for kind, name := range map[output.Kind]string{
		output.Interior: row.InteriorPDF,
		output.Cover:    row.CoverPDF,
		output.Word:     row.WordFile,
	} {
		if name == "" {
			t.Errorf("no %s file recorded", kind)
			continue
		}
		if _, err := os.Stat(f.p.Out.Path(kind, name)); err != nil {
			t.Errorf("%s file: %v", kind, err)
		}
	}
	if got := f.cover.volumes[0].Pages; got != 120 {
		t.Errorf("cover sized for %d pages, want 120", got)
	}
	if body := f.interior.volumes[0].Books[0].Segments.Body; !strings.Contains(body, "coach came in late") {
		t.Errorf("interior body = %q", body)
	}
}

func TestProcessBookSkips(t *testing.T) {
	f := newFixture(t, 120)

	tests := []struct {
		name string
		id   int
	}{
		{"not in catalog", 404},
		{"translated edition", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.p.ProcessBook(context.Background(), tt.id)
			if !errors.Is(err, ErrSkipped) {
				t.Errorf("ProcessBook(%d) error = %v, want ErrSkipped", tt.id, err)
			}
		})
	}
	if len(f.interior.volumes) != 0 {
		t.Errorf("skipped books were rendered")
	}
}

func TestProcessBookFetchFailureRecorded(t *testing.T) {
	f := newFixture(t, 120)

	row, err := f.p.ProcessBook(context.Background(), unavailableID)
	if err == nil || errors.Is(err, ErrSkipped) {
		t.Fatalf("ProcessBook() error = %v, want a failure that is not a skip", err)
	}
	row, ok := RecordBook(row, err)
	if !ok {
		t.Fatal("RecordBook() = false, want a row for a failed fetch")
	}
	if row.ID != unavailableID || !strings.HasSuffix(row.URL, "/ebooks/503.txt") || !strings.HasPrefix(row.Error, "ERROR: ") {
		t.Errorf("RecordBook() row = %+v", row)
	}
}

func TestRecordBook(t *testing.T) {
	row := sheet.BookRow{ID: 7, Title: "T"}

	if _, ok := RecordBook(row, fmt.Errorf("%w: missing author", ErrSkipped)); ok {
		t.Error("RecordBook(skipped) = true, want no row")
	}
	got, ok := RecordBook(row, nil)
	if !ok || got.Error != "" {
		t.Errorf("RecordBook(ok) = %+v, %v", got, ok)
	}
	got, ok = RecordBook(row, errors.New("page count 10 out of range"))
	if !ok || got.Error != "ERROR: page count 10 out of range" || got.ID != 7 {
		t.Errorf("RecordBook(failure) = %+v, %v", got, ok)
	}
}

func TestProcessBookPageRange(t *testing.T) {
	f := newFixture(t, 10)

	row, err := f.p.ProcessBook(context.Background(), 1)
	if !errors.Is(err, render.ErrPageRange) {
		t.Fatalf("ProcessBook() error = %v, want ErrPageRange", err)
	}
	if row.Title != "Winter Roads" || row.Description == "" {
		t.Errorf("partial row not filled: %+v", row)
	}
	if row.InteriorPDF != "" || len(f.cover.volumes) != 0 {
		t.Errorf("out of range book was written")
	}
}

func TestProcessBookInteriorOnly(t *testing.T) {
	f := newFixture(t, 120)
	f.p.Outputs = Outputs{Interior: true}

	row, err := f.p.ProcessBook(context.Background(), 2)
	if err != nil {
		t.Fatalf("ProcessBook() error = %v", err)
	}
	if row.InteriorPDF == "" || row.CoverPDF != "" || row.WordFile != "" {
		t.Errorf("files = %q %q %q", row.InteriorPDF, row.CoverPDF, row.WordFile)
	}
	if row.Keywords != "" || row.Lookups != nil {
		t.Errorf("listing fields filled without Listing output")
	}
}

func TestParseBundle(t *testing.T) {
	tests := []struct {
		name    string
		rec     map[string]string
		want    [2]int
		wantErr bool
	}{
		{"valid", map[string]string{"bundle_id": "B1", "book1_id": "1", "book2_id": "2.0"}, [2]int{1, 2}, false},
		{"missing id", map[string]string{"book1_id": "1", "book2_id": "2"}, [2]int{}, true},
		{"bad book", map[string]string{"bundle_id": "B1", "book1_id": "one", "book2_id": "2"}, [2]int{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBundle(tt.rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBundle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Books != tt.want {
				t.Errorf("ParseBundle() books = %v, want %v", got.Books, tt.want)
			}
		})
	}
}

func TestProcessBundleOverrides(t *testing.T) {
	f := newFixture(t, 240)
	spec, err := ParseBundle(map[string]string{
		"bundle_id": "B9", "title": "Two Seasons", "book1_id": "1", "book2_id": "2",
		"title_1": "Roads in Winter", "author_1": "A. Crane", "author_2": "",
	})
	if err != nil {
		t.Fatalf("ParseBundle() error = %v", err)
	}
	if _, err := f.p.ProcessBundle(context.Background(), spec); err != nil {
		t.Fatalf("ProcessBundle() error = %v", err)
	}

	books := f.cover.volumes[0].Books
	if books[0].Meta.Title != "Roads in Winter" || books[0].Meta.Author != "A. Crane" {
		t.Errorf("first book meta = %+v, want sheet overrides", books[0].Meta)
	}
	if books[1].Meta.Title != "Summer Lanes" || books[1].Meta.Author != "Ben Marsh" {
		t.Errorf("second book meta = %+v, want fetched header", books[1].Meta)
	}
}

func TestProcessBundle(t *testing.T) {
	f := newFixture(t, 240)
	spec := BundleSpec{ID: "B7", Title: "Two Seasons", Description: "Paired tales.", Books: [2]int{1, 2}}

	row, err := f.p.ProcessBundle(context.Background(), spec)
	if err != nil {
		t.Fatalf("ProcessBundle() error = %v", err)
	}
	if row.ID != "B7" || row.Pages != 240 {
		t.Errorf("ProcessBundle() row = %+v", row)
	}
	vol := f.interior.volumes[0]
	if !vol.IsBundle() || vol.Books[0].ID != 1 || vol.Books[1].ID != 2 {
		t.Errorf("bundle volume books out of order: %+v", vol.Books)
	}
	for _, p := range []string{
		f.p.Out.Path(output.Bundle, output.FileName("B7", output.Bundle, ".pdf")),
		f.p.Out.Path(output.Cover, output.FileName("B7", output.Cover, ".pdf")),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("bundle output: %v", err)
		}
	}
}

func TestProcessBundleMissingBook(t *testing.T) {
	f := newFixture(t, 240)

	_, err := f.p.ProcessBundle(context.Background(), BundleSpec{ID: "B8", Books: [2]int{1, 999}})
	if !errors.Is(err, fetch.ErrNotFound) {
		t.Errorf("ProcessBundle() error = %v, want ErrNotFound", err)
	}
	if len(f.interior.volumes) != 0 {
		t.Errorf("incomplete bundle was rendered")
	}
}

func TestEnrich(t *testing.T) {
	f := newFixture(t, 0)

	got := f.p.Enrich(context.Background(), map[string]string{
		"reference_id": "R1", "title": "Emma", "author": "Jane Austen",
	})
	if got.ReferenceID != "R1" || got.PublishedYear != "1850" || got.DeathYear != "1850" {
		t.Errorf("Enrich() = %+v", got)
	}

	got = f.p.Enrich(context.Background(), map[string]string{"title": "Beowulf", "author": "Anonymous"})
	if got.DeathYear != llm.NoYear {
		t.Errorf("Enrich() death year for anonymous author = %q, want %q", got.DeathYear, llm.NoYear)
	}
}
