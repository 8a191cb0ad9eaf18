// Package segment splits a raw Project Gutenberg plain-text dump into
// labeled segments: publisher notes, contents, preface, body and appendix.
//
// Segmentation runs as an ordered pipeline of named stages, each a pure
// function that can be exercised on its own:
//
//	StripBoundaries → RemoveNoise → NormalizeLineEndings → DetectFrontMatter →
//	TrimBackMatter → body extraction → CleanContents → NormalizeWhitespace
//
// A Segmenter never fails. A missing sentinel, heading or separator degrades
// to an empty segment and is reported through Detection.
package segment

import "strings"

// Span is a half-open byte range [Start, End) over the cleaned text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the span covers no text.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset i falls inside the span.
func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// Overlaps reports whether two non-empty spans share an offset.
func (s Span) Overlaps(o Span) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

func (s Span) of(text string) string {
	if s.Empty() {
		return ""
	}
	return text[s.Start:s.End]
}

// Spans holds the offsets backing each segment.
type Spans struct {
	PublisherNotes Span `json:"publisher_notes"`
	Contents       Span `json:"contents"`
	Preface        Span `json:"preface"`
	Body           Span `json:"body"`
	Appendix       Span `json:"appendix"`
}

// Detection records which detection branches fired, so callers can tell
// "this book has no preface" apart from "the preface heading was missed".
type Detection struct {
	StartSentinel bool `json:"start_sentinel"`
	EndSentinel   bool `json:"end_sentinel"`
	// Threshold is the newline-run length used to close front-matter sections.
	Threshold         int      `json:"threshold"`
	PublisherNotes    bool     `json:"publisher_notes"`
	NotesCleared      bool     `json:"notes_cleared"`
	Contents          bool     `json:"contents"`
	ContentsRejected  bool     `json:"contents_rejected"`
	Preface           bool     `json:"preface"`
	BackMatter        bool     `json:"back_matter"`
	IllustrationsList bool     `json:"illustrations_list"`
	Noise             []string `json:"noise,omitempty"`
}

// Book is the segmented form of one raw text.
type Book struct {
	Language       string    `json:"language"`
	PublisherNotes string    `json:"publisher_notes"`
	Contents       string    `json:"contents"`
	Preface        string    `json:"preface"`
	Body           string    `json:"body"`
	Appendix       string    `json:"appendix"`
	Spans          Spans     `json:"spans"`
	Detection      Detection `json:"detection"`
}

// Config tunes the positional heuristics.
type Config struct {
	// NotesSkip is the prefix skipped before looking for the publisher-notes separator.
	NotesSkip int `mapstructure:"notes_skip" yaml:"notes_skip"`
	// NotesWindow, FrontWindow and BackWindow are fractions of the cleaned text.
	NotesWindow float64 `mapstructure:"notes_window" yaml:"notes_window"`
	FrontWindow float64 `mapstructure:"front_window" yaml:"front_window"`
	BackWindow  float64 `mapstructure:"back_window" yaml:"back_window"`
	// MinWindow is the smallest window in bytes, so short texts are searched whole.
	MinWindow int `mapstructure:"min_window" yaml:"min_window"`
	// Thresholds lists the newline-run lengths tried, in order.
	Thresholds []int      `mapstructure:"thresholds" yaml:"thresholds"`
	Vocabulary Vocabulary `mapstructure:"vocabulary" yaml:"vocabulary"`
}

// DefaultConfig returns the heuristics tuned against the Gutenberg catalog.
func DefaultConfig() Config {
	return Config{
		NotesSkip:   100,
		NotesWindow: 0.02,
		FrontWindow: 0.15,
		BackWindow:  0.20,
		MinWindow:   2048,
		Thresholds:  []int{4, 3},
		Vocabulary:  DefaultVocabulary(),
	}
}

// Segmenter holds compiled heuristics. It carries no mutable state and is
// safe for concurrent use.
type Segmenter struct {
	cfg   Config
	vocab compiledVocabulary
	noise []Rule
}

// New creates a Segmenter. Zero-valued fields of cfg fall back to
// DefaultConfig. It fails only when a vocabulary token is not a valid
// regular expression.
func New(cfg Config) (*Segmenter, error) {
	def := DefaultConfig()
	if cfg.NotesSkip <= 0 {
		cfg.NotesSkip = def.NotesSkip
	}
	if cfg.NotesWindow <= 0 {
		cfg.NotesWindow = def.NotesWindow
	}
	if cfg.FrontWindow <= 0 {
		cfg.FrontWindow = def.FrontWindow
	}
	if cfg.BackWindow <= 0 {
		cfg.BackWindow = def.BackWindow
	}
	if cfg.MinWindow < 0 {
		cfg.MinWindow = 0
	}
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = def.Thresholds
	}
	cfg.Vocabulary = cfg.Vocabulary.withDefaults(def.Vocabulary)

	vocab, err := cfg.Vocabulary.compile()
	if err != nil {
		return nil, err
	}
	return &Segmenter{
		cfg:   cfg,
		vocab: vocab,
		noise: DefaultNoiseRules(),
	}, nil
}

var defaultSegmenter = func() *Segmenter {
	s, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}()

// Segment splits raw with the default heuristics.
func Segment(raw, language string) Book {
	return defaultSegmenter.Segment(raw, language)
}

// Segment splits raw into labeled segments. The language label is carried
// through to the result; gating on it is the caller's job.
func (s *Segmenter) Segment(raw, language string) Book {
	book := Book{Language: language}

	text, bounds := StripBoundaries(raw)
	book.Detection.StartSentinel = bounds.StartFound
	book.Detection.EndSentinel = bounds.EndFound

	text, book.Detection.Noise = RemoveNoise(text, s.noise)
	text = NormalizeLineEndings(text)

	front := s.DetectFrontMatter(text)
	back := s.TrimBackMatter(text, front.End())

	book.Spans = Spans{
		PublisherNotes: front.Notes,
		Contents:       front.Contents,
		Preface:        front.Preface,
		Body:           Span{Start: back.BodyStart, End: back.Start},
		Appendix:       back.Heading,
	}
	book.Detection.Threshold = front.Threshold
	book.Detection.PublisherNotes = !front.Notes.Empty()
	book.Detection.NotesCleared = front.NotesCleared
	book.Detection.Contents = !front.Contents.Empty()
	book.Detection.ContentsRejected = front.ContentsRejected
	book.Detection.Preface = !front.Preface.Empty()
	book.Detection.BackMatter = back.Found
	book.Detection.IllustrationsList = back.IllustrationsList

	book.PublisherNotes = NormalizeWhitespace(front.Notes.of(text))
	book.Contents = s.CleanContents(front.Contents.of(text))
	book.Preface = NormalizeWhitespace(front.Preface.of(text))
	book.Body = NormalizeWhitespace(book.Spans.Body.of(text))
	book.Appendix = strings.Trim(NormalizeWhitespace(back.Heading.of(text)), ":.")

	return book
}

// window returns the byte length of a leading or trailing window covering
// frac of n, never smaller than MinWindow and never larger than n.
func (s *Segmenter) window(n int, frac float64) int {
	w := int(float64(n) * frac)
	if w < s.cfg.MinWindow {
		w = s.cfg.MinWindow
	}
	if w > n {
		w = n
	}
	return w
}

// runAfter returns the offset of the first occurrence of run in text at or
// after from.
func runAfter(text string, from int, run string) (int, bool) {
	if from > len(text) {
		return 0, false
	}
	i := strings.Index(text[from:], run)
	if i < 0 {
		return 0, false
	}
	return from + i, true
}
