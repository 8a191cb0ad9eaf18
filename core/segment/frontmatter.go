package segment

import "strings"

// FrontMatter holds the detected publisher-notes, contents and preface
// spans.
type FrontMatter struct {
	Threshold        int
	Notes            Span
	Contents         Span
	Preface          Span
	NotesCleared     bool
	ContentsRejected bool
}

// End is the offset where the body may start.
func (f FrontMatter) End() int {
	return max(f.Notes.End, f.Contents.End, f.Preface.End)
}

func (f FrontMatter) detected() bool {
	return !f.Notes.Empty() || !f.Contents.Empty() || !f.Preface.Empty()
}

// DetectFrontMatter locates the front-matter sections of cleaned text.
// Each configured threshold is tried in turn, and the first one under which
// any section is found is used for all three sections together.
func (s *Segmenter) DetectFrontMatter(text string) FrontMatter {
	var fm FrontMatter
	for _, t := range s.cfg.Thresholds {
		fm = s.detectAt(text, t)
		if fm.detected() {
			break
		}
	}
	fm.resolve(text)
	return fm
}

func (s *Segmenter) detectAt(text string, threshold int) FrontMatter {
	fm := FrontMatter{Threshold: threshold}
	run := strings.Repeat("\n", threshold)

	if end := s.window(len(text), s.cfg.NotesWindow); s.cfg.NotesSkip < end {
		if i := strings.Index(text[s.cfg.NotesSkip:end], run); i >= 0 {
			fm.Notes = Span{Start: 0, End: s.cfg.NotesSkip + i}
		}
	}

	front := text[:s.window(len(text), s.cfg.FrontWindow)]

	// Only the first heading candidate is considered; a rejected one leaves
	// contents empty.
	if loc := s.vocab.contents.FindStringIndex(front); loc != nil {
		if s.rejectContents(text, loc[0]) {
			fm.ContentsRejected = true
		} else if end, ok := runAfter(text, loc[1], run); ok {
			fm.Contents = Span{Start: loc[0], End: end}
		}
	}

	for _, loc := range s.vocab.preface.FindAllStringIndex(front, -1) {
		if fm.Contents.Contains(loc[0]) {
			continue
		}
		if end, ok := runAfter(text, loc[1], run); ok {
			fm.Preface = Span{Start: loc[0], End: end}
		}
		break
	}
	return fm
}

// rejectContents reports whether the neighbourhood of a contents heading
// reads like "Contents of Volume II" rather than a table of contents.
func (s *Segmenter) rejectContents(text string, start int) bool {
	lo := max(0, start-100)
	hi := min(len(text), start+100)
	return s.vocab.contentsOf.MatchString(text[lo:hi])
}

// resolve makes the three spans disjoint. Notes that swallowed the contents
// block are cleared; otherwise notes stop at the first heading, and where
// contents and preface overlap the earlier one is cut short.
func (f *FrontMatter) resolve(text string) {
	if !f.Contents.Empty() && !f.Notes.Empty() &&
		strings.Contains(f.Notes.of(text), f.Contents.of(text)) {
		f.Notes = Span{}
		f.NotesCleared = true
	}
	for _, sp := range []Span{f.Contents, f.Preface} {
		if sp.Overlaps(f.Notes) {
			f.Notes.End = sp.Start
		}
	}
	if f.Notes.Empty() {
		f.Notes = Span{}
	}
	if f.Contents.Overlaps(f.Preface) {
		if f.Contents.Start < f.Preface.Start {
			f.Contents.End = f.Preface.Start
		} else {
			f.Preface.End = f.Contents.Start
		}
	}
}
