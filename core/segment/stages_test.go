package segment

import (
	"strings"
	"testing"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Metadata
	}{
		{
			name: "all fields",
			raw: "Title: War & Peace\r\nAuthor: Leo Tolstoy\r\nTranslator: Louise Maude\r\n" +
				"Illustrator: Someone\r\nLanguage: English\r\n*** START OF THE PROJECT GUTENBERG EBOOK ***\r\nTitle: Not this",
			want: Metadata{Title: "War and Peace", Author: "Leo Tolstoy", Language: "English", Translator: "Louise Maude", Illustrator: "Someone"},
		},
		{
			name: "editor stands in for author",
			raw:  "Title: Letters\nEditor: A/B Press\nLanguage: French\n",
			want: Metadata{Title: "Letters", Author: "A-B Press", Language: "French"},
		},
		{
			name: "missing fields",
			raw:  "No header here at all.",
			want: Metadata{},
		},
		{
			name: "first occurrence wins",
			raw:  "Title: First\nTitle: Second\n",
			want: Metadata{Title: "First"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHeader(tt.raw); got != tt.want {
				t.Errorf("ParseHeader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStripBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		wantStart bool
		wantEnd   bool
	}{
		{"both", "head*** START OF THE PROJECT GUTENBERG EBOOK X ***body*** END OF THE PROJECT GUTENBERG EBOOK X ***tail", "body", true, true},
		{"this variant", "*** START OF THIS PROJECT GUTENBERG EBOOK X ***body", "body", true, false},
		{"lower case", "*** start of the project gutenberg x ***body", "body", true, false},
		{"no start", "body*** END OF THE PROJECT GUTENBERG X ***", "body", false, true},
		{"none", "body", "body", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, b := StripBoundaries(tt.raw)
			if got != tt.want || b.StartFound != tt.wantStart || b.EndFound != tt.wantEnd {
				t.Errorf("StripBoundaries() = %q, %+v, want %q start=%v end=%v", got, b, tt.want, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestRemoveNoise(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		fired string
	}{
		{"illustration", "Before.\r\n\r\n[Illustration: A ship\r\nat sea]\r\n\r\nAfter.", "Before.\r\n\r\nAfter.", "illustration"},
		{"plain illustration", "Before.\n\n[Illustration]\n\nAfter.", "Before.\n\nAfter.", "illustration"},
		{"spanish illustration", "A\n\n[Ilustración]\n\nB", "A\n\nB", "illustration"},
		{"sidenote", "A\n\n[Sidenote: aside]\n\nB", "A\n\nB", "sidenote"},
		{"transcriber note", "[Transcriber's Note: fixed typos.]\n\n\nStory.", "Story.", "transcriber-note"},
		{"etext credit", "Intro\n\nThis etext was prepared by Jane.\n\n\nStory.", "Intro\n\nStory.", "etext-credit"},
		{"residual marker", "Story.\n\nEnd of the Project Gutenberg EBook of X\n\n", "Story.\n\n", "gutenberg-marker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fired := RemoveNoise(tt.in, DefaultNoiseRules())
			if got != tt.want {
				t.Errorf("RemoveNoise() = %q, want %q", got, tt.want)
			}
			if !hasNoise(fired, tt.fired) {
				t.Errorf("fired = %v, want %q", fired, tt.fired)
			}
		})
	}
}

func TestRemoveNoiseKeepsProse(t *testing.T) {
	in := "The wine produced at the abbey was famous.\n\nThe text prepared by hand was lost.\n\n\nThe end."
	got, fired := RemoveNoise(in, DefaultNoiseRules())
	if got != in {
		t.Errorf("RemoveNoise() = %q, want input unchanged (fired %v)", got, fired)
	}
}

func TestRemoveNoiseProducedByCredit(t *testing.T) {
	rest := strings.Repeat("Plain prose follows here.\n\n", 40)
	tests := []struct {
		name  string
		in    string
		want  string
		fired bool
	}{
		{"credit line", "Produced by Jane Roe\nand friends.\n\n" + rest, rest, true},
		{"first credit only", "Produced by A.\n\nProduced by B.\n\n" + rest, "Produced by B.\n\n" + rest, true},
		{"mid-sentence", "The cloth produced by the mill was fine.\n\n" + rest, "The cloth produced by the mill was fine.\n\n" + rest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fired := RemoveNoise(tt.in, DefaultNoiseRules())
			if got != tt.want {
				t.Errorf("RemoveNoise() = %q, want %q", got, tt.want)
			}
			if hasNoise(fired, "produced-by") != tt.fired {
				t.Errorf("fired = %v, want produced-by fired %v", fired, tt.fired)
			}
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"reflow lines", "one\ntwo\nthree", "one two three"},
		{"keep paragraphs", "one\ntwo\n\nthree", "one two\n\nthree"},
		{"collapse long breaks", "one\n\n\n\n\nthree", "one\n\nthree"},
		{"crlf", "one\r\ntwo\r\n\r\nthree", "one two\n\nthree"},
		{"italics", "a _very_ __bold__ word", "a very bold word"},
		{"dashes", "yes--no---maybe", "yes-no-maybe"},
		{"spaces", "a  b\t\tc", "a b c"},
		{"space-only line", "a\n  \nb", "a\n\nb"},
		{"underscore paragraph", "a\n\n_\n\nb", "a\n\nb"},
		{"trim", "\n\n  padded  \n\n", "padded"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeWhitespace(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeWhitespace(got); again != got {
				t.Errorf("NormalizeWhitespace not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCleanContents(t *testing.T) {
	s := defaultSegmenter
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "numbers and leaders",
			in:   "CONTENTS\n\n\nI. One .... 3\nII. Two .... 9",
			want: "CONTENTS\nI. One\nII. Two",
		},
		{
			name: "page column and roman numbers",
			in:   "_Contents_\n\n                               PAGE\n\nPreface, ix\n\nThe Voyage      12",
			want: "Contents\nPreface\nThe Voyage",
		},
		{
			name: "division lines keep numerals",
			in:   "CONTENTS\n\nCHAPTER 1\nPart 2\nVolume 3\nEpilogue 40",
			want: "CONTENTS\nCHAPTER 1\nPart 2\nVolume 3\nEpilogue",
		},
		{
			name: "no heading",
			in:   "The Start 1\nThe End 99",
			want: "The Start\nThe End",
		},
		{
			name: "empty",
			in:   "\n\n",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.CleanContents(tt.in); got != tt.want {
				t.Errorf("CleanContents() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFrontMatterClearsNotesHoldingContents(t *testing.T) {
	s, err := New(Config{NotesSkip: 1, MinWindow: 4096})
	if err != nil {
		t.Fatal(err)
	}
	text := "x\nCONTENTS\n\nA 1\nB 2\n\n\n\nBody."
	fm := s.DetectFrontMatter(text)
	if fm.Contents.Empty() {
		t.Fatalf("contents not detected: %+v", fm)
	}
	if !fm.Notes.Empty() {
		t.Errorf("Notes = %+v, want empty", fm.Notes)
	}
	if !fm.NotesCleared {
		t.Errorf("NotesCleared = false, want true")
	}
}

func TestTrimBackMatterIgnoresHeadingsBeforeBody(t *testing.T) {
	text := "INDEX\n\nnot back matter\n\nreal body\n\nIndex\n\nentries"
	bodyStart := strings.Index(text, "real body")
	bm := defaultSegmenter.TrimBackMatter(text, bodyStart)
	if !bm.Found || bm.Start != strings.LastIndex(text, "Index") {
		t.Errorf("TrimBackMatter() = %+v, want trailing Index heading", bm)
	}
}
