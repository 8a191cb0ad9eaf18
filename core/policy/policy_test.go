package policy

import (
	"testing"

	"github.com/gaurav-prasanna/paperback/core/segment"
)

func TestSkip(t *testing.T) {
	p := New(DefaultConfig())

	tests := []struct {
		name       string
		meta       segment.Metadata
		wantSkip   bool
		wantReason Reason
	}{
		{"esperanto", segment.Metadata{Author: "Zamenhof", Language: "Esperanto"}, true, DeniedLanguage},
		{"mixed tag", segment.Metadata{Author: "X", Language: "Gaelic, Scottish"}, true, DeniedLanguage},
		{"mixed tag spacing", segment.Metadata{Author: "X", Language: " French,  Dutch "}, true, DeniedLanguage},
		{"ancient greek", segment.Metadata{Author: "X", Language: "Greek, Ancient (to 1453)"}, true, DeniedLanguage},
		{"latin first", segment.Metadata{Author: "X", Language: "Latin, English"}, true, DeniedLanguage},
		{"hungarian second", segment.Metadata{Author: "X", Language: "English, Hungarian"}, true, DeniedLanguage},
		{"parenthetical", segment.Metadata{Author: "X", Language: "Greek (Modern)"}, true, DeniedLanguage},
		{"mixed tag part", segment.Metadata{Author: "X", Language: "French, German"}, false, Keep},
		{"scottish alone", segment.Metadata{Author: "X", Language: "Scottish"}, false, Keep},
		{"english", segment.Metadata{Author: "Austen", Language: "English"}, false, Keep},
		{"french alone", segment.Metadata{Author: "Hugo", Language: "French"}, false, Keep},
		{"no author", segment.Metadata{Language: "English"}, true, MissingAuthor},
		{"translated", segment.Metadata{Author: "Tolstoy", Language: "English", Translator: "Maude"}, true, TranslatedEdition},
		{"illustrated", segment.Metadata{Author: "Carroll", Language: "English", Illustrator: "Tenniel"}, true, IllustratedEdition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, reason := p.Skip(tt.meta)
			if skip != tt.wantSkip || reason != tt.wantReason {
				t.Errorf("Skip(%+v) = %v, %q, want %v, %q", tt.meta, skip, reason, tt.wantSkip, tt.wantReason)
			}
		})
	}
}

func TestSkipIgnoresSegmentation(t *testing.T) {
	p := New(DefaultConfig())
	raw := "Title: La Espero\nAuthor: Zamenhof\nLanguage: Esperanto\n*** START OF THE PROJECT GUTENBERG EBOOK ***\nCONTENTS\n\n\nI. Unu 1\n\n\n\nTeksto."

	meta := segment.ParseHeader(raw)
	if skip, _ := p.Skip(meta); !skip {
		t.Fatalf("Skip(%+v) = false, want true", meta)
	}
	// Segmenting does not change the decision.
	_ = segment.Segment(raw, meta.Language)
	if skip, _ := p.Skip(meta); !skip {
		t.Fatalf("Skip after segmentation = false, want true")
	}
}

func TestRelaxedPolicy(t *testing.T) {
	p := New(Config{})
	meta := segment.Metadata{Language: "Latin", Translator: "T", Illustrator: "I"}
	if skip, reason := p.Skip(meta); skip {
		t.Errorf("Skip() = true (%s), want false with an empty config", reason)
	}
}

func TestKeepPublisherNotes(t *testing.T) {
	p := New(DefaultConfig())
	tests := []struct {
		language string
		want     bool
	}{
		{"English", false},
		{"english", false},
		{"French", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := p.KeepPublisherNotes(tt.language); got != tt.want {
			t.Errorf("KeepPublisherNotes(%q) = %v, want %v", tt.language, got, tt.want)
		}
	}

	book := p.Apply(segment.Book{Language: "English", PublisherNotes: "boilerplate", Body: "text"})
	if book.PublisherNotes != "" || book.Body != "text" {
		t.Errorf("Apply() = %+v, want notes dropped and body kept", book)
	}
}
