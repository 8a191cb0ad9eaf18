package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/gaurav-prasanna/paperback/core"
)

type stubFetcher struct {
	body string
	err  error
}

func (s stubFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &core.FetchResult{URL: url, StatusCode: 200, Body: s.body}, nil
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		list    string
		want    []int
		wantErr bool
	}{
		{"12", []int{12}, false},
		{"12, 40-42,7,12", []int{12, 40, 41, 42, 7}, false},
		{"", nil, false},
		{"5-3", nil, true},
		{"abc", nil, true},
		{"0", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseIDs(tt.list)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIDs(%q) error = %v, wantErr %v", tt.list, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && len(got)+len(tt.want) > 0 && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseIDs(%q) = %v, want %v", tt.list, got, tt.want)
		}
	}
}

func TestQueueDedup(t *testing.T) {
	q := NewQueue(3, 1, 3, 2, 1)
	var got []int
	for q.HasNext() {
		got = append(got, q.Next())
	}
	if want := []int{3, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("queue order = %v, want %v", got, want)
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
}

func TestTextURL(t *testing.T) {
	if got, want := TextURL("", 1342), "https://www.gutenberg.org/ebooks/1342.txt.utf-8"; got != want {
		t.Errorf("TextURL() = %q, want %q", got, want)
	}
	if got, want := TextURL("http://mirror/%d.txt", 7), "http://mirror/7.txt"; got != want {
		t.Errorf("TextURL() = %q, want %q", got, want)
	}
}

func TestIDFromLink(t *testing.T) {
	tests := []struct {
		href string
		want int
		ok   bool
	}{
		{"/ebooks/74512", 74512, true},
		{"https://www.gutenberg.org/ebooks/74512/", 74512, true},
		{"/ebooks/search/?query=x", 0, false},
		{"/ebooks/", 0, false},
	}
	for _, tt := range tests {
		got, ok := IDFromLink(tt.href)
		if got != tt.want || ok != tt.ok {
			t.Errorf("IDFromLink(%q) = %d, %v, want %d, %v", tt.href, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLatestID(t *testing.T) {
	html := `<html><body><ul>
		<li class="navlink"><a href="/ebooks/search/?sort_order=title">Sort</a></li>
		<li class="booklink"><a class="link" href="/ebooks/74999">Newest</a></li>
		<li class="booklink"><a class="link" href="/ebooks/74998">Older</a></li>
	</ul></body></html>`

	id, err := LatestID(context.Background(), stubFetcher{body: html}, "http://example.test")
	if err != nil {
		t.Fatalf("LatestID() error = %v", err)
	}
	if id != 74999 {
		t.Errorf("LatestID() = %d, want 74999", id)
	}

	if _, err := LatestID(context.Background(), stubFetcher{body: "<html></html>"}, "http://example.test"); err == nil {
		t.Error("LatestID() on empty page error = nil, want error")
	}
	boom := errors.New("boom")
	if _, err := LatestID(context.Background(), stubFetcher{err: boom}, ""); !errors.Is(err, boom) {
		t.Errorf("LatestID() error = %v, want wrapped boom", err)
	}
}

func TestResume(t *testing.T) {
	tests := []struct {
		last, latest, limit int
		want                []int
	}{
		{10, 13, 0, []int{11, 12, 13}},
		{10, 20, 2, []int{11, 12}},
		{20, 20, 0, nil},
	}
	for _, tt := range tests {
		got := Resume(tt.last, tt.latest, tt.limit)
		if len(got)+len(tt.want) > 0 && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resume(%d, %d, %d) = %v, want %v", tt.last, tt.latest, tt.limit, got, tt.want)
		}
	}
}
