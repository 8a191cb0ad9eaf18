package catalog

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// DefaultTextURL is the plain-text download location of a catalog entry.
const DefaultTextURL = "https://www.gutenberg.org/ebooks/%d.txt.utf-8"

// TextURL formats the download URL for id. tmpl holds one %d verb.
func TextURL(tmpl string, id int) string {
	if tmpl == "" {
		tmpl = DefaultTextURL
	}
	return fmt.Sprintf(tmpl, id)
}

// ParseIDs parses a comma-separated list of ids and inclusive ranges,
// e.g. "12,40-45,7". Repeats are dropped, order is kept.
func ParseIDs(list string) ([]int, error) {
	q := NewQueue()
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := parseID(lo)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = parseID(hi); err != nil {
				return nil, err
			}
		}
		if end < start {
			return nil, fmt.Errorf("invalid id range %q", part)
		}
		for id := start; id <= end; id++ {
			q.Add(id)
		}
	}
	return q.All(), nil
}

// Range returns the ids from start to end inclusive.
func Range(start, end int) []int {
	if end < start {
		return nil
	}
	ids := make([]int, 0, end-start+1)
	for id := start; id <= end; id++ {
		ids = append(ids, id)
	}
	return ids
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}

// IDFromLink extracts the catalog id from an /ebooks/<id> link.
func IDFromLink(href string) (int, bool) {
	parsed, err := url.Parse(href)
	if err != nil {
		return 0, false
	}
	id, err := strconv.Atoi(path.Base(strings.TrimSuffix(parsed.Path, "/")))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
