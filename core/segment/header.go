package segment

import (
	"regexp"
	"strings"
)

// Metadata holds the header fields of a raw text. Absent fields are empty.
type Metadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Language    string `json:"language"`
	Translator  string `json:"translator"`
	Illustrator string `json:"illustrator"`
}

var headerField = regexp.MustCompile(`(?im)^[ \t]*(title|author|editor|language|translator|illustrator)s?:[ \t]*(.*?)[ \t]*\r?$`)

var nameReplacer = strings.NewReplacer(`\`, "-", "/", "-", "&", " and ")

// ParseHeader extracts the key: value header fields that precede the start
// sentinel. The first occurrence of each field wins; Editor stands in for a
// missing Author. Title and author are made safe for file names.
func ParseHeader(raw string) Metadata {
	header := raw
	if _, b := StripBoundaries(raw); b.StartFound {
		header = raw[:b.HeaderEnd]
	}

	fields := make(map[string]string)
	for _, m := range headerField.FindAllStringSubmatch(header, -1) {
		key := strings.ToLower(m[1])
		if _, seen := fields[key]; seen || m[2] == "" {
			continue
		}
		fields[key] = m[2]
	}

	meta := Metadata{
		Title:       sanitizeName(fields["title"]),
		Author:      sanitizeName(fields["author"]),
		Language:    fields["language"],
		Translator:  fields["translator"],
		Illustrator: fields["illustrator"],
	}
	if meta.Author == "" {
		meta.Author = sanitizeName(fields["editor"])
	}
	return meta
}

func sanitizeName(s string) string {
	return strings.Join(strings.Fields(nameReplacer.Replace(s)), " ")
}
