package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/paperback/core"
)

// JSONRenderer writes the segmented books of a volume, with their spans
// and detection signals, as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render implements core.Renderer. A single-book volume is written as
// the book itself.
func (r *JSONRenderer) Render(v core.Volume) (*core.Rendered, error) {
	var payload any = v
	if len(v.Books) == 1 {
		payload = v.Books[0]
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return &core.Rendered{Data: append(data, '\n')}, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
