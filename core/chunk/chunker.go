// Package chunk splits book text into word-sized chunks. The first chunk
// of a body serves as the excerpt handed to copywriting prompts.
package chunk

import "strings"

// Chunker splits text into fixed-size word chunks.
type Chunker struct {
	ChunkSize int // number of words per chunk
}

// New creates a Chunker with the given chunk size.
// Defaults to 300 if chunkSize <= 0.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 300
	}
	return &Chunker{ChunkSize: chunkSize}
}

// Chunk splits the input text into slices of at most ChunkSize words.
// Each chunk is a contiguous block of words joined by spaces.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += c.ChunkSize {
		end := min(i+c.ChunkSize, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Excerpt returns the first chunk of text, or "" for blank text.
func (c *Chunker) Excerpt(text string) string {
	chunks := c.Chunk(text)
	if len(chunks) == 0 {
		return ""
	}
	return chunks[0]
}
