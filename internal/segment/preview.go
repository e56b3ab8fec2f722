package segment

import "strings"

// ChunkPreview pairs a chunk index with the head of its text, the shape the
// span planner sends to the model.
type ChunkPreview struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Preview returns the first headLines lines of every chunk, indexed in chunk
// order.
func Preview(chunks []string, headLines int) []ChunkPreview {
	if headLines <= 0 {
		headLines = 10
	}
	out := make([]ChunkPreview, 0, len(chunks))
	for i, ch := range chunks {
		lines := strings.Split(strings.TrimSpace(ch), "\n")
		if len(lines) > headLines {
			lines = lines[:headLines]
		}
		out = append(out, ChunkPreview{Index: i, Text: strings.Join(lines, "\n")})
	}
	return out
}
