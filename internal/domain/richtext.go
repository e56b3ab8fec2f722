package domain

import "strings"

// GatherText collects the "text" leaves of a rich block tree in document
// order. Blocks are loosely shaped, so any nesting of children is walked.
func GatherText(blocks []Rich) []string {
	var out []string
	for _, b := range blocks {
		walkText(b, &out)
	}
	return out
}

func walkText(v any, out *[]string) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	if t, ok := m["text"].(string); ok && t != "" {
		*out = append(*out, t)
	}
	children, ok := m["children"].([]any)
	if !ok {
		return
	}
	for _, c := range children {
		walkText(c, out)
	}
}

// FlattenText joins a rich block tree into a single plaintext string,
// soft-capped at maxChars.
func FlattenText(blocks []Rich, maxChars int) string {
	txt := strings.TrimSpace(strings.Join(GatherText(blocks), " "))
	if maxChars > 0 && len(txt) > maxChars {
		return txt[:maxChars] + "…"
	}
	return txt
}

// Paragraph builds a plain paragraph block.
func Paragraph(text string) Rich {
	return Rich{
		"type":     "paragraph",
		"children": []any{map[string]any{"text": text}},
	}
}

// TipCallout builds a tip callout wrapping one paragraph, the shape used
// for hints.
func TipCallout(text string) Rich {
	return Rich{
		"type":     "callout",
		"variant":  "tip",
		"children": []any{map[string]any(Paragraph(text))},
	}
}
