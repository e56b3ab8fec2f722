package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	zeroWidthRunes  = strings.NewReplacer(
		"\u200B", "", "\u200C", "", "\u200D", "",
		"\uFEFF", "", "\u2060", "", "\u2028", "", "\u2029", "",
	)
	smartPunct = strings.NewReplacer(
		" ", " ",
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
)

// CleanJSONText strips the decorations models wrap around JSON output:
// code fences, smart quotes, zero-width characters and trailing commas.
func CleanJSONText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = stripCodeFences(s)
	s = smartPunct.Replace(s)
	s = zeroWidthRunes.Replace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

func stripCodeFences(s string) string {
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(strings.TrimSpace(s), "```") {
		s = strings.TrimSpace(s)
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

// CarveObject returns the largest balanced top-level {...} span, tolerating
// prefix and suffix junk around it. Empty string means no object was found.
func CarveObject(s string) string {
	depth := 0
	start := -1
	best := ""
	for i, ch := range s {
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					best = s[start : i+1]
				}
			}
		}
	}
	return best
}

// ParseJSONText parses a model text block into a JSON value. It tries the
// cleaned text directly, then the carved largest object, then unwraps a
// one-element array holding an object.
func ParseJSONText(s string) (any, bool) {
	s = CleanJSONText(s)
	if s == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, true
	}

	if carved := CleanJSONText(CarveObject(s)); carved != "" {
		if err := json.Unmarshal([]byte(carved), &v); err == nil {
			return v, true
		}
	}

	if strings.HasPrefix(s, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			for _, it := range arr {
				if m, ok := it.(map[string]any); ok && len(m) > 0 {
					return m, true
				}
			}
		}
	}
	return nil, false
}
