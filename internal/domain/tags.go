package domain

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe       = regexp.MustCompile(`[^a-z0-9]+`)
	underscoreRunsRe = regexp.MustCompile(`_+`)
)

// SlugifyTag normalizes a free-text tag to snake_case: lowercased,
// non-alphanumeric runs collapsed to single underscores, edges trimmed.
// Slugging is idempotent.
func SlugifyTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnumRe.ReplaceAllString(s, "_")
	s = underscoreRunsRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeTagList slugifies every tag and deduplicates, preserving
// first-seen order. Empty results are dropped.
func NormalizeTagList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		t := SlugifyTag(v)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		out = append(out, t)
		seen[t] = struct{}{}
	}
	return out
}
