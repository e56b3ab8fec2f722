package assemble

import (
	"strconv"
	"strings"
)

// Item is a raw question object as decoded from a model payload, before
// repair and validation.
type Item = map[string]any

func str(it Item, key string) string {
	s, _ := it[key].(string)
	return s
}

func boolOr(it Item, key string, def bool) bool {
	if v, ok := it[key].(bool); ok {
		return v
	}
	return def
}

func list(it Item, key string) []any {
	l, _ := it[key].([]any)
	return l
}

func itemList(v []any) []Item {
	out := make([]Item, 0, len(v))
	for _, e := range v {
		if m, ok := e.(Item); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringList(v []any) []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// intOr coerces the loosely-typed numbers models emit: JSON numbers decode
// as float64, but string digits show up too.
func intOr(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
