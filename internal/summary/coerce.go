package summary

import (
	"strconv"
	"strings"

	"github.com/quizforge/quizforge/internal/domain"
)

// CoerceShape heals a loosely-shaped summary payload into a StudySummary.
// Generation output drifts in predictable ways (alternate key names, bullets
// directly on a slide, missing colors), so every accessor here accepts the
// variants seen in practice and drops what cannot be salvaged. A payload
// with no usable content coerces to an empty summary, never an error.
func CoerceShape(payload any) *domain.StudySummary {
	out := &domain.StudySummary{SchemaVersion: "1.0"}
	obj, ok := payload.(map[string]any)
	if !ok {
		return out
	}

	var sections []any
	sections = append(sections, anyList(obj["narrativeSections"])...)
	sections = append(sections, anyList(obj["sections"])...)
	if s, ok := obj["section"].(map[string]any); ok {
		sections = append(sections, s)
	}
	for _, raw := range sections {
		if ns, ok := coerceSection(raw); ok {
			out.NarrativeSections = append(out.NarrativeSections, ns)
		}
	}

	var slides []any
	slides = append(slides, anyList(obj["slides"])...)
	if s, ok := obj["slide"].(map[string]any); ok {
		slides = append(slides, s)
	}
	for _, raw := range slides {
		if sl, ok := coerceSlide(raw); ok {
			out.Slides = append(out.Slides, sl)
		}
	}

	return out
}

func coerceSection(raw any) (domain.NarrativeSection, bool) {
	s, ok := raw.(map[string]any)
	if !ok {
		return domain.NarrativeSection{}, false
	}
	title := firstString(s, "title", "sectionTitle", "heading", "label")
	if title == "" {
		return domain.NarrativeSection{}, false
	}
	ns := domain.NarrativeSection{
		Title:   title,
		Bullets: stringItems(s, "bullets", "points", "content", "items"),
	}
	for _, raw := range anyList(s["subsections"]) {
		sub, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		st := firstString(sub, "title", "heading", "label")
		if st == "" {
			continue
		}
		ns.Subsections = append(ns.Subsections, domain.Subsection{
			Title:   st,
			Bullets: stringItems(sub, "bullets", "points", "items"),
		})
	}
	return ns, true
}

func coerceSlide(raw any) (domain.Slide, bool) {
	s, ok := raw.(map[string]any)
	if !ok {
		return domain.Slide{}, false
	}
	title := firstString(s, "title", "heading")
	if title == "" {
		return domain.Slide{}, false
	}
	sl := domain.Slide{Title: title}
	if sub, ok := s["subtitle"].(string); ok && strings.TrimSpace(sub) != "" {
		trimmed := strings.TrimSpace(sub)
		sl.Subtitle = &trimmed
	}

	for _, raw := range anyList(s["subheadings"]) {
		h, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		heading := firstString(h, "heading", "label", "title")
		if heading == "" {
			continue
		}
		color, _ := h["color"].(string)
		sl.Subheadings = append(sl.Subheadings, domain.Subheading{
			Heading: heading,
			Color:   domain.EnsureColor(color),
			Content: stringItems(h, "content", "bullets", "points", "items"),
		})
	}

	// Loose payloads often put bullets straight on the slide.
	if len(sl.Subheadings) == 0 {
		if synthesized := stringItems(s, "bullets", "points", "items", "content"); len(synthesized) > 0 {
			sl.Subheadings = []domain.Subheading{{
				Heading: "Key points",
				Color:   domain.DefaultColor,
				Content: synthesized,
			}}
		}
	}
	if len(sl.Subheadings) == 0 {
		sl.Subheadings = []domain.Subheading{{Heading: "Notes", Color: domain.DefaultColor}}
	}
	return sl, true
}

func anyList(v any) []any {
	l, _ := v.([]any)
	return l
}

// firstString returns the first non-blank string value among the keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// stringItems flattens the first present list-ish value among the keys into
// trimmed strings. Scalar strings and numbers count as one-element lists.
func stringItems(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		items := asStringList(v)
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func asStringList(v any) []string {
	var out []string
	switch x := v.(type) {
	case []any:
		for _, it := range x {
			if s := scalarString(it); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := scalarString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return ""
}
