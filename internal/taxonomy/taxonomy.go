// Package taxonomy derives the course metadata artifact from the topic map
// and the final question corpus: unit and topic labels plus deduplicated
// tag vocabularies with human-readable labels and lookup aliases.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/domain"
	"github.com/quizforge/quizforge/internal/topicmap"
)

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
	separatorsRe = regexp.MustCompile(`[_\-/]+`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// Acronyms kept upper-case when humanizing labels.
var acronyms = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, acro := range []string{"API", "HTTP", "SQL", "GPU", "CPU", "UI", "UX"} {
		out[acro] = regexp.MustCompile(`\b` + titleWords(strings.ToLower(acro)) + `\b`)
	}
	return out
}()

// Slug normalizes free text to a snake_case identifier. Text with no
// alphanumeric content maps to "tag" so entries never get an empty id.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(nonAlnumRe.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "tag"
	}
	return s
}

// SmartTitle humanizes slugs and free text into label casing:
// "customer-collaboration" becomes "Customer Collaboration". Known
// acronyms stay upper-case.
func SmartTitle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = separatorsRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	titled := titleWords(s)
	for acro, re := range acronyms {
		titled = re.ReplaceAllString(titled, acro)
	}
	return titled
}

// titleWords capitalizes the first letter of every space-separated word
// and lowercases the rest, like Python's str.title for ASCII input.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// tagEntries converts raw tag strings into vocabulary entries, deduplicated
// in first-seen order. Aliases cover the spellings an importer is likely to
// look an entry up by.
func tagEntries(values []string) []domain.TagEntry {
	entries := make([]domain.TagEntry, 0, len(values))
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			cleaned = append(cleaned, v)
		}
	}
	for _, v := range dedupe(cleaned) {
		label := SmartTitle(v)
		slug := Slug(v)
		aliases := dedupe([]string{
			v,
			strings.ToLower(v),
			titleWords(v),
			label,
			strings.ReplaceAll(slug, "_", " "),
			strings.ReplaceAll(slug, "_", "-"),
		})
		entries = append(entries, domain.TagEntry{
			ID:      slug,
			Label:   label,
			Aliases: aliases,
		})
	}
	return entries
}

// Build assembles the taxonomy from the topic map's structure and the tag
// vocabularies gathered across the final questions. The version label comes
// from config, falling back to today's date.
func Build(m *topicmap.TopicMap, questions []domain.Question, cfg config.TaxonomyConfig) (*domain.Taxonomy, error) {
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = time.Now().Format("2006-01-02")
	}

	tax := &domain.Taxonomy{Version: version}

	for _, u := range m.Units {
		titles := make([]string, 0, len(u.Topics))
		for _, t := range u.Topics {
			titles = append(titles, SmartTitle(t.Title))
		}
		desc := "Includes topics: " + strings.Join(titles[:min(len(titles), 6)], ", ")
		if len(titles) > 6 {
			desc += "..."
		}
		tax.Units = append(tax.Units, domain.TaxonomyUnit{
			ID:          u.UnitID,
			Label:       SmartTitle(u.Title),
			Description: desc,
		})
		for _, t := range u.Topics {
			tax.Topics = append(tax.Topics, domain.TaxonomyTopic{
				ID:          t.TopicID,
				Label:       SmartTitle(t.Title),
				Description: t.Summary,
			})
		}
	}

	var tags, conceptTags, contextTags []string
	for _, q := range questions {
		tags = append(tags, q.Tags...)
		conceptTags = append(conceptTags, q.ConceptTags...)
		contextTags = append(contextTags, q.ContextTags...)
	}
	tax.Tags = tagEntries(tags)
	tax.ConceptTags = tagEntries(conceptTags)
	tax.ContextTags = tagEntries(contextTags)

	if err := tax.Validate(); err != nil {
		return nil, fmt.Errorf("validate taxonomy: %w", err)
	}
	return tax, nil
}

// Write persists the taxonomy artifact as indented JSON.
func Write(path string, tax *domain.Taxonomy) error {
	raw, err := json.MarshalIndent(tax, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal taxonomy: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write taxonomy: %w", err)
	}
	return nil
}
