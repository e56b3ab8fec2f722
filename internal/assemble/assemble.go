// Package assemble turns raw model payloads into the validated question
// corpus: it flattens payload shapes, canonicalizes ids, repairs per-type
// constraint violations, and drops anything that still fails validation.
package assemble

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/domain"
	"github.com/quizforge/quizforge/internal/normalize"
	"github.com/quizforge/quizforge/internal/platform/logger"
)

// questionShapeKeys identifies a bare payload dict as a single question.
var questionShapeKeys = []string{"id", "type", "unit_id", "topic_id", "choices", "question_rich", "context_rich"}

// Flatten collects question items from extracted payloads. A payload may be
// a {"questions": [...]} wrapper, a bare list, or a single question object.
func Flatten(log *slog.Logger, payloads []normalize.Payload) []Item {
	var items []Item
	for i, p := range payloads {
		switch v := p.Value.(type) {
		case map[string]any:
			if qs, ok := v["questions"].([]any); ok {
				items = append(items, itemList(qs)...)
				continue
			}
			if hasQuestionShape(v) {
				items = append(items, v)
				continue
			}
			log.Warn("payload dict does not match question shape",
				slog.Int("payload", i+1),
				slog.String("custom_id", logger.Redact(p.CustomID)),
			)
		case []any:
			items = append(items, itemList(v)...)
		default:
			log.Warn("payload has unsupported type", slog.Int("payload", i+1))
		}
	}
	return items
}

func hasQuestionShape(v map[string]any) bool {
	for _, k := range questionShapeKeys {
		if _, ok := v[k]; !ok {
			return false
		}
	}
	return true
}

// Repair runs the full fix-up pass over raw items and returns the questions
// that survive validation, in input order. Items that cannot be repaired are
// dropped and logged, never fatal.
func Repair(log *slog.Logger, items []Item, scanChars int) []domain.Question {
	enforceIDConvention(items)
	ensureUniqueIDs(items)

	var fixed []domain.Question
	for _, it := range items {
		normalizeTags(it)
		applyDefaultGrading(it)
		if _, ok := it["shuffle"]; !ok {
			it["shuffle"] = true
		}

		softenContext(it, scanChars)
		normalizeChoicesAndMeta(it)
		canonicalizeTFWording(it)
		ensureHints(it)

		q, err := decode(it)
		if err != nil {
			log.Warn("dropping invalid question",
				slog.String("id", logger.Redact(str(it, "id"))),
				slog.String("reason", err.Error()),
				slog.String("preview", logger.Preview(marshalPreview(it), 300)),
			)
			continue
		}
		fixed = append(fixed, q)
	}

	log.Info("question repair complete",
		slog.Int("input", len(items)),
		slog.Int("valid", len(fixed)),
	)
	return fixed
}

// enforceIDConvention rewrites ids to q_<topic_id>_<type>_<NN> with NN
// 01-based per (topic, type). Items without a usable topic or type keep an
// existing id or get a random fallback.
func enforceIDConvention(items []Item) {
	counters := make(map[[2]string]int)
	for _, it := range items {
		topic := strings.TrimSpace(str(it, "topic_id"))
		qtype := strings.ToLower(strings.TrimSpace(str(it, "type")))
		if topic == "" || !isKnownType(qtype) {
			if str(it, "id") == "" {
				it["id"] = randomID()
			}
			continue
		}
		key := [2]string{topic, qtype}
		counters[key]++
		it["id"] = fmt.Sprintf("q_%s_%s_%02d", topic, qtype, counters[key])
	}
}

func ensureUniqueIDs(items []Item) {
	seen := make(map[string]struct{})
	for _, it := range items {
		id := str(it, "id")
		if id == "" {
			id = randomID()
		}
		for {
			if _, dup := seen[id]; !dup {
				break
			}
			id = randomID()
		}
		it["id"] = id
		seen[id] = struct{}{}
	}
}

func randomID() string {
	return "q_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

func isKnownType(t string) bool {
	return t == domain.TypeMCQ || t == domain.TypeMSQ || t == domain.TypeTF
}

func normalizeTags(it Item) {
	for _, key := range []string{"tags", "concept_tags", "context_tags"} {
		it[key] = domain.NormalizeTagList(stringList(list(it, key)))
	}
}

func applyDefaultGrading(it Item) {
	if g, ok := it["grading"].(map[string]any); ok && len(g) > 0 {
		return
	}
	switch str(it, "type") {
	case domain.TypeMSQ:
		it["grading"] = map[string]any{
			"mode":                domain.TypeMSQ,
			"partial_credit":      true,
			"penalty":             0,
			"require_all_correct": false,
		}
	case domain.TypeMCQ, domain.TypeTF:
		it["grading"] = map[string]any{
			"mode":                domain.TypeMCQ,
			"partial_credit":      false,
			"penalty":             0,
			"require_all_correct": false,
		}
	}
}

func decode(it Item) (domain.Question, error) {
	raw, err := json.Marshal(it)
	if err != nil {
		return domain.Question{}, fmt.Errorf("encode item: %w", err)
	}
	var q domain.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Question{}, fmt.Errorf("decode item: %w", err)
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func marshalPreview(it Item) string {
	raw, err := json.Marshal(it)
	if err != nil {
		return "(unencodable item)"
	}
	return string(raw)
}

// WriteFinal writes the validated corpus with schema_version 1.0.
func WriteFinal(path string, questions []domain.Question) error {
	file := domain.QuestionFile{SchemaVersion: "1.0", Questions: questions}
	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode question file: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write question file: %w", err)
	}
	return nil
}
