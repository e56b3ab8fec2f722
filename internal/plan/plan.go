// Package plan expands the topic map into one batch request per question.
// Volume is topics x type mix x multiplier, with deterministic custom ids.
package plan

import (
	"fmt"
	"strings"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/topicmap"
)

const midSampleChars = 300

// Build plans the full balanced request set. Sequence numbers are assigned
// per (topic, type) so repeated types in the mix produce _01, _02, ...
func Build(m *topicmap.TopicMap, chunks []string, cfg config.QuestionsConfig, model string) ([]batch.Request, error) {
	types := cfg.Types()
	if len(types) == 0 {
		return nil, fmt.Errorf("question type mix is empty")
	}
	multiplier := cfg.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	var reqs []batch.Request
	seq := make(map[[2]string]int)

	for _, unit := range m.Units {
		for _, topic := range unit.Topics {
			ctx := SampleContext(chunks, topic.ChunkSpan[0], topic.ChunkSpan[1], cfg)

			for rep := 0; rep < multiplier; rep++ {
				for _, qt := range types {
					key := [2]string{topic.TopicID, qt}
					seq[key]++

					customID := fmt.Sprintf("q_%s_%s_%s_%02d", unit.UnitID, topic.TopicID, qt, seq[key])
					user := fmt.Sprintf(forceTypeUserFmt,
						qt, unit.UnitID, topic.TopicID, topic.Title, topic.Summary,
						ctx, schemaItemShape, typeExamples,
					)

					req, err := batch.NewRequest(customID, model, questionsSystem, user, cfg.MaxOutputTokens)
					if err != nil {
						return nil, fmt.Errorf("build request %s: %w", customID, err)
					}
					reqs = append(reqs, req)
				}
			}
		}
	}
	return reqs, nil
}

// ExpectedTotal is the planned request count implied by the configuration.
func ExpectedTotal(m *topicmap.TopicMap, cfg config.QuestionsConfig) int {
	multiplier := cfg.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	return m.TopicCount() * len(cfg.Types()) * multiplier
}

// Mix counts planned requests by question type, inferred from the custom id.
func Mix(reqs []batch.Request) map[string]int {
	out := make(map[string]int)
	for _, r := range reqs {
		if qt := TypeFromCustomID(r.CustomID); qt != "" {
			out[qt]++
		}
	}
	return out
}

// TypeFromCustomID recovers the question type embedded in ids like
// "q_u1_u1_t1_slug_mcq_01". Returns "" when no known type is present.
func TypeFromCustomID(customID string) string {
	cid := strings.ToLower(customID)
	for _, qt := range []string{"mcq", "msq", "tf"} {
		if strings.Contains(cid, "_"+qt+"_") || strings.HasSuffix(cid, "_"+qt) || strings.HasPrefix(cid, qt+"_") {
			return qt
		}
	}
	return ""
}

// SampleContext samples a topic's chunk span into a bounded, representative
// context: the span is walked in up to cfg.SampleWindows strides, taking a
// head, middle and tail slice from each visited chunk.
func SampleContext(chunks []string, start, end int, cfg config.QuestionsConfig) string {
	if start < 0 {
		start = 0
	}
	if end >= len(chunks) {
		end = len(chunks) - 1
	}
	if start > end {
		return ""
	}
	span := chunks[start : end+1]

	windows := cfg.SampleWindows
	if windows < 1 {
		windows = 1
	}
	step := len(span) / windows
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < len(span); i += step {
		block := span[i]
		b.WriteString(sliceHead(block, cfg.SampleHeadChars))
		b.WriteString(sliceMid(block, midSampleChars))
		b.WriteString(sliceTail(block, cfg.SampleTailChars))
		b.WriteString("\n\n")
	}

	ctx := b.String()
	if cfg.MaxContextChars > 0 && len(ctx) > cfg.MaxContextChars {
		ctx = ctx[:cfg.MaxContextChars]
	}
	return ctx
}

func sliceHead(s string, n int) string {
	if n >= len(s) {
		return s
	}
	return s[:n]
}

// sliceTail returns the last n bytes, or nothing when the block is short
// enough that the head already covers it.
func sliceTail(s string, n int) string {
	if len(s) <= n {
		return ""
	}
	return s[len(s)-n:]
}

func sliceMid(s string, n int) string {
	start := len(s)/2 - n/2
	if start < 0 {
		start = 0
	}
	endAt := start + n
	if endAt > len(s) {
		endAt = len(s)
	}
	return s[start:endAt]
}
