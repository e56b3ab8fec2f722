package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSummaryConfig() config.SummaryConfig {
	return config.SummaryConfig{
		RetryMissing:    1,
		MapMaxTokens:    1200,
		PolishMaxTokens: 4000,
	}
}

func TestCoerceShapeCanonicalPayload(t *testing.T) {
	t.Parallel()

	s := CoerceShape(map[string]any{
		"schema_version": "1.0",
		"narrativeSections": []any{map[string]any{
			"title":   "Basics",
			"bullets": []any{"first point", "second point"},
			"subsections": []any{map[string]any{
				"title":   "Details",
				"bullets": []any{"nested point"},
			}},
		}},
		"slides": []any{map[string]any{
			"title":    "Overview",
			"subtitle": "What this covers",
			"subheadings": []any{map[string]any{
				"heading": "Key points",
				"color":   "green.600",
				"content": []any{"a point"},
			}},
		}},
	})

	require.Len(t, s.NarrativeSections, 1)
	assert.Equal(t, "Basics", s.NarrativeSections[0].Title)
	assert.Equal(t, []string{"first point", "second point"}, s.NarrativeSections[0].Bullets)
	require.Len(t, s.NarrativeSections[0].Subsections, 1)

	require.Len(t, s.Slides, 1)
	require.NotNil(t, s.Slides[0].Subtitle)
	assert.Equal(t, "What this covers", *s.Slides[0].Subtitle)
	assert.Equal(t, "green.600", s.Slides[0].Subheadings[0].Color)
	require.NoError(t, s.Validate())
}

func TestCoerceShapeAlternateKeys(t *testing.T) {
	t.Parallel()

	s := CoerceShape(map[string]any{
		"sections": []any{map[string]any{
			"heading": "From heading",
			"points":  []any{"point one"},
		}},
		"slide": map[string]any{
			"heading": "Slide from heading",
			"items":   []any{"loose bullet"},
		},
	})

	require.Len(t, s.NarrativeSections, 1)
	assert.Equal(t, "From heading", s.NarrativeSections[0].Title)
	assert.Equal(t, []string{"point one"}, s.NarrativeSections[0].Bullets)

	// Slide bullets with no subheadings get a synthesized "Key points" group.
	require.Len(t, s.Slides, 1)
	require.Len(t, s.Slides[0].Subheadings, 1)
	assert.Equal(t, "Key points", s.Slides[0].Subheadings[0].Heading)
	assert.Equal(t, []string{"loose bullet"}, s.Slides[0].Subheadings[0].Content)
}

func TestCoerceShapeBadColorAndEmptySlide(t *testing.T) {
	t.Parallel()

	s := CoerceShape(map[string]any{
		"slides": []any{
			map[string]any{
				"title": "Recolored",
				"subheadings": []any{map[string]any{
					"heading": "Points",
					"color":   "hotpink",
					"content": []any{"x"},
				}},
			},
			map[string]any{"title": "Empty"},
		},
	})

	require.Len(t, s.Slides, 2)
	assert.Equal(t, domain.DefaultColor, s.Slides[0].Subheadings[0].Color)
	require.Len(t, s.Slides[1].Subheadings, 1)
	assert.Equal(t, "Notes", s.Slides[1].Subheadings[0].Heading)
}

func TestCoerceShapeGarbage(t *testing.T) {
	t.Parallel()

	s := CoerceShape("not an object")
	assert.Equal(t, "1.0", s.SchemaVersion)
	assert.Empty(t, s.NarrativeSections)
	assert.Empty(t, s.Slides)

	s = CoerceShape(map[string]any{
		"narrativeSections": []any{map[string]any{"bullets": []any{"orphan"}}},
		"slides":            []any{map[string]any{"subtitle": "no title"}},
	})
	assert.Empty(t, s.NarrativeSections, "sections without titles are dropped")
	assert.Empty(t, s.Slides, "slides without titles are dropped")
}

func section(title string, bullets ...string) domain.NarrativeSection {
	return domain.NarrativeSection{Title: title, Bullets: bullets}
}

func slide(title string, content ...string) domain.Slide {
	return domain.Slide{
		Title: title,
		Subheadings: []domain.Subheading{
			{Heading: "Key points", Color: domain.DefaultColor, Content: content},
		},
	}
}

func TestLocalMergeDedupesSectionBullets(t *testing.T) {
	t.Parallel()

	a := &domain.StudySummary{
		SchemaVersion:     "1.0",
		NarrativeSections: []domain.NarrativeSection{section("Shared", "one", "two")},
	}
	b := &domain.StudySummary{
		SchemaVersion:     "1.0",
		NarrativeSections: []domain.NarrativeSection{section("Shared", "two", "three"), section("Only B", "solo")},
	}

	m := LocalMerge(a, b)
	require.Len(t, m.NarrativeSections, 2)
	assert.Equal(t, []string{"one", "two", "three"}, m.NarrativeSections[0].Bullets)
	assert.Equal(t, "Only B", m.NarrativeSections[1].Title)
}

func TestLocalMergeCapsBullets(t *testing.T) {
	t.Parallel()

	long := section("Big", "b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8")
	m := LocalMerge(
		&domain.StudySummary{SchemaVersion: "1.0", NarrativeSections: []domain.NarrativeSection{long}},
		&domain.StudySummary{SchemaVersion: "1.0"},
	)
	require.Len(t, m.NarrativeSections, 1)
	assert.Len(t, m.NarrativeSections[0].Bullets, maxSectionBullets)
}

func TestLocalMergeSlides(t *testing.T) {
	t.Parallel()

	a := &domain.StudySummary{SchemaVersion: "1.0", Slides: []domain.Slide{slide("Shared", "p1")}}
	b := &domain.StudySummary{
		SchemaVersion: "1.0",
		Slides: []domain.Slide{
			slide("Shared", "p2"),
			{Title: "Hollow", Subheadings: []domain.Subheading{{Heading: "Empty", Color: domain.DefaultColor}}},
		},
	}

	m := LocalMerge(a, b)
	require.Len(t, m.Slides, 2)
	assert.Len(t, m.Slides[0].Subheadings, 2)

	// A slide whose only subheading had no content still ends up with one
	// subheading so the document validates.
	require.Len(t, m.Slides[1].Subheadings, 1)
	assert.Equal(t, "Key points", m.Slides[1].Subheadings[0].Heading)
	require.NoError(t, m.Validate())
}

func TestLocalMergeNilInputs(t *testing.T) {
	t.Parallel()

	m := LocalMerge(nil, nil)
	assert.Equal(t, "1.0", m.SchemaVersion)
	assert.Empty(t, m.NarrativeSections)
}

// scriptedScheduler replays canned output records per run and captures the
// submitted requests.
type scriptedScheduler struct {
	runs     [][]batch.Record
	calls    [][]batch.Request
	prefixes []string
}

func (s *scriptedScheduler) Run(_ context.Context, reqs []batch.Request, prefix string) ([]batch.Record, error) {
	s.calls = append(s.calls, reqs)
	s.prefixes = append(s.prefixes, prefix)
	if len(s.runs) == 0 {
		return nil, nil
	}
	out := s.runs[0]
	s.runs = s.runs[1:]
	return out, nil
}

func summaryRecord(t *testing.T, customID string, payload any) batch.Record {
	t.Helper()
	inner, err := json.Marshal(payload)
	require.NoError(t, err)
	envelope := map[string]any{
		"custom_id": customID,
		"response": map[string]any{
			"body": map[string]any{"output_text": string(inner)},
		},
	}
	line, err := json.Marshal(envelope)
	require.NoError(t, err)
	return batch.Record{CustomID: customID, Line: line}
}

func microPayload(sectionTitle, bullet string) map[string]any {
	return map[string]any{
		"schema_version": "1.0",
		"narrativeSections": []any{map[string]any{
			"title":   sectionTitle,
			"bullets": []any{bullet},
		}},
		"slides": []any{map[string]any{
			"title":   sectionTitle,
			"bullets": []any{bullet},
		}},
	}
}

func TestGenerateMapMergePolish(t *testing.T) {
	t.Parallel()

	polished := map[string]any{
		"schema_version": "1.0",
		"narrativeSections": []any{map[string]any{
			"title":   "Polished",
			"bullets": []any{"tidy bullet"},
		}},
		"slides": []any{map[string]any{
			"title": "Polished",
			"subheadings": []any{map[string]any{
				"heading": "Key points", "color": "blue.600", "content": []any{"tidy bullet"},
			}},
		}},
	}

	sched := &scriptedScheduler{runs: [][]batch.Record{
		{
			summaryRecord(t, "summary_map_chunk_0001", microPayload("Alpha", "a")),
			summaryRecord(t, "summary_map_chunk_0002", microPayload("Beta", "b")),
		},
		{summaryRecord(t, PolishRequestID, polished)},
	}}

	g := NewGenerator(sched, testLogger(), "model-x", testSummaryConfig())
	s, err := g.Generate(context.Background(), []string{"chunk a", "chunk b"})
	require.NoError(t, err)

	require.Len(t, s.NarrativeSections, 1)
	assert.Equal(t, "Polished", s.NarrativeSections[0].Title)

	require.Len(t, sched.prefixes, 2)
	assert.Equal(t, "summary_map", sched.prefixes[0])
	assert.Equal(t, "summary_polish", sched.prefixes[1])
	require.Len(t, sched.calls[0], 2)
	assert.Equal(t, "summary_map_chunk_0001", sched.calls[0][0].CustomID)
}

func TestGenerateRetriesMissingChunks(t *testing.T) {
	t.Parallel()

	sched := &scriptedScheduler{runs: [][]batch.Record{
		{summaryRecord(t, "summary_map_chunk_0001", microPayload("Alpha", "a"))},
		{summaryRecord(t, "summary_map_chunk_0002", microPayload("Beta", "b"))},
		nil, // polish returns nothing; merged result survives
	}}

	g := NewGenerator(sched, testLogger(), "model-x", testSummaryConfig())
	s, err := g.Generate(context.Background(), []string{"chunk a", "chunk b"})
	require.NoError(t, err)

	require.Len(t, sched.prefixes, 3)
	assert.Equal(t, "summary_map_retry1", sched.prefixes[1])
	require.Len(t, sched.calls[1], 1)
	assert.Equal(t, "summary_map_chunk_0002", sched.calls[1][0].CustomID)

	// Merged fallback covers both chunks.
	titles := make([]string, 0, len(s.NarrativeSections))
	for _, ns := range s.NarrativeSections {
		titles = append(titles, ns.Title)
	}
	assert.Equal(t, []string{"Alpha", "Beta"}, titles)
}

func TestGenerateNoChunks(t *testing.T) {
	t.Parallel()

	g := NewGenerator(&scriptedScheduler{}, testLogger(), "model-x", testSummaryConfig())
	_, err := g.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoChunks)
}

func TestChunkIndex(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]int{
		"summary_map_chunk_0001": 1,
		"summary_map_chunk_0042": 42,
	} {
		got, ok := chunkIndex(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	_, ok := chunkIndex("noindex")
	assert.False(t, ok)
	_, ok = chunkIndex(fmt.Sprintf("summary_map_chunk_%s", "xx"))
	assert.False(t, ok)
}
