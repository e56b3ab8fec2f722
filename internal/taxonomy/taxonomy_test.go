package taxonomy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/domain"
	"github.com/quizforge/quizforge/internal/topicmap"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"Customer Collaboration", "customer_collaboration"},
		{"  API-design / basics ", "api_design_basics"},
		{"already_slugged", "already_slugged"},
		{"!!!", "tag"},
		{"", "tag"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slug(tc.in), "input %q", tc.in)
	}
}

func TestSmartTitle(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"customer-collaboration", "Customer Collaboration"},
		{"instruction guides", "Instruction Guides"},
		{"api_design", "API Design"},
		{"http/sql basics", "HTTP SQL Basics"},
		{"   ", ""},
		{"ALREADY   SPACED", "Already Spaced"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SmartTitle(tc.in), "input %q", tc.in)
	}
}

func testTopicMap() *topicmap.TopicMap {
	return &topicmap.TopicMap{
		Units: []topicmap.Unit{
			{
				UnitID: "u1",
				Title:  "getting-started",
				Topics: []topicmap.Topic{
					{TopicID: "u1_t1", Title: "core ideas", Summary: "The basics.", ChunkSpan: [2]int{0, 1}},
					{TopicID: "u1_t2", Title: "api design", Summary: "Interfaces.", ChunkSpan: [2]int{2, 3}},
				},
			},
		},
	}
}

func testQuestions() []domain.Question {
	return []domain.Question{
		{Tags: []string{"Core Ideas", "core ideas"}, ConceptTags: []string{"abstraction"}, ContextTags: []string{"chapter-one"}},
		{Tags: []string{"api design"}, ConceptTags: []string{"abstraction"}, ContextTags: []string{"chapter-one"}},
	}
}

func TestBuildStructure(t *testing.T) {
	t.Parallel()

	tax, err := Build(testTopicMap(), testQuestions(), config.TaxonomyConfig{Version: "2026-01-15"})
	require.NoError(t, err)

	assert.Equal(t, "2026-01-15", tax.Version)

	require.Len(t, tax.Units, 1)
	assert.Equal(t, "u1", tax.Units[0].ID)
	assert.Equal(t, "Getting Started", tax.Units[0].Label)
	assert.Equal(t, "Includes topics: Core Ideas, API Design", tax.Units[0].Description)

	require.Len(t, tax.Topics, 2)
	assert.Equal(t, "u1_t1", tax.Topics[0].ID)
	assert.Equal(t, "Core Ideas", tax.Topics[0].Label)
	assert.Equal(t, "The basics.", tax.Topics[0].Description)
}

func TestBuildTagVocabularies(t *testing.T) {
	t.Parallel()

	tax, err := Build(testTopicMap(), testQuestions(), config.TaxonomyConfig{Version: "v"})
	require.NoError(t, err)

	// "Core Ideas" and "core ideas" are distinct raw spellings, so both
	// survive dedupe even though they share a slug.
	require.Len(t, tax.Tags, 3)
	assert.Equal(t, "core_ideas", tax.Tags[0].ID)
	assert.Equal(t, "Core Ideas", tax.Tags[0].Label)
	assert.Contains(t, tax.Tags[0].Aliases, "core ideas")
	assert.Contains(t, tax.Tags[0].Aliases, "core-ideas")

	require.Len(t, tax.ConceptTags, 1)
	assert.Equal(t, "abstraction", tax.ConceptTags[0].ID)

	require.Len(t, tax.ContextTags, 1)
	assert.Equal(t, "chapter_one", tax.ContextTags[0].ID)
	assert.Equal(t, "Chapter One", tax.ContextTags[0].Label)
}

func TestBuildDefaultVersionIsDate(t *testing.T) {
	t.Parallel()

	tax, err := Build(testTopicMap(), nil, config.TaxonomyConfig{})
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, tax.Version)
}

func TestBuildTruncatesLongTopicLists(t *testing.T) {
	t.Parallel()

	m := testTopicMap()
	for i := 0; i < 6; i++ {
		m.Units[0].Topics = append(m.Units[0].Topics, topicmap.Topic{
			TopicID: "u1_extra", Title: "extra topic", ChunkSpan: [2]int{0, 0},
		})
	}

	tax, err := Build(m, nil, config.TaxonomyConfig{Version: "v"})
	require.NoError(t, err)
	assert.Contains(t, tax.Units[0].Description, "...")
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tax, err := Build(testTopicMap(), testQuestions(), config.TaxonomyConfig{Version: "v"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "taxonomy.json")
	require.NoError(t, Write(path, tax))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got domain.Taxonomy
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "v", got.Version)
	assert.Len(t, got.Topics, 2)
}
