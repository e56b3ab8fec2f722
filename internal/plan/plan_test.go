package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/topicmap"
)

func testQuestionsConfig() config.QuestionsConfig {
	return config.QuestionsConfig{
		TypesPerTopic:       "msq,mcq,mcq,tf",
		Multiplier:          1,
		MaxContextChars:     45000,
		SampleWindows:       5,
		SampleHeadChars:     500,
		SampleTailChars:     500,
		MaxContextScanChars: 8000,
		MaxOutputTokens:     1600,
	}
}

func testTopicMap() *topicmap.TopicMap {
	return &topicmap.TopicMap{
		SchemaVersion: "1.0",
		Units: []topicmap.Unit{
			{
				UnitID: "u1",
				Title:  "Unit 1",
				Topics: []topicmap.Topic{
					{TopicID: "u1_t1_intro", Title: "Intro", Summary: "Opening.", ChunkSpan: [2]int{0, 0}},
					{TopicID: "u1_t2_core", Title: "Core", Summary: "Main ideas.", ChunkSpan: [2]int{1, 2}},
				},
			},
			{
				UnitID: "u2",
				Title:  "Unit 2",
				Topics: []topicmap.Topic{
					{TopicID: "u2_t1_advanced", Title: "Advanced", Summary: "Deep dive.", ChunkSpan: [2]int{3, 3}},
				},
			},
		},
	}
}

func testChunks() []string {
	return []string{
		"chunk zero text about the introduction",
		"chunk one text with the core ideas",
		"chunk two text continuing the core ideas",
		"chunk three text on advanced usage",
	}
}

func TestBuildVolumeAndUniqueIDs(t *testing.T) {
	t.Parallel()

	m := testTopicMap()
	cfg := testQuestionsConfig()

	reqs, err := Build(m, testChunks(), cfg, "gpt-test")
	require.NoError(t, err)

	// 3 topics x 4 types-per-topic x multiplier 1
	assert.Len(t, reqs, 12)
	assert.Equal(t, ExpectedTotal(m, cfg), len(reqs))
	require.NoError(t, batch.AssertUniqueCustomIDs(reqs))
}

func TestBuildCustomIDConvention(t *testing.T) {
	t.Parallel()

	reqs, err := Build(testTopicMap(), testChunks(), testQuestionsConfig(), "gpt-test")
	require.NoError(t, err)

	// Mix is msq,mcq,mcq,tf: the repeated mcq gets _01 then _02.
	assert.Equal(t, "q_u1_u1_t1_intro_msq_01", reqs[0].CustomID)
	assert.Equal(t, "q_u1_u1_t1_intro_mcq_01", reqs[1].CustomID)
	assert.Equal(t, "q_u1_u1_t1_intro_mcq_02", reqs[2].CustomID)
	assert.Equal(t, "q_u1_u1_t1_intro_tf_01", reqs[3].CustomID)
	assert.Equal(t, "q_u2_u2_t1_advanced_msq_01", reqs[8].CustomID)
}

func TestBuildMultiplierContinuesSequences(t *testing.T) {
	t.Parallel()

	cfg := testQuestionsConfig()
	cfg.TypesPerTopic = "tf"
	cfg.Multiplier = 3

	m := &topicmap.TopicMap{Units: []topicmap.Unit{{
		UnitID: "u1",
		Topics: []topicmap.Topic{{TopicID: "u1_t1_x", Title: "X", Summary: "s", ChunkSpan: [2]int{0, 0}}},
	}}}

	reqs, err := Build(m, testChunks(), cfg, "gpt-test")
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, "q_u1_u1_t1_x_tf_01", reqs[0].CustomID)
	assert.Equal(t, "q_u1_u1_t1_x_tf_02", reqs[1].CustomID)
	assert.Equal(t, "q_u1_u1_t1_x_tf_03", reqs[2].CustomID)
}

func TestBuildRejectsEmptyMix(t *testing.T) {
	t.Parallel()

	cfg := testQuestionsConfig()
	cfg.TypesPerTopic = " , "
	_, err := Build(testTopicMap(), testChunks(), cfg, "gpt-test")
	assert.Error(t, err)
}

func TestMixCountsTypes(t *testing.T) {
	t.Parallel()

	reqs, err := Build(testTopicMap(), testChunks(), testQuestionsConfig(), "gpt-test")
	require.NoError(t, err)

	mix := Mix(reqs)
	assert.Equal(t, map[string]int{"msq": 3, "mcq": 6, "tf": 3}, mix)
}

func TestTypeFromCustomID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mcq", TypeFromCustomID("q_u1_u1_t1_slug_mcq_01"))
	assert.Equal(t, "tf", TypeFromCustomID("q_u2_u2_t3_other_tf_02"))
	assert.Empty(t, TypeFromCustomID("topicmap_0001"))
}

func TestSampleContextBoundedAndRepresentative(t *testing.T) {
	t.Parallel()

	cfg := testQuestionsConfig()
	cfg.MaxContextChars = 64
	cfg.SampleHeadChars = 20
	cfg.SampleTailChars = 20

	long := strings.Repeat("abcdefghij", 50)
	ctx := SampleContext([]string{long}, 0, 0, cfg)
	assert.Len(t, ctx, 64)

	// Short blocks come through whole: head covers them, tail is skipped.
	cfg.MaxContextChars = 45000
	ctx = SampleContext([]string{"tiny"}, 0, 0, cfg)
	assert.True(t, strings.HasPrefix(ctx, "tiny"))
}

func TestSampleContextEmptySpan(t *testing.T) {
	t.Parallel()

	cfg := testQuestionsConfig()
	assert.Empty(t, SampleContext(testChunks(), 3, 1, cfg))
}
