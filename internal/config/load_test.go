package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUIZFORGE_OPENAI_API_KEY", "test-api-key")

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 7000, cfg.Segment.MaxChars)
	assert.Equal(t, 700, cfg.Segment.Overlap)
	assert.Equal(t, 24, cfg.Batch.ShardSize)
	assert.Equal(t, 0, cfg.Batch.MaxBytes)
	assert.Equal(t, 5, cfg.Batch.PollSeconds)
	assert.True(t, cfg.Batch.CancelOnTimeout)
	assert.Equal(t, "msq,mcq,mcq,tf", cfg.Questions.TypesPerTopic)
	assert.Equal(t, 45000, cfg.Questions.MaxContextChars)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("QUIZFORGE_OPENAI_API_KEY", "")

	_, err := Load()

	require.Error(t, err, "Load() should fail when the API key is missing")
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QUIZFORGE_OPENAI_API_KEY", "test-api-key")
	t.Setenv("QUIZFORGE_BATCH_SHARD_SIZE", "8")
	t.Setenv("QUIZFORGE_SEGMENT_MAX_CHARS", "5000")
	t.Setenv("QUIZFORGE_QUESTIONS_TYPES_PER_TOPIC", "mcq,tf")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Batch.ShardSize)
	assert.Equal(t, 5000, cfg.Segment.MaxChars)
	assert.Equal(t, []string{"mcq", "tf"}, cfg.Questions.Types())
}

func TestLoadInvalidLogLevel(t *testing.T) {
	t.Setenv("QUIZFORGE_OPENAI_API_KEY", "test-api-key")
	t.Setenv("QUIZFORGE_LOG_LEVEL", "loud")

	_, err := Load()

	require.Error(t, err, "Load() should reject an unknown log level")
}

func TestQuestionsTypesParsing(t *testing.T) {
	t.Parallel()

	q := QuestionsConfig{TypesPerTopic: " MSQ , mcq ,, tf "}
	assert.Equal(t, []string{"msq", "mcq", "tf"}, q.Types())
}

func TestSegmentSoftMinFloor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 600, SegmentConfig{Overlap: 100}.SoftMin())
	assert.Equal(t, 700, SegmentConfig{Overlap: 700}.SoftMin())
}
