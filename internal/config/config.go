package config

import "strings"

// Config holds all pipeline configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	OpenAI    OpenAIConfig    `mapstructure:"openai" validate:"required"`
	Segment   SegmentConfig   `mapstructure:"segment" validate:"required"`
	Batch     BatchConfig     `mapstructure:"batch" validate:"required"`
	Questions QuestionsConfig `mapstructure:"questions" validate:"required"`
	Summary   SummaryConfig   `mapstructure:"summary" validate:"required"`
	Taxonomy  TaxonomyConfig  `mapstructure:"taxonomy"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// OpenAIConfig contains the generation-service settings.
type OpenAIConfig struct {
	APIKey        string `mapstructure:"api_key" validate:"required"`
	BaseURL       string `mapstructure:"base_url" validate:"omitempty,url"`
	TopicModel    string `mapstructure:"topic_model" validate:"required"`
	QuestionModel string `mapstructure:"question_model" validate:"required"`
	SummaryModel  string `mapstructure:"summary_model" validate:"required"`
}

// SegmentConfig bounds the semantic segmenter.
type SegmentConfig struct {
	MaxChars int `mapstructure:"max_chars" validate:"required,gt=0"`
	Overlap  int `mapstructure:"overlap" validate:"gte=0"`
}

// SoftMin is the minimum chunk size the packer tries to respect. It is
// derived from the overlap setting with a floor so tiny overlap values do
// not produce confetti chunks.
func (s SegmentConfig) SoftMin() int {
	if s.Overlap < 600 {
		return 600
	}
	return s.Overlap
}

// BatchConfig controls sharding and the poll loop.
type BatchConfig struct {
	// ShardSize is the maximum number of requests per submitted shard.
	// Zero disables the count bound.
	ShardSize int `mapstructure:"shard_size" validate:"gte=0"`
	// MaxBytes is the serialized-byte budget per shard. Zero disables it.
	MaxBytes int `mapstructure:"max_bytes" validate:"gte=0"`
	// PollSeconds is the fixed status poll interval.
	PollSeconds int `mapstructure:"poll_seconds" validate:"required,gt=0"`
	// ProgressSeconds is the slower cadence for progress log lines.
	ProgressSeconds int `mapstructure:"progress_seconds" validate:"required,gt=0"`
	// TimeoutSeconds bounds a single shard's wait. Zero waits forever.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=0"`
	// CancelOnTimeout requests server-side cancellation of an in-flight
	// job when the wait times out or the run is interrupted.
	CancelOnTimeout bool `mapstructure:"cancel_on_timeout"`
	// MaxRetries bounds retries of the submit call itself.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`
	// RetryDelaySeconds is the base delay for submit retry backoff.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// QuestionsConfig controls question planning volume and context sampling.
type QuestionsConfig struct {
	// TypesPerTopic is the comma-separated content-type mix generated for
	// every topic, e.g. "msq,mcq,mcq,tf". Repeats are allowed and raise
	// the per-topic volume of that type.
	TypesPerTopic string `mapstructure:"types_per_topic" validate:"required"`
	// Multiplier repeats the whole mix per topic.
	Multiplier int `mapstructure:"multiplier" validate:"required,gt=0"`
	// MaxContextChars is the hard ceiling on a sampled context payload.
	MaxContextChars int `mapstructure:"max_context_chars" validate:"required,gt=0"`
	// SampleWindows is the number of equal windows sampled across a span.
	SampleWindows int `mapstructure:"sample_windows" validate:"required,gt=0"`
	// SampleHeadChars / SampleTailChars bound the head and tail slice per window.
	SampleHeadChars int `mapstructure:"sample_head_chars" validate:"required,gt=0"`
	SampleTailChars int `mapstructure:"sample_tail_chars" validate:"required,gt=0"`
	// MaxContextScanChars caps how much flattened context the leak check scans.
	MaxContextScanChars int `mapstructure:"max_context_scan_chars" validate:"required,gt=0"`
	// MaxOutputTokens caps each generation response.
	MaxOutputTokens int `mapstructure:"max_output_tokens" validate:"required,gt=0"`
}

// Types returns the parsed content-type mix, trimmed and lowercased.
func (q QuestionsConfig) Types() []string {
	parts := strings.Split(q.TypesPerTopic, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToLower(strings.TrimSpace(p)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SummaryConfig controls the study-summary map/merge/polish flow.
type SummaryConfig struct {
	ShardSize       int `mapstructure:"shard_size" validate:"gte=0"`
	MaxBytes        int `mapstructure:"max_bytes" validate:"gte=0"`
	RetryMissing    int `mapstructure:"retry_missing" validate:"gte=0"`
	MapMaxTokens    int `mapstructure:"map_max_tokens" validate:"required,gt=0"`
	PolishMaxTokens int `mapstructure:"polish_max_tokens" validate:"required,gt=0"`
}

// TaxonomyConfig controls the taxonomy artifact.
type TaxonomyConfig struct {
	// Version overrides the taxonomy version label. Empty means today's date.
	Version string `mapstructure:"version"`
}
