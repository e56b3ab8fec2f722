package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// quizforge.yaml in the working directory. Environment variables use the
// QUIZFORGE_ prefix with underscores for nesting, e.g.
// QUIZFORGE_OPENAI_API_KEY, QUIZFORGE_BATCH_SHARD_SIZE, and take precedence
// over file values. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("quizforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("QUIZFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	// Empty-string defaults keep env-only keys visible to Unmarshal.
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.topic_model", "gpt-5")
	v.SetDefault("openai.question_model", "gpt-5")
	v.SetDefault("openai.summary_model", "gpt-5")

	v.SetDefault("segment.max_chars", 7000)
	v.SetDefault("segment.overlap", 700)

	v.SetDefault("batch.shard_size", 24)
	v.SetDefault("batch.max_bytes", 0)
	v.SetDefault("batch.poll_seconds", 5)
	v.SetDefault("batch.progress_seconds", 60)
	v.SetDefault("batch.timeout_seconds", 3600)
	v.SetDefault("batch.cancel_on_timeout", true)
	v.SetDefault("batch.max_retries", 3)
	v.SetDefault("batch.retry_delay_seconds", 2)

	v.SetDefault("questions.types_per_topic", "msq,mcq,mcq,tf")
	v.SetDefault("questions.multiplier", 1)
	v.SetDefault("questions.max_context_chars", 45000)
	v.SetDefault("questions.sample_windows", 5)
	v.SetDefault("questions.sample_head_chars", 500)
	v.SetDefault("questions.sample_tail_chars", 500)
	v.SetDefault("questions.max_context_scan_chars", 8000)
	v.SetDefault("questions.max_output_tokens", 1600)

	v.SetDefault("summary.shard_size", 24)
	v.SetDefault("summary.max_bytes", 0)
	v.SetDefault("summary.retry_missing", 1)
	v.SetDefault("summary.map_max_tokens", 900)
	v.SetDefault("summary.polish_max_tokens", 4000)

	v.SetDefault("taxonomy.version", "")
}
