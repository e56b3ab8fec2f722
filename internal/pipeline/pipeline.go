// Package pipeline wires the full document-to-content run: segment the
// source, generate the study summary, plan and audit the topic map, generate
// and repair the question corpus, and derive the taxonomy. All generation
// goes through the batch scheduler; every stage leaves its artifacts in the
// data directory.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/quizforge/quizforge/internal/assemble"
	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/domain"
	"github.com/quizforge/quizforge/internal/normalize"
	"github.com/quizforge/quizforge/internal/plan"
	"github.com/quizforge/quizforge/internal/segment"
	"github.com/quizforge/quizforge/internal/summary"
	"github.com/quizforge/quizforge/internal/taxonomy"
	"github.com/quizforge/quizforge/internal/topicmap"
)

// Fatal pipeline errors.
var (
	ErrEmptySource       = errors.New("source text produced no chunks")
	ErrNoTopicMapPayload = errors.New("no topic map payload parsed")
	ErrNoQuestionPayload = errors.New("no question payloads parsed")
	ErrNoValidQuestions  = errors.New("no questions survived repair")
)

// Pipeline runs all stages against one data directory.
type Pipeline struct {
	cfg     *config.Config
	log     *slog.Logger
	svc     batch.Service
	dataDir string
}

func New(cfg *config.Config, log *slog.Logger, svc batch.Service, dataDir string) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, svc: svc, dataDir: dataDir}
}

// Run executes the whole pipeline over the source file. The study summary is
// best-effort: its failure is logged and the run continues with the topic
// map and questions. Every other stage failure aborts.
func (p *Pipeline) Run(ctx context.Context, sourcePath string) error {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read source %s: %w", sourcePath, err)
	}
	text := string(raw)

	chunks := segment.Segment(text, p.cfg.Segment.MaxChars, p.cfg.Segment.SoftMin())
	if len(chunks) == 0 {
		return ErrEmptySource
	}
	p.log.InfoContext(ctx, "source segmented",
		slog.Int("source_chars", len(text)),
		slog.Int("chunks", len(chunks)))

	p.runSummary(ctx, chunks)

	m, err := p.runTopicMap(ctx, chunks)
	if err != nil {
		return err
	}

	questions, err := p.runQuestions(ctx, m, chunks)
	if err != nil {
		return err
	}

	return p.runTaxonomy(ctx, m, questions)
}

// runSummary generates study_summary.json. A summary failure never fails
// the run.
func (p *Pipeline) runSummary(ctx context.Context, chunks []string) {
	sched := batch.NewScheduler(p.svc, p.log, p.dataDir, p.summaryOptions())
	gen := summary.NewGenerator(sched, p.log, p.cfg.OpenAI.SummaryModel, p.cfg.Summary)

	s, err := gen.Generate(ctx, chunks)
	if err != nil {
		p.log.WarnContext(ctx, "study summary generation failed, continuing without it",
			slog.Any("error", err))
		return
	}
	path := p.artifact("study_summary.json")
	if err := summary.Write(path, s); err != nil {
		p.log.WarnContext(ctx, "could not write study summary, continuing without it",
			slog.Any("error", err))
		return
	}
	p.log.InfoContext(ctx, "study summary written",
		slog.String("path", path),
		slog.Int("sections", len(s.NarrativeSections)),
		slog.Int("slides", len(s.Slides)))
}

func (p *Pipeline) runTopicMap(ctx context.Context, chunks []string) (*topicmap.TopicMap, error) {
	previews := segment.Preview(chunks, 10)
	req, err := topicmap.BuildRequest(previews, p.cfg.OpenAI.TopicModel, topicmap.DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	sched := batch.NewScheduler(p.svc, p.log, p.dataDir, p.batchOptions())
	records, err := sched.Run(ctx, []batch.Request{req}, "topicmap")
	if err != nil {
		return nil, err
	}

	payloads, _ := normalize.Extract(p.log, records)
	if len(payloads) == 0 {
		return nil, ErrNoTopicMapPayload
	}

	m, err := topicmap.Parse(payloads[0].Value)
	if err != nil {
		return nil, err
	}
	if err := topicmap.Audit(m, len(chunks)); err != nil {
		return nil, err
	}

	path := p.artifact("topicmap.json")
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal topic map: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write topic map: %w", err)
	}

	p.log.InfoContext(ctx, "topic map parsed and audited",
		slog.Int("units", len(m.Units)),
		slog.Int("topics", m.TopicCount()),
		slog.String("path", path))
	return m, nil
}

func (p *Pipeline) runQuestions(ctx context.Context, m *topicmap.TopicMap, chunks []string) ([]domain.Question, error) {
	reqs, err := plan.Build(m, chunks, p.cfg.Questions, p.cfg.OpenAI.QuestionModel)
	if err != nil {
		return nil, err
	}

	expected := plan.ExpectedTotal(m, p.cfg.Questions)
	p.log.InfoContext(ctx, "question requests planned",
		slog.Int("requests", len(reqs)),
		slog.Int("topics", m.TopicCount()),
		slog.Any("mix", plan.Mix(reqs)))
	if expected != len(reqs) {
		p.log.WarnContext(ctx, "planned request count differs from expected",
			slog.Int("planned", len(reqs)),
			slog.Int("expected", expected))
	}

	sched := batch.NewScheduler(p.svc, p.log, p.dataDir, p.batchOptions())
	records, err := sched.Run(ctx, reqs, "questions")
	if err != nil {
		return nil, err
	}

	payloads, stats := normalize.Extract(p.log, records)
	if len(payloads) == 0 {
		return nil, ErrNoQuestionPayload
	}
	p.log.InfoContext(ctx, "question payloads parsed",
		slog.Int("parsed", stats.Parsed),
		slog.Int("errors", stats.Errors),
		slog.Int("empty", stats.Empty))

	items := assemble.Flatten(p.log, payloads)
	questions := assemble.Repair(p.log, items, p.cfg.Questions.MaxContextScanChars)
	if len(questions) == 0 {
		return nil, ErrNoValidQuestions
	}

	path := p.artifact("questions_final.json")
	if err := assemble.WriteFinal(path, questions); err != nil {
		return nil, err
	}
	p.log.InfoContext(ctx, "final questions written",
		slog.Int("questions", len(questions)),
		slog.String("path", path))

	p.logQA(ctx, m, questions)
	return questions, nil
}

// logQA emits the post-assembly coverage summary: per-type counts and which
// units and topics the surviving questions touch.
func (p *Pipeline) logQA(ctx context.Context, m *topicmap.TopicMap, questions []domain.Question) {
	byType := make(map[string]int)
	unitSet := make(map[string]struct{})
	topicSet := make(map[string]struct{})
	for _, q := range questions {
		byType[q.Type]++
		unitSet[q.UnitID] = struct{}{}
		topicSet[q.TopicID] = struct{}{}
	}

	units := make([]string, 0, len(unitSet))
	for u := range unitSet {
		units = append(units, u)
	}
	sort.Strings(units)

	p.log.InfoContext(ctx, "qa summary",
		slog.Any("by_type", byType),
		slog.Any("units_covered", units),
		slog.Int("topics_covered", len(topicSet)),
		slog.Int("topics_total", m.TopicCount()))
}

func (p *Pipeline) runTaxonomy(ctx context.Context, m *topicmap.TopicMap, questions []domain.Question) error {
	tax, err := taxonomy.Build(m, questions, p.cfg.Taxonomy)
	if err != nil {
		return err
	}
	path := p.artifact("taxonomy.json")
	if err := taxonomy.Write(path, tax); err != nil {
		return err
	}
	p.log.InfoContext(ctx, "taxonomy written",
		slog.String("version", tax.Version),
		slog.Int("tags", len(tax.Tags)),
		slog.String("path", path))
	return nil
}

func (p *Pipeline) artifact(name string) string {
	return filepath.Join(p.dataDir, name)
}

func (p *Pipeline) batchOptions() batch.Options {
	b := p.cfg.Batch
	return batch.Options{
		ShardSize:       b.ShardSize,
		MaxBytes:        b.MaxBytes,
		PollInterval:    time.Duration(b.PollSeconds) * time.Second,
		ProgressEvery:   time.Duration(b.ProgressSeconds) * time.Second,
		Timeout:         time.Duration(b.TimeoutSeconds) * time.Second,
		CancelOnTimeout: b.CancelOnTimeout,
		Retry:           p.retryPolicy(),
	}
}

// summaryOptions reuses the poll cadence of the main batch settings with the
// summary-specific shard bounds.
func (p *Pipeline) summaryOptions() batch.Options {
	opts := p.batchOptions()
	opts.ShardSize = p.cfg.Summary.ShardSize
	opts.MaxBytes = p.cfg.Summary.MaxBytes
	return opts
}

func (p *Pipeline) retryPolicy() batch.RetryPolicy {
	policy := batch.DefaultRetryPolicy()
	if p.cfg.Batch.MaxRetries > 0 {
		policy.MaxAttempts = p.cfg.Batch.MaxRetries
	}
	if p.cfg.Batch.RetryDelaySeconds > 0 {
		policy.BaseDelay = time.Duration(p.cfg.Batch.RetryDelaySeconds) * time.Second
	}
	return policy
}
