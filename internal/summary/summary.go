// Package summary builds the study-companion artifact from the segmented
// source: one map request per chunk, a deterministic local merge of the
// micro-summaries, and a single polish request that tidies the merged
// document. The polish call is best-effort; the merged document is always a
// valid fallback, so a late generation failure never loses chunk coverage.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/domain"
	"github.com/quizforge/quizforge/internal/normalize"
)

// ErrNoChunks is returned when Generate is called with nothing to summarize.
var ErrNoChunks = errors.New("no chunks to summarize")

// PolishRequestID identifies the single polish request.
const PolishRequestID = "summary_polish_0001"

type scheduler interface {
	Run(ctx context.Context, reqs []batch.Request, prefix string) ([]batch.Record, error)
}

// Generator runs the map, merge, and polish phases.
type Generator struct {
	sched scheduler
	log   *slog.Logger
	model string
	cfg   config.SummaryConfig
}

func NewGenerator(sched scheduler, log *slog.Logger, model string, cfg config.SummaryConfig) *Generator {
	return &Generator{
		sched: sched,
		log:   log.With(slog.String("component", "summary")),
		model: model,
		cfg:   cfg,
	}
}

// Generate produces the polished study summary for the chunk series.
func (g *Generator) Generate(ctx context.Context, chunks []string) (*domain.StudySummary, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	micros, err := g.mapChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	merged := &domain.StudySummary{SchemaVersion: "1.0"}
	for _, m := range micros {
		if m == nil {
			continue
		}
		merged = LocalMerge(merged, m)
	}

	return g.polish(ctx, merged), nil
}

// mapChunks summarizes every chunk through the batch service, retrying
// missing responses up to the configured attempt count. The returned slice
// is aligned to chunk order; a chunk that never produced a payload stays nil.
func (g *Generator) mapChunks(ctx context.Context, chunks []string) ([]*domain.StudySummary, error) {
	pending := make([]int, len(chunks))
	for i := range chunks {
		pending[i] = i + 1
	}

	byIdx := make(map[int]any)
	submit := func(indices []int, prefix string) error {
		reqs := make([]batch.Request, 0, len(indices))
		for _, i := range indices {
			req, err := g.mapRequest(i, chunks[i-1])
			if err != nil {
				return err
			}
			reqs = append(reqs, req)
		}
		records, err := g.sched.Run(ctx, reqs, prefix)
		if err != nil {
			return err
		}
		payloads, _ := normalize.Extract(g.log, records)
		for _, p := range payloads {
			idx, ok := chunkIndex(p.CustomID)
			if !ok {
				continue
			}
			byIdx[idx] = p.Value
		}
		return nil
	}

	if err := submit(pending, "summary_map"); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= g.cfg.RetryMissing; attempt++ {
		var missing []int
		for i := 1; i <= len(chunks); i++ {
			if _, ok := byIdx[i]; !ok {
				missing = append(missing, i)
			}
		}
		if len(missing) == 0 {
			break
		}
		g.log.InfoContext(ctx, "retrying missing chunk summaries",
			slog.Int("missing", len(missing)),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", g.cfg.RetryMissing))
		if err := submit(missing, fmt.Sprintf("summary_map_retry%d", attempt)); err != nil {
			return nil, err
		}
	}

	out := make([]*domain.StudySummary, len(chunks))
	got := 0
	for i := 1; i <= len(chunks); i++ {
		payload, ok := byIdx[i]
		if !ok {
			continue
		}
		out[i-1] = CoerceShape(payload)
		got++
	}
	g.log.InfoContext(ctx, "chunk summaries complete",
		slog.Int("successful", got),
		slog.Int("chunks", len(chunks)))
	return out, nil
}

func (g *Generator) mapRequest(idx int, chunk string) (batch.Request, error) {
	return batch.NewRequest(
		fmt.Sprintf("summary_map_chunk_%04d", idx),
		g.model,
		mapSystem,
		fmt.Sprintf(mapUserFmt, chunk),
		g.cfg.MapMaxTokens,
	)
}

// chunkIndex recovers the 1-based chunk number from a map-request custom id.
func chunkIndex(customID string) (int, bool) {
	i := strings.LastIndex(customID, "_")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(customID[i+1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// polish sends the merged document through one tidy-up request. Any failure
// along the way falls back to the merged input.
func (g *Generator) polish(ctx context.Context, merged *domain.StudySummary) *domain.StudySummary {
	raw, err := json.Marshal(merged)
	if err != nil {
		g.log.WarnContext(ctx, "could not encode merged summary for polish", slog.Any("error", err))
		return merged
	}
	req, err := batch.NewRequest(PolishRequestID, g.model, polishSystem, fmt.Sprintf(polishUserFmt, raw), g.cfg.PolishMaxTokens)
	if err != nil {
		g.log.WarnContext(ctx, "could not build polish request", slog.Any("error", err))
		return merged
	}

	records, err := g.sched.Run(ctx, []batch.Request{req}, "summary_polish")
	if err != nil {
		g.log.WarnContext(ctx, "polish call failed, keeping merged summary", slog.Any("error", err))
		return merged
	}
	payloads, _ := normalize.Extract(g.log, records)
	if len(payloads) == 0 {
		g.log.WarnContext(ctx, "polish returned no payload, keeping merged summary")
		return merged
	}

	polished := CoerceShape(payloads[0].Value)
	if err := polished.Validate(); err != nil {
		g.log.WarnContext(ctx, "polished summary failed validation, keeping merged summary",
			slog.Any("error", err))
		return merged
	}
	return polished
}

// Write validates the summary and persists it as indented JSON.
func Write(path string, s *domain.StudySummary) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate study summary: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal study summary: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write study summary: %w", err)
	}
	return nil
}
