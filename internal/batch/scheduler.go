package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/quizforge/quizforge/internal/platform/logger"
)

// Scheduler errors that abort a run.
var (
	// ErrShardFailed is returned when a shard reaches a terminal state
	// other than completed. Partial success is never silently accepted.
	ErrShardFailed = errors.New("batch shard failed")

	// ErrTimeout is returned when a shard does not reach a terminal state
	// within the configured timeout.
	ErrTimeout = errors.New("batch shard timed out")
)

// Options bound a scheduler run.
type Options struct {
	// ShardSize and MaxBytes bound each submitted shard; zero disables
	// the respective bound.
	ShardSize int
	MaxBytes  int
	// PollInterval is the fixed status-poll cadence.
	PollInterval time.Duration
	// ProgressEvery is the slower cadence for progress log lines.
	ProgressEvery time.Duration
	// Timeout bounds one shard's wait; zero waits forever.
	Timeout time.Duration
	// CancelOnTimeout requests server-side cancellation when the wait is
	// abandoned (timeout or interrupt).
	CancelOnTimeout bool
	// Retry applies to the submit call only.
	Retry RetryPolicy
}

// Scheduler shards a planned request set, submits each shard as one
// asynchronous job, polls it to a terminal state, and aggregates downloaded
// results in shard order. Execution is deliberately sequential: one shard
// in flight at a time, concurrency lives on the service side.
type Scheduler struct {
	svc     Service
	log     *slog.Logger
	dataDir string
	opts    Options
}

// NewScheduler builds a scheduler writing shard artifacts under dataDir.
func NewScheduler(svc Service, log *slog.Logger, dataDir string, opts Options) *Scheduler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = time.Minute
	}
	return &Scheduler{svc: svc, log: log, dataDir: dataDir, opts: opts}
}

// Run submits all requests under the given artifact prefix and returns the
// raw output records across all shards, concatenated in shard order. Any
// shard ending in a non-completed terminal state aborts the run.
func (s *Scheduler) Run(ctx context.Context, reqs []Request, prefix string) ([]Record, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	if err := AssertUniqueCustomIDs(reqs); err != nil {
		return nil, err
	}

	shards := Shard(reqs, s.opts.ShardSize, s.opts.MaxBytes)
	s.log.InfoContext(ctx, "submitting planned requests",
		"prefix", prefix,
		"requests", len(reqs),
		"shards", len(shards),
		"max_per_shard", s.opts.ShardSize,
		"byte_cap", s.opts.MaxBytes)

	var records []Record
	for si, shard := range shards {
		shardRecords, err := s.runShard(ctx, shard, prefix, si+1, len(shards))
		if err != nil {
			return nil, err
		}
		records = append(records, shardRecords...)

		s.log.InfoContext(ctx, "shard aggregated",
			"prefix", prefix,
			"shard", si+1,
			"shards", len(shards),
			"records", len(shardRecords),
			"accumulated", len(records),
			"planned", len(reqs))
	}

	if err := s.writeCombined(prefix, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Scheduler) runShard(ctx context.Context, shard []Request, prefix string, num, total int) ([]Record, error) {
	jsonl, err := EncodeJSONL(shard)
	if err != nil {
		return nil, err
	}

	inPath := s.shardPath(prefix, num, "input")
	if err := os.WriteFile(inPath, jsonl, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write shard input %s: %w", inPath, err)
	}
	s.log.InfoContext(ctx, "shard written",
		"prefix", prefix, "shard", num, "shards", total,
		"requests", len(shard), "bytes", len(jsonl), "path", inPath)

	var jobID string
	err = s.opts.Retry.Do(ctx, s.log, "submit batch", func(ctx context.Context) error {
		var serr error
		jobID, serr = s.svc.Submit(ctx, jsonl)
		return serr
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "shard submitted",
		"prefix", prefix, "shard", num, "job_id", logger.Redact(jobID))

	status, err := s.waitTerminal(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if status.State != StateCompleted {
		s.reportShardFailure(ctx, status, prefix, num)
		return nil, fmt.Errorf("%w: shard %d/%d terminal state %q", ErrShardFailed, num, total, status.State)
	}

	if status.OutputFileID == "" {
		return nil, fmt.Errorf("%w: shard %d/%d completed without an output file", ErrShardFailed, num, total)
	}
	data, err := s.svc.Fetch(ctx, status.OutputFileID)
	if err != nil {
		return nil, fmt.Errorf("failed to download shard %d output: %w", num, err)
	}
	outPath := s.shardPath(prefix, num, "output")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write shard output %s: %w", outPath, err)
	}

	return SplitRecords(data), nil
}

// waitTerminal polls the job at the configured interval until it reaches a
// terminal state, logging progress at the slower cadence. The only blocking
// point is the interruptible sleep between polls.
func (s *Scheduler) waitTerminal(ctx context.Context, jobID string) (JobStatus, error) {
	var deadline time.Time
	if s.opts.Timeout > 0 {
		deadline = time.Now().Add(s.opts.Timeout)
	}
	lastProgress := time.Time{}

	for {
		status, err := s.svc.Status(ctx, jobID)
		if err != nil {
			return JobStatus{}, fmt.Errorf("failed to poll job status: %w", err)
		}
		if status.State.Terminal() {
			return status, nil
		}

		now := time.Now()
		if now.Sub(lastProgress) >= s.opts.ProgressEvery {
			s.log.InfoContext(ctx, "job in progress",
				"job_id", logger.Redact(jobID),
				"state", status.State,
				"completed", status.RequestCounts.Completed,
				"failed", status.RequestCounts.Failed,
				"total", status.RequestCounts.Total)
			lastProgress = now
		}

		if !deadline.IsZero() && now.After(deadline) {
			s.maybeCancel(jobID)
			return JobStatus{}, fmt.Errorf("%w: no terminal state within %s", ErrTimeout, s.opts.Timeout)
		}

		select {
		case <-time.After(s.opts.PollInterval):
		case <-ctx.Done():
			s.maybeCancel(jobID)
			return JobStatus{}, fmt.Errorf("polling interrupted: %w", ctx.Err())
		}
	}
}

// maybeCancel requests server-side cancellation of an abandoned job. The
// run is already failing, so a cancel failure is logged, not returned.
func (s *Scheduler) maybeCancel(jobID string) {
	if !s.opts.CancelOnTimeout {
		return
	}
	cctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.svc.Cancel(cctx, jobID); err != nil {
		s.log.Warn("best-effort job cancel failed",
			"job_id", logger.Redact(jobID), "error", err)
		return
	}
	s.log.Info("requested server-side job cancel", "job_id", logger.Redact(jobID))
}

// reportShardFailure downloads the error artifact when one exists and emits
// the grouped diagnostic summary before the run aborts.
func (s *Scheduler) reportShardFailure(ctx context.Context, status JobStatus, prefix string, num int) {
	s.log.ErrorContext(ctx, "shard reached failing terminal state",
		"prefix", prefix, "shard", num,
		"state", status.State,
		"completed", status.RequestCounts.Completed,
		"failed", status.RequestCounts.Failed,
		"total", status.RequestCounts.Total)

	if status.ErrorFileID == "" {
		return
	}
	data, err := s.svc.Fetch(ctx, status.ErrorFileID)
	if err != nil {
		s.log.WarnContext(ctx, "could not download error artifact", "error", err)
		return
	}
	errPath := s.shardPath(prefix, num, "errors")
	if err := os.WriteFile(errPath, data, 0o644); err != nil {
		s.log.WarnContext(ctx, "could not write error artifact", "path", errPath, "error", err)
	}
	SummarizeErrors(s.log, data)
}

func (s *Scheduler) writeCombined(prefix string, records []Record) error {
	path := filepath.Join(s.dataDir, prefix+"_output.jsonl")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create combined output %s: %w", path, err)
	}
	defer f.Close()
	for _, r := range records {
		if _, err := f.Write(append(r.Line, '\n')); err != nil {
			return fmt.Errorf("failed to write combined output %s: %w", path, err)
		}
	}
	return nil
}

func (s *Scheduler) shardPath(prefix string, num int, kind string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s.shard%02d.%s.jsonl", prefix, num, kind))
}
