// Package openai adapts the OpenAI Batch API to the batch.Service interface.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
)

// Client implements batch.Service on top of the hosted Batch API.
type Client struct {
	api openai.Client
	log *slog.Logger
}

// NewClient builds a Client from configuration. The base URL override is
// optional and supports OpenAI-compatible gateways.
func NewClient(cfg config.OpenAIConfig, log *slog.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api: openai.NewClient(opts...),
		log: log.With(slog.String("component", "openai_batch")),
	}
}

// Submit uploads the JSONL payload as a batch input file and creates a batch
// job against the responses endpoint. It returns the provider job id.
func (c *Client) Submit(ctx context.Context, jsonl []byte) (string, error) {
	file, err := c.api.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(jsonl), "input.jsonl", "application/jsonl"),
		Purpose: openai.FilePurposeBatch,
	})
	if err != nil {
		return "", fmt.Errorf("upload batch input: %w", err)
	}

	job, err := c.api.Batches.New(ctx, openai.BatchNewParams{
		InputFileID:      file.ID,
		Endpoint:         openai.BatchNewParamsEndpointV1Responses,
		CompletionWindow: openai.BatchNewParamsCompletionWindow24h,
	})
	if err != nil {
		return "", fmt.Errorf("create batch job: %w", err)
	}

	c.log.Debug("batch job created",
		slog.Int("bytes", len(jsonl)),
	)
	return job.ID, nil
}

// Status fetches the current job state and maps the provider status onto the
// scheduler's state machine.
func (c *Client) Status(ctx context.Context, jobID string) (batch.JobStatus, error) {
	job, err := c.api.Batches.Get(ctx, jobID)
	if err != nil {
		return batch.JobStatus{}, fmt.Errorf("get batch job: %w", err)
	}
	return batch.JobStatus{
		ID:           job.ID,
		State:        mapState(job.Status),
		OutputFileID: job.OutputFileID,
		ErrorFileID:  job.ErrorFileID,
		RequestCounts: batch.RequestCounts{
			Total:     job.RequestCounts.Total,
			Completed: job.RequestCounts.Completed,
			Failed:    job.RequestCounts.Failed,
		},
	}, nil
}

// Fetch downloads a file by id and returns its raw bytes.
func (c *Client) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.api.Files.Content(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file content: %w", err)
	}
	return data, nil
}

// Cancel requests cancellation of a running job.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	if _, err := c.api.Batches.Cancel(ctx, jobID); err != nil {
		return fmt.Errorf("cancel batch job: %w", err)
	}
	return nil
}

func mapState(s openai.BatchStatus) batch.State {
	switch s {
	case openai.BatchStatusCompleted:
		return batch.StateCompleted
	case openai.BatchStatusFailed:
		return batch.StateFailed
	case openai.BatchStatusExpired:
		return batch.StateExpired
	case openai.BatchStatusCancelled:
		return batch.StateCancelled
	default:
		// validating, in_progress, finalizing and cancelling all read as
		// still running; cancelling resolves to cancelled on a later poll.
		return batch.StateInProgress
	}
}
