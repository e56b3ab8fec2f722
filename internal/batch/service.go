package batch

import "context"

// State is the lifecycle state of an external job.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
	StateExpired    State = "expired"
)

// Terminal reports whether a job in this state will never change again.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled, StateExpired:
		return true
	}
	return false
}

// RequestCounts summarizes per-request progress of a job.
type RequestCounts struct {
	Completed int64
	Failed    int64
	Total     int64
}

// JobStatus is a point-in-time view of a submitted job.
type JobStatus struct {
	ID            string
	State         State
	OutputFileID  string
	ErrorFileID   string
	RequestCounts RequestCounts
}

// Service is the generation-service boundary the scheduler depends on: an
// opaque async job store that accepts a JSONL request file and eventually
// yields a result or error artifact per custom id.
type Service interface {
	// Submit uploads the serialized request lines and starts a job.
	Submit(ctx context.Context, jsonl []byte) (jobID string, err error)
	// Status fetches the job's current state and artifact ids.
	Status(ctx context.Context, jobID string) (JobStatus, error)
	// Fetch downloads an artifact by file id.
	Fetch(ctx context.Context, fileID string) ([]byte, error)
	// Cancel requests server-side cancellation. Best effort.
	Cancel(ctx context.Context, jobID string) error
}
