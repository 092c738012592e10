package jobs

import (
	"context"
	"time"
)

// JobStatus is the lifecycle state of a queued job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// IngestStatementJob asks a worker to run the full ingestion pipeline over
// one statement source. Source is a local path or a gs:// URI.
type IngestStatementJob struct {
	JobID       string     `json:"job_id"`
	Source      string     `json:"source"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
}

// Handler processes one job. A returned error marks the attempt failed and
// makes the job eligible for retry.
type Handler func(ctx context.Context, job *IngestStatementJob) error

// Publisher enqueues ingestion jobs.
type Publisher interface {
	Publish(ctx context.Context, job *IngestStatementJob) error
	Close() error
}

// Consumer pulls jobs off the queue and runs them through a Handler.
type Consumer interface {
	Start(ctx context.Context, handler Handler) error
	Stop(ctx context.Context) error
}

// Store tracks job state so progress survives inspection mid-run.
type Store interface {
	SaveJob(ctx context.Context, job *IngestStatementJob) error
	GetJob(ctx context.Context, jobID string) (*IngestStatementJob, error)
	ListJobs(ctx context.Context, filter Filter) ([]*IngestStatementJob, error)
}

// Filter narrows a ListJobs call.
type Filter struct {
	Source string
	Status JobStatus
	Limit  int
}
