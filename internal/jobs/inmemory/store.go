package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvloznov/statement-ledger/internal/jobs"
)

// Store keeps job state in memory. Contents are lost on restart.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.IngestStatementJob
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobs.IngestStatementJob)}
}

func (s *Store) SaveJob(ctx context.Context, job *jobs.IngestStatementJob) error {
	if job.JobID == "" {
		return fmt.Errorf("SaveJob: job id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *job
	s.jobs[job.JobID] = &copied
	return nil
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.IngestStatementJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("GetJob: job not found: %s", jobID)
	}

	copied := *job
	return &copied, nil
}

func (s *Store) ListJobs(ctx context.Context, filter jobs.Filter) ([]*jobs.IngestStatementJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.IngestStatementJob
	for _, job := range s.jobs {
		if filter.Source != "" && job.Source != filter.Source {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		copied := *job
		result = append(result, &copied)
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

var _ jobs.Store = (*Store)(nil)
