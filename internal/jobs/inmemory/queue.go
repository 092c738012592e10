package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-ledger/internal/jobs"
	"github.com/dvloznov/statement-ledger/internal/logger"
)

const defaultMaxRetries = 3

// Queue is a channel-backed job queue for single-instance deployments. It is
// safe for concurrent use and implements both jobs.Publisher and
// jobs.Consumer.
type Queue struct {
	jobChan   chan *jobs.IngestStatementJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.Store
	workers   int
	closed    bool
}

// NewQueue creates a queue holding up to bufferSize pending jobs, processed
// by workers concurrent consumers. store may be nil when job tracking is not
// needed.
func NewQueue(bufferSize, workers int, store jobs.Store) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		jobChan:   make(chan *jobs.IngestStatementJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		workers:   workers,
	}
}

// Publish enqueues a job, filling in id, status and timestamps when unset.
// It blocks while the buffer is full.
func (q *Queue) Publish(ctx context.Context, job *jobs.IngestStatementJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("Publish: queue is closed")
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = defaultMaxRetries
	}

	if q.store != nil {
		if err := q.store.SaveJob(ctx, job); err != nil {
			return fmt.Errorf("Publish: saving job %s: %w", job.JobID, err)
		}
	}

	select {
	case q.jobChan <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return fmt.Errorf("Publish: queue is closed")
	}
}

// Start launches the worker goroutines. It returns immediately; use Stop to
// drain.
func (q *Queue) Start(ctx context.Context, handler jobs.Handler) error {
	q.mu.RLock()
	closed := q.closed
	q.mu.RUnlock()
	if closed {
		return fmt.Errorf("Start: queue is closed")
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.process(ctx, job, handler)
		}
	}
}

func (q *Queue) process(ctx context.Context, job *jobs.IngestStatementJob, handler jobs.Handler) {
	log := logger.FromContext(ctx).With().
		Str("job_id", job.JobID).
		Str("source", job.Source).
		Logger()

	job.Status = jobs.JobStatusRunning
	started := time.Now()
	job.StartedAt = &started
	q.save(ctx, job)

	err := handler(ctx, job)

	completed := time.Now()
	job.CompletedAt = &completed

	switch {
	case err == nil:
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
		log.Info().Msg("job completed")

	case job.RetryCount < job.MaxRetries:
		job.RetryCount++
		job.Status = jobs.JobStatusRetrying
		job.Error = err.Error()
		log.Warn().Err(err).Int("retry", job.RetryCount).Msg("job failed, retrying")

		backoff := time.Duration(job.RetryCount) * time.Second
		time.AfterFunc(backoff, func() {
			job.Status = jobs.JobStatusPending
			job.StartedAt = nil
			job.CompletedAt = nil
			if err := q.Publish(ctx, job); err != nil {
				log.Error().Err(err).Msg("re-enqueue failed")
			}
		})

	default:
		job.Status = jobs.JobStatusFailed
		job.Error = err.Error()
		log.Error().Err(err).Msg("job failed permanently")
	}

	q.save(ctx, job)
}

func (q *Queue) save(ctx context.Context, job *jobs.IngestStatementJob) {
	if q.store == nil {
		return
	}
	if err := q.store.SaveJob(ctx, job); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("job_id", job.JobID).Msg("saving job state failed")
	}
}

// Stop closes the queue and waits for in-flight jobs to finish or ctx to
// expire.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

var _ jobs.Publisher = (*Queue)(nil)
var _ jobs.Consumer = (*Queue)(nil)
