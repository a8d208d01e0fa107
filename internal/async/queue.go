// Package async runs bulk verification jobs on a bounded queue with
// background workers.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mxchen-dev/paperproof/internal/common"
	"github.com/mxchen-dev/paperproof/internal/record"
)

// Job is one metadata document to verify.
type Job struct {
	ID           uuid.UUID
	MetadataPath string
	SubmittedAt  time.Time
}

// NewJob stamps a metadata path with an ID and submission time.
func NewJob(metadataPath string) Job {
	return Job{ID: uuid.New(), MetadataPath: metadataPath, SubmittedAt: time.Now()}
}

// Verifier is the paper-level entry point the queue drives.
type Verifier interface {
	Verify(ctx context.Context, ref *record.Reference) record.Outcome
}

// VerifyQueue drains jobs with a fixed worker pool. Verification holds the
// document corpus on remote-model latency, so the default is a single
// worker; results accumulate for export after Shutdown.
type VerifyQueue struct {
	verifier Verifier
	logger   *slog.Logger
	workers  int
	timeout  time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// mu guards closed and every send on ch, so Shutdown can never close
	// the channel while an Enqueue is mid-send.
	mu     sync.Mutex
	closed bool

	outMu    sync.Mutex
	outcomes []record.Outcome
}

type Option func(*VerifyQueue)

func WithWorkers(n int) Option {
	return func(q *VerifyQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *VerifyQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(q *VerifyQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewVerifyQueue(verifier Verifier, logger *slog.Logger, opts ...Option) *VerifyQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &VerifyQueue{
		verifier: verifier,
		logger:   logger,
		workers:  1,
		timeout:  10 * time.Minute,
		ch:       make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *VerifyQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("queue.worker.start", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Info("queue.worker.stop", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *VerifyQueue) run(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	ctx = common.WithRequestID(ctx, job.ID.String())

	start := time.Now()
	q.logger.Info("queue.job.start", "worker_id", workerID, "job_id", job.ID.String(), "path", job.MetadataPath)

	ref, err := record.Load(job.MetadataPath)
	var out record.Outcome
	if err != nil {
		out = record.Outcome{
			Reference: record.Reference{SourcePath: job.MetadataPath},
			Errors:    []string{err.Error()},
		}
		q.logger.Error("queue.job.load_failed", "worker_id", workerID, "job_id", job.ID.String(), "error", err)
	} else {
		out = q.verifier.Verify(ctx, ref)
	}

	q.outMu.Lock()
	q.outcomes = append(q.outcomes, out)
	q.outMu.Unlock()

	q.logger.Info("queue.job.done",
		"worker_id", workerID,
		"job_id", job.ID.String(),
		"title_match", out.Overall.Title,
		"author_match", out.Overall.Author,
		"date_match", out.Overall.Date,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

// Enqueue blocks when the queue is full. Enqueue after Shutdown is a no-op.
func (q *VerifyQueue) Enqueue(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "path", job.MetadataPath)
		return
	}

	select {
	case q.ch <- job:
		q.logger.Info("queue.enqueue.ok", "job_id", job.ID.String(), "path", job.MetadataPath)
	default:
		q.logger.Warn("queue.enqueue.backpressure", "path", job.MetadataPath)
		q.ch <- job
	}
}

// Shutdown closes the queue and waits for the workers to drain it, or for
// the context to give up.
func (q *VerifyQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.shutdown.drained")
	}
}

// Outcomes returns the results collected so far, in completion order.
func (q *VerifyQueue) Outcomes() []record.Outcome {
	q.outMu.Lock()
	defer q.outMu.Unlock()
	out := make([]record.Outcome, len(q.outcomes))
	copy(out, q.outcomes)
	return out
}
