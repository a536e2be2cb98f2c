// Package worker runs background maintenance jobs (state autosave, ledger
// pruning) on a small fixed pool, keeping them off the request path.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool represents a worker pool
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	quit     chan struct{}
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			ctx, cancel := context.WithTimeout(context.Background(), JobTimeout)
			if err := job.Process(ctx); err != nil {
				slog.Error(LogMsgWorkerJobFailed, "error", err)
			}
			cancel()
		case <-p.quit:
			return
		}
	}
}

// Enqueue adds a job to the queue. Non-blocking: a full queue drops the job
// with a diagnostic, since every maintenance job here is periodic and the
// next tick retries anyway.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		slog.Warn(LogMsgWorkerQueueFull)
		return false
	}
}

// Stop stops the workers and waits for them to finish
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// JobTimeout bounds a single job execution.
const JobTimeout = 30 * time.Second
