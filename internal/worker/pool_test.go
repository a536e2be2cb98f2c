package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aethergame/vanitycore/internal/testing/leaktest"
)

type countingJob struct {
	executed int32
	err      error
}

func (j *countingJob) Process(ctx context.Context) error {
	atomic.AddInt32(&j.executed, 1)
	return j.err
}

func waitForCount(t *testing.T, counter *int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(counter) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job count never reached %d (now %d)", want, atomic.LoadInt32(counter))
}

func TestPoolProcessesJobs(t *testing.T) {
	pool := NewPool(2, 10)
	pool.Start()
	defer pool.Stop()

	job := &countingJob{}
	assert.True(t, pool.Enqueue(job))
	assert.True(t, pool.Enqueue(job))

	waitForCount(t, &job.executed, 2)
}

func TestPoolSurvivesJobErrors(t *testing.T) {
	pool := NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	failing := &countingJob{err: errors.New("boom")}
	ok := &countingJob{}

	pool.Enqueue(failing)
	pool.Enqueue(ok)

	waitForCount(t, &ok.executed, 1)
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	// No workers started: the queue just fills up.
	pool := NewPool(0, 2)

	job := &countingJob{}
	assert.True(t, pool.Enqueue(job))
	assert.True(t, pool.Enqueue(job))
	assert.False(t, pool.Enqueue(job), "a full queue drops instead of blocking")
}

func TestPoolStopWaitsForWorkers(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := NewPool(3, 10)
		pool.Start()

		job := &countingJob{}
		pool.Enqueue(job)
		waitForCount(t, &job.executed, 1)

		pool.Stop()
	})
}

type sessionsStub struct {
	persisted int32
	err       error
}

func (s *sessionsStub) PersistAll(ctx context.Context) error {
	atomic.AddInt32(&s.persisted, 1)
	return s.err
}

func (s *sessionsStub) Count() int { return 0 }

func TestAutosaveJob(t *testing.T) {
	stub := &sessionsStub{}
	job := &AutosaveJob{Sessions: stub}

	assert.NoError(t, job.Process(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.persisted))

	stub.err = errors.New("disk full")
	assert.Error(t, job.Process(context.Background()))
}

type prunerStub struct {
	horizon time.Duration
	pruned  int
}

func (p *prunerStub) Prune(horizon time.Duration) int {
	p.horizon = horizon
	return p.pruned
}

func TestLedgerPruneJob(t *testing.T) {
	stub := &prunerStub{pruned: 3}
	job := &LedgerPruneJob{Ledger: stub, Horizon: 2 * time.Hour}

	assert.NoError(t, job.Process(context.Background()))
	assert.Equal(t, 2*time.Hour, stub.horizon)
}
