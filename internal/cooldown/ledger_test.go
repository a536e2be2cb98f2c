package cooldown

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for deterministic window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckAndStampWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewLedgerWithClock(clock.Now)
	window := 1000 * time.Millisecond

	// t=0: never used, accepted
	require.NoError(t, l.CheckAndStamp("alice", "popper", window))

	// t=500ms: inside the window
	clock.Advance(500 * time.Millisecond)
	err := l.CheckAndStamp("alice", "popper", window)
	require.Error(t, err)

	var onCd ErrOnCooldown
	require.ErrorAs(t, err, &onCd)
	assert.Equal(t, "popper", onCd.ItemID)
	assert.Equal(t, 500*time.Millisecond, onCd.Remaining)

	// t=1000ms: window elapsed exactly, accepted again
	clock.Advance(500 * time.Millisecond)
	assert.NoError(t, l.CheckAndStamp("alice", "popper", window))
}

func TestRejectedAttemptDoesNotRestamp(t *testing.T) {
	clock := newFakeClock()
	l := NewLedgerWithClock(clock.Now)
	window := time.Second

	require.NoError(t, l.CheckAndStamp("alice", "popper", window))
	stamped, _ := l.LastUsed("alice", "popper")

	clock.Advance(600 * time.Millisecond)
	require.Error(t, l.CheckAndStamp("alice", "popper", window))

	after, ok := l.LastUsed("alice", "popper")
	require.True(t, ok)
	assert.Equal(t, stamped, after, "a denied attempt must not extend the window")
}

func TestWindowsAreIndependentPerAccountAndItem(t *testing.T) {
	clock := newFakeClock()
	l := NewLedgerWithClock(clock.Now)
	window := time.Second

	require.NoError(t, l.CheckAndStamp("alice", "popper", window))
	assert.NoError(t, l.CheckAndStamp("alice", "firework", window))
	assert.NoError(t, l.CheckAndStamp("bob", "popper", window))
}

func TestConcurrentActivationExactlyOneAccepted(t *testing.T) {
	l := NewLedger()
	window := time.Minute

	const attempts = 64
	var accepted int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := l.CheckAndStamp("alice", "popper", window); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else {
				assert.True(t, errors.Is(err, ErrOnCooldown{}))
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), accepted)
}

func TestReset(t *testing.T) {
	l := NewLedger()
	window := time.Minute

	require.NoError(t, l.CheckAndStamp("alice", "popper", window))
	require.Error(t, l.CheckAndStamp("alice", "popper", window))

	l.Reset("alice", "popper")
	assert.NoError(t, l.CheckAndStamp("alice", "popper", window))
}

func TestForgetClearsOnlyThatAccount(t *testing.T) {
	l := NewLedger()
	window := time.Minute

	require.NoError(t, l.CheckAndStamp("alice", "popper", window))
	require.NoError(t, l.CheckAndStamp("bob", "popper", window))

	l.Forget("alice")

	assert.NoError(t, l.CheckAndStamp("alice", "popper", window))
	assert.Error(t, l.CheckAndStamp("bob", "popper", window))
}

func TestPrune(t *testing.T) {
	clock := newFakeClock()
	l := NewLedgerWithClock(clock.Now)

	require.NoError(t, l.CheckAndStamp("alice", "popper", time.Second))
	clock.Advance(90 * time.Minute)
	require.NoError(t, l.CheckAndStamp("alice", "firework", time.Second))

	pruned := l.Prune(time.Hour)
	assert.Equal(t, 1, pruned)

	_, ok := l.LastUsed("alice", "popper")
	assert.False(t, ok)
	_, ok = l.LastUsed("alice", "firework")
	assert.True(t, ok)
}
