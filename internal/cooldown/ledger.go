// Package cooldown records the last successful activation of each
// (account, item) pair and gates re-activation behind a per-item window.
package cooldown

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrOnCooldown is returned when an activation is still inside the window.
type ErrOnCooldown struct {
	ItemID    string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	return fmt.Sprintf("item %q on cooldown: %s remaining", e.ItemID, e.Remaining.Round(time.Millisecond))
}

// Is allows errors.Is() to work with ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	_, ok := target.(ErrOnCooldown)
	return ok
}

// Clock supplies the server's notion of now. The ledger never trusts a
// client-supplied timestamp.
type Clock func() time.Time

// Ledger holds last-activation timestamps. Entries are created on first
// successful activation and only removed by Forget; absence is equivalent to
// "never used".
type Ledger struct {
	mu      sync.Mutex
	lastUse map[string]time.Time
	clock   Clock
}

// NewLedger creates a ledger on the real clock.
func NewLedger() *Ledger {
	return NewLedgerWithClock(time.Now)
}

// NewLedgerWithClock creates a ledger on an injected clock, for tests.
func NewLedgerWithClock(clock Clock) *Ledger {
	return &Ledger{
		lastUse: make(map[string]time.Time),
		clock:   clock,
	}
}

func key(account, itemID string) string {
	return account + "\x00" + itemID
}

// CheckAndStamp is the single atomic compare-and-set at the heart of
// activation: if the window since the last stamp has elapsed (or there is no
// stamp), it records now and returns nil; otherwise it returns ErrOnCooldown
// and leaves the ledger untouched. Check and stamp happen under one lock, so
// of two concurrent calls for the same (account, item) exactly one succeeds.
func (l *Ledger) CheckAndStamp(account, itemID string, window time.Duration) error {
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key(account, itemID)
	if last, ok := l.lastUse[k]; ok {
		elapsed := now.Sub(last)
		if elapsed < window {
			return ErrOnCooldown{ItemID: itemID, Remaining: window - elapsed}
		}
	}
	l.lastUse[k] = now
	return nil
}

// LastUsed returns the last successful activation time, if any. Read-only,
// for display and diagnostics.
func (l *Ledger) LastUsed(account, itemID string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.lastUse[key(account, itemID)]
	return t, ok
}

// Reset clears one entry (admin/testing).
func (l *Ledger) Reset(account, itemID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.lastUse, key(account, itemID))
}

// Prune drops entries whose stamp is older than horizon and returns how many
// were removed. Run periodically; safe for the same reason Forget is, since
// any pruned entry is far outside every configured window.
func (l *Ledger) Prune(horizon time.Duration) int {
	cutoff := l.clock().Add(-horizon)
	l.mu.Lock()
	defer l.mu.Unlock()

	pruned := 0
	for k, t := range l.lastUse {
		if t.Before(cutoff) {
			delete(l.lastUse, k)
			pruned++
		}
	}
	return pruned
}

// Forget garbage-collects every entry for an account on disconnect. Safe
// because a missing entry means "never used": the worst case after a
// reconnect is one early activation, never a stuck cooldown.
func (l *Ledger) Forget(account string) {
	prefix := account + "\x00"
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.lastUse {
		if strings.HasPrefix(k, prefix) {
			delete(l.lastUse, k)
		}
	}
}
