package concurrency

import "sync"

// LockManager hands out named locks. The cosmetics core uses one lock per
// account so that mutations to a single account's loadout, entitlements and
// cooldowns are linearizable while different accounts proceed in parallel.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager.
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it on first use.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the named lock. fn must not block on I/O;
// outbound notifications are queued, never delivered, under the lock.
func (lm *LockManager) WithLock(key string, fn func()) {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	fn()
}

// Forget drops the lock for a key. Called when an account's session ends so
// the map does not grow without bound.
func (lm *LockManager) Forget(key string) {
	lm.locks.Delete(key)
}
