// Package loadout tracks what each account has equipped, one item per
// category. The store is a total function over opaque ids: it accepts item
// ids the catalog has never heard of. Validation is the request handler's and
// activation gateway's job, kept out of here so the store stays simple.
package loadout

import (
	"sync"

	"github.com/aethergame/vanitycore/internal/domain"
)

// Store holds per-account equip state. Each account's loadout is replaced
// wholesale on mutation, so a snapshot reader never observes a half-applied
// change (ClearAll in particular is atomic to readers).
type Store struct {
	mu       sync.RWMutex
	accounts map[string]map[domain.Category]string
}

// NewStore creates an empty loadout store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]map[domain.Category]string)}
}

// SetEquipped equips itemID in the category, overwriting whatever was there.
// The ItemNone sentinel (or empty string) clears the category instead.
// Returns false when the loadout did not change, so callers can suppress
// no-op snapshots.
func (s *Store) SetEquipped(account string, cat domain.Category, itemID string) bool {
	if itemID == "" || itemID == domain.ItemNone {
		return s.ClearCategory(account, cat)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.accounts[account]
	if current[cat] == itemID {
		return false
	}
	next := cloneLoadout(current)
	next[cat] = itemID
	s.accounts[account] = next
	return true
}

// ClearCategory unequips the category. Returns false when nothing was
// equipped there.
func (s *Store) ClearCategory(account string, cat domain.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[account]
	if !ok {
		return false
	}
	if _, equipped := current[cat]; !equipped {
		return false
	}
	next := cloneLoadout(current)
	delete(next, cat)
	if len(next) == 0 {
		delete(s.accounts, account)
	} else {
		s.accounts[account] = next
	}
	return true
}

// ClearAll unequips every category at once. Returns false when the loadout
// was already empty.
func (s *Store) ClearAll(account string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account]; !ok {
		return false
	}
	delete(s.accounts, account)
	return true
}

// AllEquipped returns a copy of the account's full loadout. Never nil.
func (s *Store) AllEquipped(account string) map[domain.Category]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLoadout(s.accounts[account])
}

// EquippedID returns the item equipped in the category, if any.
func (s *Store) EquippedID(account string, cat domain.Category) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accounts[account][cat]
	return id, ok
}

// Restore replaces the account's loadout wholesale, used when a session loads
// persisted state. Entries with the none sentinel are dropped.
func (s *Store) Restore(account string, equipped map[domain.Category]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[domain.Category]string, len(equipped))
	for cat, id := range equipped {
		if cat == "" || id == "" || id == domain.ItemNone {
			continue
		}
		next[cat] = id
	}
	if len(next) == 0 {
		delete(s.accounts, account)
		return
	}
	s.accounts[account] = next
}

// Forget drops the account's in-memory loadout on session end.
func (s *Store) Forget(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, account)
}

func cloneLoadout(m map[domain.Category]string) map[domain.Category]string {
	out := make(map[domain.Category]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
