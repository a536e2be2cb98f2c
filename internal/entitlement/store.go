// Package entitlement tracks which packs and individual items each account
// has been granted.
package entitlement

import (
	"sort"
	"sync"

	"github.com/aethergame/vanitycore/internal/domain"
)

// grants is the per-account grant state.
type grants struct {
	packs map[string]bool
	items map[string]bool
}

func (g *grants) empty() bool {
	return len(g.packs) == 0 && len(g.items) == 0
}

// PackResolver answers which pack an item belongs to. Satisfied by the
// catalog; kept as a small interface so the store stays catalog-agnostic in
// tests.
type PackResolver interface {
	Get(id string) (domain.Item, bool)
}

// Store holds per-account entitlement grants.
//
// The gate is two-mode by design: an account with no grants at all passes
// HasItem for everything, so a deployment with no entitlement configuration
// works out of the box. The moment the account receives any grant, HasItem
// becomes a strict allow-list. The mode is evaluated per account.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*grants
	resolver PackResolver
}

// NewStore creates an empty entitlement store.
func NewStore(resolver PackResolver) *Store {
	return &Store{
		accounts: make(map[string]*grants),
		resolver: resolver,
	}
}

func (s *Store) grantsFor(account string) *grants {
	g, ok := s.accounts[account]
	if !ok {
		g = &grants{packs: make(map[string]bool), items: make(map[string]bool)}
		s.accounts[account] = g
	}
	return g
}

// GrantPack grants every item in the pack to the account.
func (s *Store) GrantPack(account, pack string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grantsFor(account).packs[pack] = true
}

// RevokePack removes a pack grant. Revoking the last grant returns the
// account to default-open.
func (s *Store) RevokePack(account, pack string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.accounts[account]; ok {
		delete(g.packs, pack)
		if g.empty() {
			delete(s.accounts, account)
		}
	}
}

// GrantItem grants a single item id to the account.
func (s *Store) GrantItem(account, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grantsFor(account).items[itemID] = true
}

// RevokeItem removes an individual item grant.
func (s *Store) RevokeItem(account, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.accounts[account]; ok {
		delete(g.items, itemID)
		if g.empty() {
			delete(s.accounts, account)
		}
	}
}

// HasItem reports whether the account may equip or activate the item.
// Default-open until first grant; strict allow-list after.
func (s *Store) HasItem(account, itemID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.accounts[account]
	if !ok || g.empty() {
		return true
	}
	if g.items[itemID] {
		return true
	}
	if len(g.packs) > 0 && s.resolver != nil {
		if item, found := s.resolver.Get(itemID); found && g.packs[item.Pack] {
			return true
		}
	}
	return false
}

// Snapshot returns the account's full grant state, sorted for stable output.
func (s *Store) Snapshot(account string) domain.EntitlementSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.EntitlementSnapshot{
		Account: account,
		Packs:   []string{},
		Items:   []string{},
	}
	g, ok := s.accounts[account]
	if !ok {
		return snap
	}
	for p := range g.packs {
		snap.Packs = append(snap.Packs, p)
	}
	for i := range g.items {
		snap.Items = append(snap.Items, i)
	}
	sort.Strings(snap.Packs)
	sort.Strings(snap.Items)
	return snap
}

// Restore replaces the account's grant state wholesale, used when a session
// loads persisted grants.
func (s *Store) Restore(account string, packs, items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(packs) == 0 && len(items) == 0 {
		delete(s.accounts, account)
		return
	}
	g := &grants{packs: make(map[string]bool, len(packs)), items: make(map[string]bool, len(items))}
	for _, p := range packs {
		g.packs[p] = true
	}
	for _, i := range items {
		g.items[i] = true
	}
	s.accounts[account] = g
}

// Forget drops the account's in-memory grant state on session end.
func (s *Store) Forget(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, account)
}
