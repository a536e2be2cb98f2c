// Package broadcast keeps the owning client and every observer of an account
// consistent with server loadout truth. There is no diffing and no periodic
// re-sync: loadouts are small and change rarely, so every change ships a full
// snapshot, and a late-joining observer converges by receiving one snapshot
// the moment it starts watching.
package broadcast

import (
	"sync"

	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/loadout"
)

// Transport queues outbound messages for named accounts. Implementations
// must be fire-and-forget: queuing never blocks the caller, which may hold a
// per-account lock. Satisfied by sse.Hub.
type Transport interface {
	Send(accounts []string, eventType string, payload interface{})
}

// Broadcaster tracks who observes whom and emits loadout and entitlement
// snapshots.
type Broadcaster struct {
	mu        sync.RWMutex
	observers map[string]map[string]bool // target account → watcher accounts
	watching  map[string]map[string]bool // watcher account → target accounts

	loadouts     *loadout.Store
	entitlements *entitlement.Store
	transport    Transport
}

// New creates a broadcaster over the given stores and transport.
func New(loadouts *loadout.Store, entitlements *entitlement.Store, transport Transport) *Broadcaster {
	return &Broadcaster{
		observers:    make(map[string]map[string]bool),
		watching:     make(map[string]map[string]bool),
		loadouts:     loadouts,
		entitlements: entitlements,
		transport:    transport,
	}
}

// ObserverStarted registers watcher as rendering target's avatar and
// immediately sends it one full snapshot, the only way a new observer
// converges to current state. Self-observation is ignored; the owner already
// receives every change.
func (b *Broadcaster) ObserverStarted(target, watcher string) {
	if target == watcher || target == "" || watcher == "" {
		return
	}
	b.mu.Lock()
	if b.observers[target] == nil {
		b.observers[target] = make(map[string]bool)
	}
	b.observers[target][watcher] = true
	if b.watching[watcher] == nil {
		b.watching[watcher] = make(map[string]bool)
	}
	b.watching[watcher][target] = true
	b.mu.Unlock()

	b.transport.Send([]string{watcher}, domain.MsgLoadoutSnapshot, b.snapshot(target))
}

// ObserverStopped removes one watch edge.
func (b *Broadcaster) ObserverStopped(target, watcher string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeEdge(target, watcher)
}

// DropAccount removes the account both as a watcher and as a watched target,
// called on session end.
func (b *Broadcaster) DropAccount(account string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for watcher := range b.observers[account] {
		b.removeEdge(account, watcher)
	}
	for target := range b.watching[account] {
		b.removeEdge(target, account)
	}
}

// removeEdge must be called with the mutex held.
func (b *Broadcaster) removeEdge(target, watcher string) {
	if set, ok := b.observers[target]; ok {
		delete(set, watcher)
		if len(set) == 0 {
			delete(b.observers, target)
		}
	}
	if set, ok := b.watching[watcher]; ok {
		delete(set, target)
		if len(set) == 0 {
			delete(b.watching, watcher)
		}
	}
}

// Recipients returns the owner plus every current observer of the account.
// The owner is always first.
func (b *Broadcaster) Recipients(account string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, 1+len(b.observers[account]))
	out = append(out, account)
	for watcher := range b.observers[account] {
		out = append(out, watcher)
	}
	return out
}

// LoadoutChanged emits one full snapshot of the account's loadout to the
// owner and all observers. Callers invoke it after the store mutation, inside
// the account's serialization point, so successive snapshots queue in causal
// order for every recipient.
func (b *Broadcaster) LoadoutChanged(account string) {
	b.transport.Send(b.Recipients(account), domain.MsgLoadoutSnapshot, b.snapshot(account))
}

// EntitlementsChanged emits the account's grant state to the owning
// connection only. Observers never see entitlements.
func (b *Broadcaster) EntitlementsChanged(account string) {
	b.transport.Send([]string{account}, domain.MsgEntitlementSnapshot, b.entitlements.Snapshot(account))
}

// SendDenial reports a refused activation to the requesting connection only.
func (b *Broadcaster) SendDenial(account, itemID, reason string) {
	b.transport.Send([]string{account}, domain.MsgActivationDenied, domain.ActivationDenied{
		ItemID: itemID,
		Reason: reason,
	})
}

// SendReplay emits a replay event to the owner and all observers.
func (b *Broadcaster) SendReplay(account string, ev domain.ReplayEvent) {
	b.transport.Send(b.Recipients(account), domain.MsgReplayEvent, ev)
}

func (b *Broadcaster) snapshot(account string) domain.LoadoutSnapshot {
	return domain.LoadoutSnapshot{
		Account:  account,
		Equipped: b.loadouts.AllEquipped(account),
	}
}
