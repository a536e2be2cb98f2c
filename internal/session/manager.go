// Package session ties an account's in-memory cosmetic state to its
// connection lifecycle: state is loaded from the repository on join,
// mutated in memory while the session lives, and persisted on leave.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/concurrency"
	"github.com/aethergame/vanitycore/internal/cooldown"
	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/loadout"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/repository"
)

// Session is the live per-account state that is not worth persisting:
// identity of the connection and the avatar transform used when stamping
// replay events.
type Session struct {
	ID       string
	Account  string
	JoinedAt time.Time

	mu     sync.RWMutex
	origin domain.Vec3
	facing domain.Vec3
}

// SetTransform records the avatar's current position and facing vector.
func (s *Session) SetTransform(origin, facing domain.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = origin
	s.facing = facing
}

// Transform returns the last reported position and facing vector.
func (s *Session) Transform() (origin, facing domain.Vec3) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.origin, s.facing
}

// Manager owns the session registry and the join/leave lifecycle.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	loadouts     *loadout.Store
	entitlements *entitlement.Store
	ledger       *cooldown.Ledger
	locks        *concurrency.LockManager
	repo         repository.State
	broadcaster  *broadcast.Broadcaster
}

// NewManager creates a session manager over the given stores. repo may be a
// repository.MemoryState when the server runs without a database.
func NewManager(
	loadouts *loadout.Store,
	entitlements *entitlement.Store,
	ledger *cooldown.Ledger,
	locks *concurrency.LockManager,
	repo repository.State,
	broadcaster *broadcast.Broadcaster,
) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		loadouts:     loadouts,
		entitlements: entitlements,
		ledger:       ledger,
		locks:        locks,
		repo:         repo,
		broadcaster:  broadcaster,
	}
}

// Join starts a session for the account, restoring persisted state into the
// stores. A repository failure degrades to empty state with a warning; the
// in-memory stores stay authoritative either way. Joining an account that
// already has a session is idempotent.
func (m *Manager) Join(ctx context.Context, account string) *Session {
	log := logger.FromContext(ctx)

	m.mu.Lock()
	if existing, ok := m.sessions[account]; ok {
		m.mu.Unlock()
		return existing
	}
	sess := &Session{
		ID:       uuid.NewString(),
		Account:  account,
		JoinedAt: time.Now(),
	}
	m.sessions[account] = sess
	m.mu.Unlock()

	m.locks.WithLock(account, func() {
		state, err := m.repo.GetAccountState(ctx, account)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// First join, nothing to restore.
		case err != nil:
			log.Warn("Failed to load persisted cosmetic state, starting empty",
				"account", account, "error", err)
		default:
			m.loadouts.Restore(account, state.Equipped)
			m.entitlements.Restore(account, state.Packs, state.Items)
		}
	})

	// The owner converges the same way an observer does: one full snapshot.
	m.broadcaster.LoadoutChanged(account)
	m.broadcaster.EntitlementsChanged(account)

	log.Info("Session started", "account", account, "session_id", sess.ID)
	return sess
}

// Leave persists the account's state and drops all in-memory traces of it:
// stores, cooldown ledger, observer edges and the per-account lock.
func (m *Manager) Leave(ctx context.Context, account string) {
	log := logger.FromContext(ctx)

	m.mu.Lock()
	sess, ok := m.sessions[account]
	if ok {
		delete(m.sessions, account)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	m.locks.WithLock(account, func() {
		snap := m.entitlements.Snapshot(account)
		state := &domain.AccountState{
			Account:  account,
			Equipped: m.loadouts.AllEquipped(account),
			Packs:    snap.Packs,
			Items:    snap.Items,
		}
		if err := m.repo.SaveAccountState(ctx, state); err != nil {
			log.Error("Failed to persist cosmetic state on leave",
				"account", account, "error", err)
		}

		m.loadouts.Forget(account)
		m.entitlements.Forget(account)
		m.ledger.Forget(account)
	})

	m.broadcaster.DropAccount(account)
	m.locks.Forget(account)

	slog.Info("Session ended", "account", account, "session_id", sess.ID,
		"duration", time.Since(sess.JoinedAt).Round(time.Second))
}

// PersistAll writes the current state of every live session to the
// repository without ending any of them. Crash insurance between join and
// leave; failures are logged per account and do not stop the sweep.
func (m *Manager) PersistAll(ctx context.Context) error {
	m.mu.RLock()
	accounts := make([]string, 0, len(m.sessions))
	for account := range m.sessions {
		accounts = append(accounts, account)
	}
	m.mu.RUnlock()

	var firstErr error
	for _, account := range accounts {
		m.locks.WithLock(account, func() {
			snap := m.entitlements.Snapshot(account)
			state := &domain.AccountState{
				Account:  account,
				Equipped: m.loadouts.AllEquipped(account),
				Packs:    snap.Packs,
				Items:    snap.Items,
			}
			if err := m.repo.SaveAccountState(ctx, state); err != nil {
				slog.Warn("Autosave failed for account", "account", account, "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		})
	}
	return firstErr
}

// Get returns the live session for an account, if any.
func (m *Manager) Get(account string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[account]
	return sess, ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
