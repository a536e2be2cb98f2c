package repository

import (
	"context"
	"sync"

	"github.com/aethergame/vanitycore/internal/domain"
)

// MemoryState is an in-memory State implementation used in tests and when
// the server runs without a database.
type MemoryState struct {
	mu     sync.RWMutex
	states map[string]domain.AccountState

	// SaveErr and GetErr, when set, are returned by the corresponding
	// methods. Tests use them to exercise persistence-failure paths.
	SaveErr error
	GetErr  error
}

// NewMemoryState creates an empty in-memory repository.
func NewMemoryState() *MemoryState {
	return &MemoryState{states: make(map[string]domain.AccountState)}
}

// GetAccountState implements State.
func (m *MemoryState) GetAccountState(_ context.Context, account string) (*domain.AccountState, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[account]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneState(st)
	return &out, nil
}

// SaveAccountState implements State.
func (m *MemoryState) SaveAccountState(_ context.Context, state *domain.AccountState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.Account] = cloneState(*state)
	return nil
}

func cloneState(st domain.AccountState) domain.AccountState {
	out := domain.AccountState{Account: st.Account}
	if st.Equipped != nil {
		out.Equipped = make(map[domain.Category]string, len(st.Equipped))
		for k, v := range st.Equipped {
			out.Equipped[k] = v
		}
	}
	out.Packs = append([]string(nil), st.Packs...)
	out.Items = append([]string(nil), st.Items...)
	return out
}
