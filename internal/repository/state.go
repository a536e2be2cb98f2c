// Package repository defines the persistence interfaces for the cosmetics
// core. Implementations live in internal/database/postgres; an in-memory
// fake for tests lives alongside the interface.
package repository

import (
	"context"
	"errors"

	"github.com/aethergame/vanitycore/internal/domain"
)

// ErrNotFound is returned when no state has been persisted for an account.
var ErrNotFound = errors.New("account state not found")

// State persists per-account cosmetic state at session boundaries.
type State interface {
	// GetAccountState loads the persisted state for an account.
	// Returns ErrNotFound when the account has never been saved.
	GetAccountState(ctx context.Context, account string) (*domain.AccountState, error)

	// SaveAccountState upserts the account's state.
	SaveAccountState(ctx context.Context, state *domain.AccountState) error
}
