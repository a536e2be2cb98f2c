// Package postgres implements the repository interfaces against PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/repository"
)

// StateRepository implements repository.State for PostgreSQL. Loadout and
// grants are stored as JSONB: the shape is small, account-keyed, and only
// read or written at session boundaries, so relational decomposition buys
// nothing here.
type StateRepository struct {
	db *pgxpool.Pool
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *pgxpool.Pool) *StateRepository {
	return &StateRepository{db: db}
}

// GetAccountState implements repository.State.
func (r *StateRepository) GetAccountState(ctx context.Context, account string) (*domain.AccountState, error) {
	query := `
		SELECT equipped, packs, items
		FROM account_cosmetics
		WHERE account = $1
	`
	var equippedJSON []byte
	var packs, items []string
	err := r.db.QueryRow(ctx, query, account).Scan(&equippedJSON, &packs, &items)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account state: %w", err)
	}

	state := &domain.AccountState{
		Account: account,
		Packs:   packs,
		Items:   items,
	}
	if len(equippedJSON) > 0 {
		if err := json.Unmarshal(equippedJSON, &state.Equipped); err != nil {
			return nil, fmt.Errorf("failed to decode equipped loadout: %w", err)
		}
	}
	return state, nil
}

// SaveAccountState implements repository.State.
func (r *StateRepository) SaveAccountState(ctx context.Context, state *domain.AccountState) error {
	equipped := state.Equipped
	if equipped == nil {
		equipped = map[domain.Category]string{}
	}
	equippedJSON, err := json.Marshal(equipped)
	if err != nil {
		return fmt.Errorf("failed to encode equipped loadout: %w", err)
	}

	// pgx maps nil slices to SQL NULL, which the array columns reject
	packs := state.Packs
	if packs == nil {
		packs = []string{}
	}
	items := state.Items
	if items == nil {
		items = []string{}
	}

	query := `
		INSERT INTO account_cosmetics (account, equipped, packs, items, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (account) DO UPDATE
		SET equipped = EXCLUDED.equipped,
		    packs = EXCLUDED.packs,
		    items = EXCLUDED.items,
		    updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, state.Account, equippedJSON, packs, items); err != nil {
		return fmt.Errorf("failed to upsert account state: %w", err)
	}
	return nil
}
