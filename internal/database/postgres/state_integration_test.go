package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aethergame/vanitycore/internal/database"
	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/repository"
)

func TestStateRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	var pgContainer *postgres.PostgresContainer
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping integration test due to panic (likely Docker issue): %v", r)
			}
		}()
		pgContainer, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(5*time.Second)),
		)
	}()

	if pgContainer == nil {
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPool(connStr, 5, 5*time.Minute, 30*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, applyMigrations(ctx, pool, "../../../migrations"))

	repo := NewStateRepository(pool)

	t.Run("missing account returns ErrNotFound", func(t *testing.T) {
		_, err := repo.GetAccountState(ctx, "ghost")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		in := &domain.AccountState{
			Account: "alice",
			Equipped: map[domain.Category]string{
				domain.CategoryHeadwear: "vanity:hat_dragon",
				domain.CategoryCape:     "vanity:cape_aurora",
			},
			Packs: []string{"premium", "seasonal"},
			Items: []string{"vanity:hat_crown"},
		}
		require.NoError(t, repo.SaveAccountState(ctx, in))

		out, err := repo.GetAccountState(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("save is an upsert", func(t *testing.T) {
		first := &domain.AccountState{
			Account:  "bob",
			Equipped: map[domain.Category]string{domain.CategoryHeadwear: "vanity:hat_dragon"},
			Packs:    []string{"premium"},
		}
		require.NoError(t, repo.SaveAccountState(ctx, first))

		second := &domain.AccountState{
			Account: "bob",
			Items:   []string{"vanity:cape_aurora"},
		}
		require.NoError(t, repo.SaveAccountState(ctx, second))

		out, err := repo.GetAccountState(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, out.Equipped)
		assert.Empty(t, out.Packs)
		assert.Equal(t, []string{"vanity:cape_aurora"}, out.Items)
	})

	t.Run("empty state round trips", func(t *testing.T) {
		require.NoError(t, repo.SaveAccountState(ctx, &domain.AccountState{Account: "carol"}))

		out, err := repo.GetAccountState(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, "carol", out.Account)
		assert.Empty(t, out.Equipped)
		assert.Empty(t, out.Packs)
		assert.Empty(t, out.Items)
	})
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool, migrationsDir string) error {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, filepath.Join(migrationsDir, entry.Name()))
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		// Apply only the "Up" section of goose-style migrations
		sql := string(content)
		if downIdx := strings.Index(sql, "-- +goose Down"); downIdx != -1 {
			sql = sql[:downIdx]
		}

		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return nil
}
