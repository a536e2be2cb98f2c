package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/concurrency"
	"github.com/aethergame/vanitycore/internal/cooldown"
	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/loadout"
	"github.com/aethergame/vanitycore/internal/repository"
)

type nullTransport struct{}

func (nullTransport) Send([]string, string, interface{}) {}

type managerFixture struct {
	manager      *Manager
	loadouts     *loadout.Store
	entitlements *entitlement.Store
	ledger       *cooldown.Ledger
	repo         *repository.MemoryState
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	loadouts := loadout.NewStore()
	entitlements := entitlement.NewStore(nil)
	ledger := cooldown.NewLedger()
	locks := concurrency.NewLockManager()
	repo := repository.NewMemoryState()
	b := broadcast.New(loadouts, entitlements, nullTransport{})

	return &managerFixture{
		manager:      NewManager(loadouts, entitlements, ledger, locks, repo, b),
		loadouts:     loadouts,
		entitlements: entitlements,
		ledger:       ledger,
		repo:         repo,
	}
}

func TestJoinLeaveRoundTrip(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	f.manager.Join(ctx, "alice")
	f.loadouts.SetEquipped("alice", domain.CategoryHeadwear, "hat_dragon")
	f.entitlements.GrantPack("alice", "premium")
	f.manager.Leave(ctx, "alice")

	// In-memory state is gone
	assert.Empty(t, f.loadouts.AllEquipped("alice"))
	assert.Empty(t, f.entitlements.Snapshot("alice").Packs)

	// A fresh join restores it from the repository
	f.manager.Join(ctx, "alice")
	assert.Equal(t, "hat_dragon", f.loadouts.AllEquipped("alice")[domain.CategoryHeadwear])
	assert.Equal(t, []string{"premium"}, f.entitlements.Snapshot("alice").Packs)
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	first := f.manager.Join(ctx, "alice")
	second := f.manager.Join(ctx, "alice")

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.manager.Count())
}

func TestJoinFirstTimeStartsEmpty(t *testing.T) {
	f := newManagerFixture(t)

	f.manager.Join(context.Background(), "alice")

	assert.Empty(t, f.loadouts.AllEquipped("alice"))
	assert.True(t, f.entitlements.HasItem("alice", "anything"), "fresh accounts are default-open")
}

func TestJoinDegradesOnRepositoryFailure(t *testing.T) {
	f := newManagerFixture(t)
	f.repo.GetErr = errors.New("connection refused")

	sess := f.manager.Join(context.Background(), "alice")

	require.NotNil(t, sess)
	assert.Equal(t, 1, f.manager.Count(), "the session starts anyway, state is just empty")
}

func TestLeaveClearsCooldownLedger(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	f.manager.Join(ctx, "alice")
	require.NoError(t, f.ledger.CheckAndStamp("alice", "popper", 0))
	f.manager.Leave(ctx, "alice")

	_, ok := f.ledger.LastUsed("alice", "popper")
	assert.False(t, ok)
}

func TestLeaveUnknownAccountIsNoOp(t *testing.T) {
	f := newManagerFixture(t)
	f.manager.Leave(context.Background(), "ghost")
	assert.Equal(t, 0, f.manager.Count())
}

func TestLeavePersistsEvenWhenSaveFails(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	f.manager.Join(ctx, "alice")
	f.loadouts.SetEquipped("alice", domain.CategoryHeadwear, "hat_dragon")
	f.repo.SaveErr = errors.New("disk full")

	f.manager.Leave(ctx, "alice")

	// The session still ends and memory is still released
	assert.Equal(t, 0, f.manager.Count())
	assert.Empty(t, f.loadouts.AllEquipped("alice"))
}

func TestSessionTransform(t *testing.T) {
	f := newManagerFixture(t)
	sess := f.manager.Join(context.Background(), "alice")

	origin, facing := sess.Transform()
	assert.Equal(t, domain.Vec3{}, origin)
	assert.Equal(t, domain.Vec3{}, facing)

	sess.SetTransform(domain.Vec3{X: 1}, domain.Vec3{Z: -1})
	origin, facing = sess.Transform()
	assert.Equal(t, domain.Vec3{X: 1}, origin)
	assert.Equal(t, domain.Vec3{Z: -1}, facing)
}

func TestPersistAllWritesLiveSessions(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	f.manager.Join(ctx, "alice")
	f.manager.Join(ctx, "bob")
	f.loadouts.SetEquipped("alice", domain.CategoryCape, "cape_aurora")

	require.NoError(t, f.manager.PersistAll(ctx))

	st, err := f.repo.GetAccountState(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "cape_aurora", st.Equipped[domain.CategoryCape])

	// Sessions are untouched
	assert.Equal(t, 2, f.manager.Count())
	assert.Equal(t, "cape_aurora", f.loadouts.AllEquipped("alice")[domain.CategoryCape])
}

func TestPersistAllReportsFirstError(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	f.manager.Join(ctx, "alice")
	f.repo.SaveErr = errors.New("disk full")

	assert.Error(t, f.manager.PersistAll(ctx))
}
