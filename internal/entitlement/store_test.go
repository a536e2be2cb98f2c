package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethergame/vanitycore/internal/domain"
)

// fakeResolver maps item ids to packs without a full catalog.
type fakeResolver map[string]string

func (f fakeResolver) Get(id string) (domain.Item, bool) {
	pack, ok := f[id]
	if !ok {
		return domain.Item{}, false
	}
	return domain.Item{ID: id, Pack: pack}, true
}

func newTestStore() *Store {
	return NewStore(fakeResolver{
		"hat_basic":     "base",
		"hat_fancy":     "premium",
		"gadget_sparks": "premium",
	})
}

func TestDefaultOpenBeforeFirstGrant(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.HasItem("alice", "hat_basic"))
	assert.True(t, s.HasItem("alice", "completely_unknown"))
}

func TestFirstGrantClosesTheGate(t *testing.T) {
	s := newTestStore()
	s.GrantItem("alice", "hat_basic")

	assert.True(t, s.HasItem("alice", "hat_basic"))
	assert.False(t, s.HasItem("alice", "hat_fancy"))

	// Other accounts stay default-open; the mode is per account.
	assert.True(t, s.HasItem("bob", "hat_fancy"))
}

func TestPackGrantCoversMemberItems(t *testing.T) {
	s := newTestStore()
	s.GrantPack("alice", "premium")

	assert.True(t, s.HasItem("alice", "hat_fancy"))
	assert.True(t, s.HasItem("alice", "gadget_sparks"))
	assert.False(t, s.HasItem("alice", "hat_basic"))
	assert.False(t, s.HasItem("alice", "unknown_item"))
}

func TestRevokingLastGrantReopens(t *testing.T) {
	s := newTestStore()

	s.GrantItem("alice", "hat_basic")
	assert.False(t, s.HasItem("alice", "hat_fancy"))

	s.RevokeItem("alice", "hat_basic")
	assert.True(t, s.HasItem("alice", "hat_fancy"), "no grants at all means default-open again")
}

func TestRevokePackKeepsRemainingGrants(t *testing.T) {
	s := newTestStore()
	s.GrantPack("alice", "premium")
	s.GrantItem("alice", "hat_basic")

	s.RevokePack("alice", "premium")

	assert.True(t, s.HasItem("alice", "hat_basic"))
	assert.False(t, s.HasItem("alice", "hat_fancy"))
}

func TestRevokeUnknownIsNoOp(t *testing.T) {
	s := newTestStore()
	s.RevokePack("alice", "premium")
	s.RevokeItem("alice", "hat_basic")

	assert.True(t, s.HasItem("alice", "anything"))
}

func TestSnapshotSorted(t *testing.T) {
	s := newTestStore()
	s.GrantPack("alice", "seasonal")
	s.GrantPack("alice", "premium")
	s.GrantItem("alice", "hat_fancy")
	s.GrantItem("alice", "gadget_sparks")

	snap := s.Snapshot("alice")
	assert.Equal(t, "alice", snap.Account)
	assert.Equal(t, []string{"premium", "seasonal"}, snap.Packs)
	assert.Equal(t, []string{"gadget_sparks", "hat_fancy"}, snap.Items)
}

func TestSnapshotEmptyAccount(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot("ghost")

	require.NotNil(t, snap.Packs)
	require.NotNil(t, snap.Items)
	assert.Empty(t, snap.Packs)
	assert.Empty(t, snap.Items)
}

func TestRestoreAndForget(t *testing.T) {
	s := newTestStore()

	s.Restore("alice", []string{"premium"}, []string{"hat_basic"})
	assert.True(t, s.HasItem("alice", "hat_basic"))
	assert.True(t, s.HasItem("alice", "hat_fancy"))
	assert.False(t, s.HasItem("alice", "unknown_item"))

	s.Forget("alice")
	assert.True(t, s.HasItem("alice", "unknown_item"), "forgotten account is default-open")
}

func TestRestoreEmptyClearsState(t *testing.T) {
	s := newTestStore()
	s.GrantItem("alice", "hat_basic")

	s.Restore("alice", nil, nil)
	assert.True(t, s.HasItem("alice", "hat_fancy"))
}
