package broadcast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/loadout"
)

// recordingTransport captures every queued message for assertions.
type recordingTransport struct {
	mu    sync.Mutex
	sends []recordedSend
}

type recordedSend struct {
	accounts  []string
	eventType string
	payload   interface{}
}

func (r *recordingTransport) Send(accounts []string, eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, recordedSend{accounts: accounts, eventType: eventType, payload: payload})
}

func (r *recordingTransport) all() []recordedSend {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedSend, len(r.sends))
	copy(out, r.sends)
	return out
}

func newTestBroadcaster() (*Broadcaster, *loadout.Store, *entitlement.Store, *recordingTransport) {
	loadouts := loadout.NewStore()
	entitlements := entitlement.NewStore(nil)
	transport := &recordingTransport{}
	return New(loadouts, entitlements, transport), loadouts, entitlements, transport
}

func TestObserverStartedSendsOneSnapshotToWatcherOnly(t *testing.T) {
	b, loadouts, _, transport := newTestBroadcaster()
	loadouts.SetEquipped("alice", domain.CategoryHeadwear, "hat_dragon")

	b.ObserverStarted("alice", "bob")

	sends := transport.all()
	require.Len(t, sends, 1)
	assert.Equal(t, []string{"bob"}, sends[0].accounts)
	assert.Equal(t, domain.MsgLoadoutSnapshot, sends[0].eventType)

	snap, ok := sends[0].payload.(domain.LoadoutSnapshot)
	require.True(t, ok)
	assert.Equal(t, "alice", snap.Account)
	assert.Equal(t, "hat_dragon", snap.Equipped[domain.CategoryHeadwear],
		"a new observer converges from the snapshot alone")
}

func TestSelfObservationIgnored(t *testing.T) {
	b, _, _, transport := newTestBroadcaster()

	b.ObserverStarted("alice", "alice")

	assert.Empty(t, transport.all())
	assert.Equal(t, []string{"alice"}, b.Recipients("alice"))
}

func TestLoadoutChangedReachesOwnerAndObservers(t *testing.T) {
	b, loadouts, _, transport := newTestBroadcaster()
	b.ObserverStarted("alice", "bob")
	b.ObserverStarted("alice", "carol")
	loadouts.SetEquipped("alice", domain.CategoryCape, "cape_aurora")

	b.LoadoutChanged("alice")

	sends := transport.all()
	last := sends[len(sends)-1]
	assert.Equal(t, domain.MsgLoadoutSnapshot, last.eventType)
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, last.accounts)
	assert.Equal(t, "alice", last.accounts[0], "owner is always first")
}

func TestObserverStoppedRemovesEdge(t *testing.T) {
	b, _, _, _ := newTestBroadcaster()
	b.ObserverStarted("alice", "bob")
	b.ObserverStopped("alice", "bob")

	assert.Equal(t, []string{"alice"}, b.Recipients("alice"))
}

func TestDropAccountRemovesBothDirections(t *testing.T) {
	b, _, _, _ := newTestBroadcaster()
	b.ObserverStarted("alice", "bob")   // bob watches alice
	b.ObserverStarted("carol", "alice") // alice watches carol

	b.DropAccount("alice")

	assert.Equal(t, []string{"alice"}, b.Recipients("alice"))
	assert.Equal(t, []string{"carol"}, b.Recipients("carol"))
}

func TestEntitlementsChangedOwnerOnly(t *testing.T) {
	b, _, entitlements, transport := newTestBroadcaster()
	b.ObserverStarted("alice", "bob")
	entitlements.GrantPack("alice", "premium")

	b.EntitlementsChanged("alice")

	sends := transport.all()
	last := sends[len(sends)-1]
	assert.Equal(t, domain.MsgEntitlementSnapshot, last.eventType)
	assert.Equal(t, []string{"alice"}, last.accounts, "observers never see entitlements")

	snap, ok := last.payload.(domain.EntitlementSnapshot)
	require.True(t, ok)
	assert.Equal(t, []string{"premium"}, snap.Packs)
}

func TestSendDenialUnicast(t *testing.T) {
	b, _, _, transport := newTestBroadcaster()
	b.ObserverStarted("alice", "bob")

	b.SendDenial("alice", "gadget_x", domain.DenyNotEntitled)

	sends := transport.all()
	last := sends[len(sends)-1]
	assert.Equal(t, domain.MsgActivationDenied, last.eventType)
	assert.Equal(t, []string{"alice"}, last.accounts)

	denied, ok := last.payload.(domain.ActivationDenied)
	require.True(t, ok)
	assert.Equal(t, domain.DenyNotEntitled, denied.Reason)
}

func TestSendReplayReachesOwnerAndObservers(t *testing.T) {
	b, _, _, transport := newTestBroadcaster()
	b.ObserverStarted("alice", "bob")

	ev := domain.ReplayEvent{ItemID: "gadget_x", Seed: 42}
	b.SendReplay("alice", ev)

	sends := transport.all()
	last := sends[len(sends)-1]
	assert.Equal(t, domain.MsgReplayEvent, last.eventType)
	assert.ElementsMatch(t, []string{"alice", "bob"}, last.accounts)
	assert.Equal(t, ev, last.payload)
}
