package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethergame/vanitycore/internal/testing/leaktest"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func waitForEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (now %d)", want, hub.ClientCount())
}

func TestTargetedDelivery(t *testing.T) {
	hub := startHub(t)

	alice := hub.Register("alice")
	bob := hub.Register("bob")
	waitForClientCount(t, hub, 2)

	hub.Send([]string{"alice"}, "test.event", map[string]string{"k": "v"})

	ev := waitForEvent(t, alice.EventChannel)
	assert.Equal(t, "test.event", ev.Type)

	select {
	case <-bob.EventChannel:
		t.Fatal("bob must not receive alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMultiRecipientDelivery(t *testing.T) {
	hub := startHub(t)

	alice := hub.Register("alice")
	bob := hub.Register("bob")
	waitForClientCount(t, hub, 2)

	hub.Send([]string{"alice", "bob", "ghost"}, "shared.event", nil)

	assert.Equal(t, "shared.event", waitForEvent(t, alice.EventChannel).Type)
	assert.Equal(t, "shared.event", waitForEvent(t, bob.EventChannel).Type)
}

func TestPerClientOrderingIsFIFO(t *testing.T) {
	hub := startHub(t)

	alice := hub.Register("alice")
	waitForClientCount(t, hub, 1)

	for i := 0; i < 10; i++ {
		hub.Send([]string{"alice"}, "seq", i)
	}

	for i := 0; i < 10; i++ {
		ev := waitForEvent(t, alice.EventChannel)
		assert.Equal(t, i, ev.Payload, "events must arrive in queue order")
	}
}

func TestStalledConsumerDoesNotBlockOthers(t *testing.T) {
	hub := startHub(t)

	// stalled never drains its channel
	hub.Register("stalled")
	healthy := hub.Register("healthy")
	waitForClientCount(t, hub, 2)

	// Overfill the stalled client's buffer; the hub must keep delivering to
	// the healthy one.
	for i := 0; i < ClientEventBuffer+20; i++ {
		hub.Send([]string{"stalled", "healthy"}, "flood", i)
		// drain healthy as we go so its buffer never fills
		select {
		case <-healthy.EventChannel:
		case <-time.After(time.Second):
			t.Fatal("healthy client starved by a stalled peer")
		}
	}
}

func TestReconnectReplacesStaleConnection(t *testing.T) {
	hub := startHub(t)

	stale := hub.Register("alice")
	fresh := hub.Register("alice")
	waitForClientCount(t, hub, 1)

	// The stale channel is closed by the hub
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-stale.EventChannel:
			if !ok {
				goto replaced
			}
		case <-deadline:
			t.Fatal("stale connection never closed")
		}
	}
replaced:

	hub.Send([]string{"alice"}, "after.reconnect", nil)
	assert.Equal(t, "after.reconnect", waitForEvent(t, fresh.EventChannel).Type)
}

func TestUnregister(t *testing.T) {
	hub := startHub(t)

	hub.Register("alice")
	waitForClientCount(t, hub, 1)

	hub.Unregister("alice")
	waitForClientCount(t, hub, 0)
}

func TestSendToNoAccountsIsNoOp(t *testing.T) {
	hub := startHub(t)
	hub.Send(nil, "ignored", nil)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestStopClosesClientChannels(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		hub := NewHub()
		hub.Start()
		client := hub.Register("alice")
		waitForClientCount(t, hub, 1)

		hub.Stop()

		_, ok := <-client.EventChannel
		assert.False(t, ok)
	})
}

func TestFormatSSEMessage(t *testing.T) {
	ev := Event{
		ID:        "abc",
		Type:      "loadout.snapshot",
		Timestamp: 1700000000,
		Payload:   map[string]string{"account": "alice"},
	}

	msg, err := FormatSSEMessage(ev)
	require.NoError(t, err)

	text := string(msg)
	assert.True(t, strings.HasPrefix(text, "event: loadout.snapshot\ndata: "))
	assert.True(t, strings.HasSuffix(text, "\n\n"))

	var decoded Event
	dataLine := strings.TrimSuffix(strings.SplitN(text, "data: ", 2)[1], "\n\n")
	require.NoError(t, json.Unmarshal([]byte(dataLine), &decoded))
	assert.Equal(t, "abc", decoded.ID)
}
