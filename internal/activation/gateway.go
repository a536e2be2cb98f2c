// Package activation validates gadget activation requests and, on
// acceptance, stamps the cooldown ledger and emits a replay event.
package activation

import (
	"context"
	"errors"
	"math/rand"

	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/catalog"
	"github.com/aethergame/vanitycore/internal/concurrency"
	"github.com/aethergame/vanitycore/internal/cooldown"
	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/metrics"
	"github.com/aethergame/vanitycore/internal/session"
)

// Outcome classifies how an activation request ended. Only Accepted and
// DeniedNotEntitled are visible to the requester; the Ignored outcomes are
// dropped silently.
type Outcome int

const (
	// Accepted means the ledger was stamped and a replay event emitted.
	Accepted Outcome = iota
	// DeniedNotEntitled means a denial message was sent to the requester.
	DeniedNotEntitled
	// IgnoredUnknownItem covers absent items and non-gadget categories:
	// a malformed request, not a user-facing denial.
	IgnoredUnknownItem
	// IgnoredOnCooldown is the expected double-click race; no reply.
	IgnoredOnCooldown
)

// Announcer is notified of accepted activations. Implementations are
// best-effort and must not block.
type Announcer interface {
	AnnounceActivation(account string, item domain.Item)
}

// Gateway is the server-side state machine for gadget activation. Per
// (account, item) it moves Idle → Denied → Idle or Idle → Accepted → Idle;
// the cooldown window is purely a time-gated re-entry to Idle. Effect
// duration is a client rendering concern and never tracked here.
type Gateway struct {
	catalog      *catalog.Catalog
	entitlements *entitlement.Store
	ledger       *cooldown.Ledger
	sessions     *session.Manager
	broadcaster  *broadcast.Broadcaster
	locks        *concurrency.LockManager
	announcer    Announcer

	// seedFn produces the 64-bit replay seed; injectable for tests.
	seedFn func() int64
}

// NewGateway wires an activation gateway. announcer may be nil.
func NewGateway(
	cat *catalog.Catalog,
	entitlements *entitlement.Store,
	ledger *cooldown.Ledger,
	sessions *session.Manager,
	broadcaster *broadcast.Broadcaster,
	locks *concurrency.LockManager,
	announcer Announcer,
) *Gateway {
	return &Gateway{
		catalog:      cat,
		entitlements: entitlements,
		ledger:       ledger,
		sessions:     sessions,
		broadcaster:  broadcaster,
		locks:        locks,
		announcer:    announcer,
		seedFn:       rand.Int63,
	}
}

// SetSeedFunc overrides replay-seed generation, for deterministic tests.
func (g *Gateway) SetSeedFunc(fn func() int64) {
	g.seedFn = fn
}

// Activate processes one activation request. It never returns an error to
// the transport: every outcome is either replied to in-band (denial, replay
// event) or deliberately silent.
func (g *Gateway) Activate(ctx context.Context, account, itemID string) Outcome {
	log := logger.FromContext(ctx)

	item, ok := g.catalog.Get(itemID)
	if !ok || !item.IsGadget() {
		// Malformed request: the client UI should never offer this. Drop it.
		log.Debug("Ignoring activation of unknown or non-gadget item",
			"account", account, "item", itemID)
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeIgnored).Inc()
		return IgnoredUnknownItem
	}

	var outcome Outcome
	g.locks.WithLock(account, func() {
		outcome = g.activateLocked(ctx, account, item)
	})

	if outcome == Accepted && g.announcer != nil {
		g.announcer.AnnounceActivation(account, item)
	}
	return outcome
}

// activateLocked runs the validation chain under the account lock. The
// mutation (ledger stamp) happens before any notification is queued; queuing
// is non-blocking, so the lock is never held across delivery.
func (g *Gateway) activateLocked(ctx context.Context, account string, item domain.Item) Outcome {
	log := logger.FromContext(ctx)

	if !g.entitlements.HasItem(account, item.ID) {
		log.Info("Activation denied", "account", account, "item", item.ID,
			"reason", domain.DenyNotEntitled)
		g.broadcaster.SendDenial(account, item.ID, domain.DenyNotEntitled)
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeDenied).Inc()
		return DeniedNotEntitled
	}

	window := item.Props.Duration(domain.PropCooldown,
		domain.DefaultGadgetCooldown, domain.MinGadgetCooldown, domain.MaxGadgetCooldown)

	if err := g.ledger.CheckAndStamp(account, item.ID, window); err != nil {
		var onCooldown cooldown.ErrOnCooldown
		if errors.As(err, &onCooldown) {
			// Expected under UI double-click races; not reported back.
			log.Debug("Activation still on cooldown", "account", account,
				"item", item.ID, "remaining", onCooldown.Remaining)
		}
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeCooldown).Inc()
		return IgnoredOnCooldown
	}

	ev := domain.ReplayEvent{
		ItemID:    item.ID,
		Seed:      g.seedFn(),
		Timestamp: g.ledgerTimestampMillis(account, item.ID),
	}
	if sess, ok := g.sessions.Get(account); ok {
		ev.Origin, ev.Direction = sess.Transform()
	}

	g.broadcaster.SendReplay(account, ev)
	metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()
	log.Info("Activation accepted", "account", account, "item", item.ID, "seed", ev.Seed)
	return Accepted
}

func (g *Gateway) ledgerTimestampMillis(account, itemID string) int64 {
	if t, ok := g.ledger.LastUsed(account, itemID); ok {
		return t.UnixMilli()
	}
	return 0
}
