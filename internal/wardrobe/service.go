// Package wardrobe applies equip requests against the loadout store and
// pushes the resulting snapshots. It is the request-side validation layer
// the stores deliberately do not have.
package wardrobe

import (
	"context"

	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/catalog"
	"github.com/aethergame/vanitycore/internal/concurrency"
	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/loadout"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/metrics"
)

// Service mutates loadouts in response to validated equip requests.
type Service struct {
	catalog      *catalog.Catalog
	loadouts     *loadout.Store
	entitlements *entitlement.Store
	broadcaster  *broadcast.Broadcaster
	locks        *concurrency.LockManager
}

// NewService wires the wardrobe service.
func NewService(
	cat *catalog.Catalog,
	loadouts *loadout.Store,
	entitlements *entitlement.Store,
	broadcaster *broadcast.Broadcaster,
	locks *concurrency.LockManager,
) *Service {
	return &Service{
		catalog:      cat,
		loadouts:     loadouts,
		entitlements: entitlements,
		broadcaster:  broadcaster,
		locks:        locks,
	}
}

// Equip processes one equip request. An empty category clears the whole
// loadout; the none sentinel clears the named category. Requests that fail
// validation are dropped with a diagnostic, never answered: the only reply
// a client ever sees is a subsequent loadout snapshot.
func (s *Service) Equip(ctx context.Context, account string, cat domain.Category, itemID string) {
	log := logger.FromContext(ctx)

	changed := false
	kind := metrics.EquipKindSet

	s.locks.WithLock(account, func() {
		switch {
		case cat == "":
			changed = s.loadouts.ClearAll(account)
			kind = metrics.EquipKindClearAll

		case itemID == "" || itemID == domain.ItemNone:
			changed = s.loadouts.ClearCategory(account, cat)
			kind = metrics.EquipKindClearCategory

		default:
			item, ok := s.catalog.Get(itemID)
			if !ok {
				// The only foreign-key enforcement in the core: writes naming
				// an id the catalog does not know are ignored.
				log.Debug("Ignoring equip of unknown item", "account", account, "item", itemID)
				return
			}
			if item.Category != cat {
				log.Debug("Ignoring equip with mismatched category",
					"account", account, "item", itemID,
					"want", item.Category, "got", cat)
				return
			}
			if !s.entitlements.HasItem(account, itemID) {
				log.Debug("Ignoring equip of unentitled item", "account", account, "item", itemID)
				return
			}
			changed = s.loadouts.SetEquipped(account, cat, itemID)
		}

		if changed {
			// Queued inside the account lock so successive snapshots for this
			// account reach every recipient in mutation order.
			s.broadcaster.LoadoutChanged(account)
		}
	})

	if changed {
		metrics.EquipChanges.WithLabelValues(kind).Inc()
		metrics.SnapshotsSent.Inc()
		log.Info("Loadout changed", "account", account, "kind", kind,
			"category", cat, "item", itemID)
	}
}

// Loadout returns the account's current equip state.
func (s *Service) Loadout(account string) domain.LoadoutSnapshot {
	return domain.LoadoutSnapshot{
		Account:  account,
		Equipped: s.loadouts.AllEquipped(account),
	}
}
