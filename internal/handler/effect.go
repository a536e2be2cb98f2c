package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/effect"
)

// EffectPreviewResponse is the expanded rendering plan for one item and seed.
type EffectPreviewResponse struct {
	ItemID    string            `json:"item_id"`
	Pattern   string            `json:"pattern"`
	Sound     string            `json:"sound,omitempty"`
	Duration  string            `json:"duration"`
	Particles []effect.Particle `json:"particles"`
}

// HandleEffectPreview expands an effect deterministically
// @Summary Preview the effect an item and seed would produce
// @Description Runs the same deterministic expansion clients apply to replay events; identical seed and item always yield identical particles
// @Tags effects
// @Produce json
// @Param item_id query string true "Item id"
// @Param seed query int true "Replay seed"
// @Success 200 {object} EffectPreviewResponse
// @Failure 400 {object} ErrorResponse
// @Router /effects/preview [get]
func HandleEffectPreview(d *effect.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := r.URL.Query().Get("item_id")
		if itemID == "" {
			http.Error(w, "item_id query parameter required", http.StatusBadRequest)
			return
		}
		seed, err := strconv.ParseInt(r.URL.Query().Get("seed"), 10, 64)
		if err != nil {
			http.Error(w, "seed query parameter must be a 64-bit integer", http.StatusBadRequest)
			return
		}

		ev := domain.ReplayEvent{
			ItemID:    itemID,
			Seed:      seed,
			Timestamp: time.Now().UnixMilli(),
		}
		out := d.Dispatch(ev)

		respondJSON(w, http.StatusOK, EffectPreviewResponse{
			ItemID:    out.ItemID,
			Pattern:   out.Pattern,
			Sound:     out.Sound,
			Duration:  out.Duration.String(),
			Particles: out.Particles,
		})
	}
}
