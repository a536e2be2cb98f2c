package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/wardrobe"
)

// EquipRequest mutates an account's loadout. Omitting category clears the
// whole loadout; the "none" sentinel as item_id clears the named category.
type EquipRequest struct {
	Account  string `json:"account" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Category string `json:"category,omitempty" validate:"category"`
	ItemID   string `json:"item_id,omitempty" validate:"max=128"`
}

// HandleEquip applies an equip request
// @Summary Equip, clear or replace a cosmetic
// @Description Mutates the loadout; the resulting snapshot is pushed over the event stream, there is no direct acknowledgement
// @Tags loadout
// @Accept json
// @Produce json
// @Param request body EquipRequest true "Equip request"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Router /loadout/equip [post]
func HandleEquip(svc *wardrobe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req EquipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode equip request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid equip request", "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}

		svc.Equip(r.Context(), req.Account, domain.Category(req.Category), req.ItemID)

		respondAccepted(w)
	}
}

// HandleGetLoadout returns the current equip state for an account
// @Summary Get an account's loadout
// @Tags loadout
// @Produce json
// @Param account query string true "Account id"
// @Success 200 {object} domain.LoadoutSnapshot
// @Failure 400 {object} ErrorResponse
// @Router /loadout [get]
func HandleGetLoadout(svc *wardrobe.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := r.URL.Query().Get("account")
		if account == "" {
			http.Error(w, "account query parameter required", http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusOK, svc.Loadout(account))
	}
}
