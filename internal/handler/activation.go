package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aethergame/vanitycore/internal/activation"
	"github.com/aethergame/vanitycore/internal/logger"
)

// ActivationRequest triggers a gadget's one-shot effect.
type ActivationRequest struct {
	Account string `json:"account" validate:"required,max=64,excludesall=\x00\n\r\t"`
	ItemID  string `json:"item_id" validate:"required,max=128"`
}

// HandleActivate processes a gadget activation request
// @Summary Activate a gadget
// @Description Validates entitlement and cooldown server-side; acceptance is broadcast as a replay event, denial is unicast, cooldown races are silently ignored
// @Tags activation
// @Accept json
// @Produce json
// @Param request body ActivationRequest true "Activation request"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Router /activate [post]
func HandleActivate(gw *activation.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ActivationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode activation request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid activation request", "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}

		// Outcome travels in-band (replay broadcast or denial unicast); the
		// HTTP reply only acknowledges receipt.
		gw.Activate(r.Context(), req.Account, req.ItemID)

		respondAccepted(w)
	}
}
