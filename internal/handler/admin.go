package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/logger"
)

// Administrative grant/revoke surface. Elevated privilege is enforced by the
// API-key middleware in front of these routes; it is a transport concern,
// deliberately separate from the entitlement gate the grants feed.

// GrantPackRequest grants or revokes a content pack for an account.
type GrantPackRequest struct {
	Account string `json:"account" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Pack    string `json:"pack" validate:"required,max=64"`
}

// GrantItemRequest grants or revokes a single item for an account.
type GrantItemRequest struct {
	Account string `json:"account" validate:"required,max=64,excludesall=\x00\n\r\t"`
	ItemID  string `json:"item_id" validate:"required,max=128"`
}

// HandleGrantPack grants a pack
// @Summary Grant a content pack to an account
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantPackRequest true "Grant request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/grant-pack [post]
func HandleGrantPack(store *entitlement.Store, b *broadcast.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeGrantPackRequest(w, r)
		if !ok {
			return
		}
		store.GrantPack(req.Account, req.Pack)
		b.EntitlementsChanged(req.Account)
		logger.FromContext(r.Context()).Info("Pack granted", "account", req.Account, "pack", req.Pack)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Pack granted"})
	}
}

// HandleRevokePack revokes a pack
// @Summary Revoke a content pack from an account
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantPackRequest true "Revoke request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/revoke-pack [post]
func HandleRevokePack(store *entitlement.Store, b *broadcast.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeGrantPackRequest(w, r)
		if !ok {
			return
		}
		store.RevokePack(req.Account, req.Pack)
		b.EntitlementsChanged(req.Account)
		logger.FromContext(r.Context()).Info("Pack revoked", "account", req.Account, "pack", req.Pack)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Pack revoked"})
	}
}

// HandleGrantItem grants an individual item
// @Summary Grant an item to an account
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantItemRequest true "Grant request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/grant-item [post]
func HandleGrantItem(store *entitlement.Store, b *broadcast.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeGrantItemRequest(w, r)
		if !ok {
			return
		}
		store.GrantItem(req.Account, req.ItemID)
		b.EntitlementsChanged(req.Account)
		logger.FromContext(r.Context()).Info("Item granted", "account", req.Account, "item", req.ItemID)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Item granted"})
	}
}

// HandleRevokeItem revokes an individual item
// @Summary Revoke an item from an account
// @Tags admin
// @Accept json
// @Produce json
// @Param request body GrantItemRequest true "Revoke request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/revoke-item [post]
func HandleRevokeItem(store *entitlement.Store, b *broadcast.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeGrantItemRequest(w, r)
		if !ok {
			return
		}
		store.RevokeItem(req.Account, req.ItemID)
		b.EntitlementsChanged(req.Account)
		logger.FromContext(r.Context()).Info("Item revoked", "account", req.Account, "item", req.ItemID)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Item revoked"})
	}
}

func decodeGrantPackRequest(w http.ResponseWriter, r *http.Request) (GrantPackRequest, bool) {
	log := logger.FromContext(r.Context())
	var req GrantPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode grant-pack request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid grant-pack request", "error", err)
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func decodeGrantItemRequest(w http.ResponseWriter, r *http.Request) (GrantItemRequest, bool) {
	log := logger.FromContext(r.Context())
	var req GrantItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode grant-item request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid grant-item request", "error", err)
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return req, false
	}
	return req, true
}
