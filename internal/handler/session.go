package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/metrics"
	"github.com/aethergame/vanitycore/internal/session"
)

// SessionRequest starts or ends an account session.
type SessionRequest struct {
	Account string `json:"account" validate:"required,max=64,excludesall=\x00\n\r\t"`
}

// PositionRequest reports the avatar's current transform, used when stamping
// replay events.
type PositionRequest struct {
	Account string      `json:"account" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Origin  domain.Vec3 `json:"origin"`
	Facing  domain.Vec3 `json:"facing"`
}

// HandleSessionJoin starts a session for an account
// @Summary Start an account session
// @Description Restores persisted loadout and grants, then pushes initial snapshots over the event stream
// @Tags session
// @Accept json
// @Produce json
// @Param request body SessionRequest true "Session request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /session/join [post]
func HandleSessionJoin(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeSessionRequest(w, r)
		if !ok {
			return
		}
		mgr.Join(r.Context(), req.Account)
		metrics.SessionsActive.Set(float64(mgr.Count()))
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Session started"})
	}
}

// HandleSessionLeave ends a session for an account
// @Summary End an account session
// @Description Persists state and drops all in-memory traces of the account
// @Tags session
// @Accept json
// @Produce json
// @Param request body SessionRequest true "Session request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /session/leave [post]
func HandleSessionLeave(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeSessionRequest(w, r)
		if !ok {
			return
		}
		mgr.Leave(r.Context(), req.Account)
		metrics.SessionsActive.Set(float64(mgr.Count()))
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Session ended"})
	}
}

// HandleSessionPosition updates an avatar's transform
// @Summary Report avatar position and facing
// @Tags session
// @Accept json
// @Produce json
// @Param request body PositionRequest true "Position update"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/position [post]
func HandleSessionPosition(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req PositionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode position request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid position request", "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}

		sess, ok := mgr.Get(req.Account)
		if !ok {
			respondJSON(w, http.StatusNotFound, ErrorResponse{Error: domain.ErrMsgNoSession})
			return
		}
		sess.SetTransform(req.Origin, req.Facing)
		respondAccepted(w)
	}
}

func decodeSessionRequest(w http.ResponseWriter, r *http.Request) (SessionRequest, bool) {
	log := logger.FromContext(r.Context())

	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode session request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid session request", "error", err)
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return req, false
	}
	return req, true
}
