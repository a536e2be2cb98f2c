package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/logger"
)

// ObserveRequest registers or removes a watch edge: the watcher's client has
// started (or stopped) rendering the target's avatar.
type ObserveRequest struct {
	Watcher string `json:"watcher" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Target  string `json:"target" validate:"required,max=64,excludesall=\x00\n\r\t"`
}

// HandleObserveStart registers an observer
// @Summary Start observing an account
// @Description The watcher immediately receives one full loadout snapshot of the target over its event stream
// @Tags observer
// @Accept json
// @Produce json
// @Param request body ObserveRequest true "Observe request"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Router /observe/start [post]
func HandleObserveStart(b *broadcast.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeObserveRequest(w, r)
		if !ok {
			return
		}
		b.ObserverStarted(req.Target, req.Watcher)
		respondAccepted(w)
	}
}

// HandleObserveStop removes an observer
// @Summary Stop observing an account
// @Tags observer
// @Accept json
// @Produce json
// @Param request body ObserveRequest true "Observe request"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Router /observe/stop [post]
func HandleObserveStop(b *broadcast.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeObserveRequest(w, r)
		if !ok {
			return
		}
		b.ObserverStopped(req.Target, req.Watcher)
		respondAccepted(w)
	}
}

func decodeObserveRequest(w http.ResponseWriter, r *http.Request) (ObserveRequest, bool) {
	log := logger.FromContext(r.Context())

	var req ObserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode observe request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid observe request", "error", err)
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return req, false
	}
	return req, true
}
