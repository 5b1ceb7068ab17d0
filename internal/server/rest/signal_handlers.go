package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/server/signaling"
	"github.com/go-chi/chi/v5"
)

func (h *handler) newSignalSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, signalSessionResponse{Session: signaling.NewSessionID()})
}

func (h *handler) postSignal(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.relay.Post(vaultPrefix(r), chi.URLParam(r, "session"), req.Kind, req.From, req.Payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *handler) pollSignal(w http.ResponseWriter, r *http.Request) {
	var after int64
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			h.writeError(w, r, common.Errorf(common.ErrorValidation, "after must be a non-negative integer"))
			return
		}
		after = n
	}
	msgs, err := h.relay.Messages(vaultPrefix(r), chi.URLParam(r, "session"), after)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": chi.URLParam(r, "session"), "messages": msgs})
}

func (h *handler) closeSignal(w http.ResponseWriter, r *http.Request) {
	if err := h.relay.Close(vaultPrefix(r), chi.URLParam(r, "session")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Session closed"})
}
