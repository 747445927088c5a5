package httpapi

import (
	"net/http"
)

type statusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// handleStatus reports backend liveness. Always 200, the booleans carry
// the answer.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	redisAlive, dbAlive := h.status.Status(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{Redis: redisAlive, DB: dbAlive})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	users, files, err := h.status.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Users: users, Files: files})
}
