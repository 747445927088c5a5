package httpapi

import (
	"net/http"
)

type connectResponse struct {
	Token string `json:"token"`
}

// handleConnect exchanges Basic credentials for a session token.
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Login(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, connectResponse{Token: token})
}

// handleDisconnect destroys the session named by the x-token header.
func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.Header.Get(TokenHeader)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
