package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = registerRequest{}
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing email")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing password")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// handleMe returns the account behind the current session. A session
// whose user no longer exists is treated as an invalid session.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}
