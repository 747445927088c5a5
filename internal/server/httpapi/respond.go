// Package httpapi exposes the REST surface of the service over a chi
// router. It is the only layer that knows HTTP: it translates the finer
// internal error set into the coarse client-visible codes, deliberately
// collapsing ownership mismatches into "Not found" so that callers
// cannot probe which ids exist.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type fileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.PublicParentID(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps an internal error to its external code. The
// mapping is intentionally lossy: ErrorNotOwned and ErrorNotFound are
// indistinguishable to clients, and infrastructure failures reveal no
// detail beyond their status code.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusBadRequest, "Already exists")
	case errors.Is(err, common.ErrorParentNotFound):
		writeError(w, http.StatusBadRequest, "Parent not found")
	case errors.Is(err, common.ErrorParentNotFolder):
		writeError(w, http.StatusBadRequest, "Parent is not a folder")
	case errors.Is(err, common.ErrorFolderNoContent):
		writeError(w, http.StatusBadRequest, "A folder doesn't have content")
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorNotOwned):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
