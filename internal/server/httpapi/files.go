package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"
)

// uploadRequest is the POST /files body. ParentID is raw because clients
// send it either as the number 0 or as a string id.
type uploadRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID json.RawMessage `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// parseParentID normalizes the wire forms of parentId (absent, 0, "0",
// or a record id) into the internal form, where empty means top level.
func parseParentID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	s := strings.Trim(string(raw), `"`)
	if s == "" || s == "0" || s == "null" {
		return "", nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", common.ErrorParentNotFound
	}
	return s, nil
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = uploadRequest{}
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing name")
		return
	}
	if !models.IsValidType(req.Type) {
		writeError(w, http.StatusBadRequest, "Missing type")
		return
	}
	if req.Type != models.TypeFolder && req.Data == "" {
		writeError(w, http.StatusBadRequest, "Missing data")
		return
	}

	parentID, err := parseParentID(req.ParentID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var data []byte
	if req.Type != models.TypeFolder {
		data, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid data")
			return
		}
	}

	file, err := h.files.Upload(r.Context(), userIDFrom(r.Context()), &services.UploadRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentID,
		IsPublic: req.IsPublic,
		Data:     data,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFileResponse(file))
}

func (h *Handler) handleFileGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	file, err := h.files.Get(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(file))
}

func (h *Handler) handleFileList(w http.ResponseWriter, r *http.Request) {
	parentID := ""
	if q := r.URL.Query().Get("parentId"); q != "" && q != "0" {
		if _, err := uuid.Parse(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parentId")
			return
		}
		parentID = q
	}

	page := 0
	if q := r.URL.Query().Get("page"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			page = n
		}
	}

	list, err := h.files.List(r.Context(), userIDFrom(r.Context()), parentID, page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]fileResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFileResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleFilePublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

func (h *Handler) handleFileUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	file, err := h.files.SetVisibility(r.Context(), userIDFrom(r.Context()), id, isPublic)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(file))
}

// handleFileContent serves the raw payload. The token is resolved when
// present but the endpoint is open: an invalid token degrades to an
// anonymous read rather than a 401, the visibility check decides access.
func (h *Handler) handleFileContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	userID := ""
	if token := r.Header.Get(TokenHeader); token != "" {
		resolved, err := h.auth.Resolve(r.Context(), token)
		if err != nil && !errors.Is(err, common.ErrorUnauthorized) {
			h.writeServiceError(w, r, err)
			return
		}
		userID = resolved
	}

	file, data, err := h.files.Content(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	ct := mime.TypeByExtension(filepath.Ext(file.Name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
