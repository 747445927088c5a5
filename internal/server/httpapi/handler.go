package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"
)

// Handler holds the services behind the REST endpoints.
type Handler struct {
	auth   *services.AuthService
	users  *services.UserService
	files  *services.FileService
	status *services.StatusService
	logger logging.Logger
}

func NewHandler(auth *services.AuthService, users *services.UserService,
	files *services.FileService, status *services.StatusService, logger logging.Logger) *Handler {
	return &Handler{
		auth:   auth,
		users:  users,
		files:  files,
		status: status,
		logger: logger,
	}
}

// NewRouter wires all routes. Endpoints that require a session token are
// grouped behind tokenAuth; GET /files/{id}/data stays outside the group
// because it also serves anonymous reads of public files.
func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/status", h.handleStatus)
	r.Get("/stats", h.handleStats)

	r.Post("/users", h.handleRegister)
	r.Get("/connect", h.handleConnect)
	r.Get("/files/{id}/data", h.handleFileContent)

	r.Group(func(r chi.Router) {
		r.Use(h.tokenAuth)

		r.Get("/disconnect", h.handleDisconnect)
		r.Get("/users/me", h.handleMe)

		r.Post("/files", h.handleFileUpload)
		r.Get("/files", h.handleFileList)
		r.Get("/files/{id}", h.handleFileGet)
		r.Put("/files/{id}/publish", h.handleFilePublish)
		r.Put("/files/{id}/unpublish", h.handleFileUnpublish)
	})

	return r
}
