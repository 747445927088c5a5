package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// TokenHeader carries the session token on protected requests.
const TokenHeader = "X-Token"

type ctxKey string

const userIDKey ctxKey = "userID"

// userIDFrom returns the authenticated user id stored by tokenAuth,
// or "" for anonymous requests.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// tokenAuth resolves the x-token header into a user id and stores it in
// the request context. A token that does not resolve is 401; a session
// store that cannot be reached is 500, never 401.
func (h *Handler) tokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.auth.Resolve(r.Context(), r.Header.Get(TokenHeader))
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			h.writeServiceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger emits one structured log line per request.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
