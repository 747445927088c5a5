// Package services contains server-side business logic. This file
// implements AuthService, the single chokepoint that turns inbound
// credentials or tokens into an authenticated user id.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/filekeeper/internal/server/sessions"
)

// AuthService issues, resolves and revokes opaque session tokens backed
// by an expiring store.
type AuthService struct {
	users      users.Repository
	sessions   sessions.Store
	sessionTTL time.Duration
	logger     logging.Logger
}

func NewAuthService(u users.Repository, s sessions.Store, ttl time.Duration, l logging.Logger) *AuthService {
	return &AuthService{
		users:      u,
		sessions:   s,
		sessionTTL: ttl,
		logger:     l.With("module", "auth"),
	}
}

// decodeBasicCredentials extracts email and password from an
// "Authorization: Basic base64(email:password)" header value.
func decodeBasicCredentials(header string) (string, string, error) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", common.ErrorUnauthorized
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return "", "", common.ErrorUnauthorized
	}

	email, password, ok := strings.Cut(string(raw), ":")
	if !ok || email == "" || password == "" {
		return "", "", common.ErrorUnauthorized
	}
	return email, password, nil
}

// Login verifies the Basic credentials and, on success, mints a fresh
// random token and stores the session with the configured TTL.
//
// Every credential failure (missing header, malformed encoding, unknown
// email, wrong password) collapses to ErrorUnauthorized so that account
// existence is not leaked; the precise reason is logged server-side only.
func (s *AuthService) Login(ctx context.Context, authHeader string) (string, error) {
	email, password, err := decodeBasicCredentials(authHeader)
	if err != nil {
		s.logger.Info(ctx, "login rejected", "reason", "malformed credentials")
		return "", common.ErrorUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login rejected", "reason", "unknown email")
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("user lookup error: %w", err)
	}

	if !checkPassword(user.PasswordHash, password, user.Salt) {
		s.logger.Info(ctx, "login rejected", "reason", "wrong password", "user_id", user.ID)
		return "", common.ErrorUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, user.ID, s.sessionTTL); err != nil {
		return "", fmt.Errorf("session create error: %w", err)
	}

	s.logger.Info(ctx, "session created", "user_id", user.ID)
	return token, nil
}

// Resolve maps a token to the user id it was issued for. It never
// extends the session TTL. An empty or unknown token yields
// ErrorUnauthorized; a store failure is passed through as an
// infrastructure error so callers can tell the two apart.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	return userID, nil
}

// Logout deletes the session for a resolvable token. A token that no
// longer resolves (already logged out, or expired) is ErrorUnauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("session delete error: %w", err)
	}

	s.logger.Info(ctx, "session destroyed", "user_id", userID)
	return nil
}
