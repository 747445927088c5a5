package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/files"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/filekeeper/internal/server/sessions"
)

// StatusService backs the unauthenticated /status and /stats endpoints.
type StatusService struct {
	db       *sql.DB
	sessions sessions.Store
	users    users.Repository
	files    files.Repository
}

func NewStatusService(db *sql.DB, s sessions.Store, u users.Repository, f files.Repository) *StatusService {
	return &StatusService{db: db, sessions: s, users: u, files: f}
}

// Status reports liveness of the two shared stores as plain booleans.
func (s *StatusService) Status(ctx context.Context) (redisAlive, dbAlive bool) {
	redisAlive = s.sessions.Ping(ctx) == nil
	dbAlive = s.db != nil && s.db.PingContext(ctx) == nil
	return redisAlive, dbAlive
}

// Stats returns the total user and file counts.
func (s *StatusService) Stats(ctx context.Context) (userCount, fileCount int64, err error) {
	userCount, err = s.users.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("user count error: %w", err)
	}
	fileCount, err = s.files.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("file count error: %w", err)
	}
	return userCount, fileCount, nil
}
