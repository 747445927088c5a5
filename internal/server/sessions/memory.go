package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with absolute per-entry expiry.
// Expired entries are dropped lazily on read. Safe for concurrent use.
// Intended for tests and single-node development setups.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[keyPrefix+token] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[keyPrefix+token]
	if !ok {
		return "", common.ErrorNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, keyPrefix+token)
		return "", common.ErrorNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, keyPrefix+token)
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }
