// Package content stores the raw byte payloads of leaf files, keyed by
// an opaque storage key. Metadata lives in the file index; this package
// only ever sees bytes.
package content

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/server/config"
)

type Store interface {
	// Put stores data under key, overwriting any prior blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the blob for key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewStore builds the content store selected by cfg.StorageBackend.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageFS, "":
		return NewFSStore(cfg.FolderPath)
	case config.StorageS3:
		return NewS3Store(ctx, cfg)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}
