// Package sessions stores the mapping from opaque bearer tokens to user
// ids with a fixed time-to-live. It is a pure key-value abstraction over
// any expiring store; expiry is enforced by the store itself, and reads
// never extend it.
package sessions

import (
	"context"
	"time"
)

// keyPrefix namespaces session keys in shared stores.
const keyPrefix = "auth_"

// Store is the session store contract.
//
// Get must distinguish "no such session" (common.ErrorNotFound) from the
// store being unreachable (any other error): the former is an
// authorization outcome, the latter an infrastructure failure.
type Store interface {
	// Put stores token -> userID, overwriting any prior value, and
	// schedules removal after ttl.
	Put(ctx context.Context, token, userID string, ttl time.Duration) error

	// Get resolves a token to the user id it was issued for.
	Get(ctx context.Context, token string) (string, error)

	// Delete removes the session immediately.
	Delete(ctx context.Context, token string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
