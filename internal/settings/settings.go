// Package settings is the durable owner of persisted configuration. Values
// are stored whole under a (scope, key) pair; every write replaces the
// previous value, so readers never observe a partial update.
package settings

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists under (scope, key).
var ErrNotFound = errors.New("settings: key not found")

// Store persists JSON-encodable values under a named scope.
type Store interface {
	// Get reads the value stored under (scope, key) into dest.
	// Returns ErrNotFound when nothing was ever stored.
	Get(ctx context.Context, scope, key string, dest interface{}) error

	// Set stores value whole under (scope, key), atomically per call.
	Set(ctx context.Context, scope, key string, value interface{}) error

	// Delete removes the value under (scope, key). Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, scope, key string) error

	Close() error
}
