package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys so a replayed create
// request returns the first response instead of allocating a second document
// number.
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request.
	// Returns false if the key is already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the response produced for key
	Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error

	// Lookup returns the stored response. found is true with a nil response
	// while the first request is still in flight.
	Lookup(ctx context.Context, key string) (response []byte, found bool, err error)

	// Release forgets key so the client may retry after a failure
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
