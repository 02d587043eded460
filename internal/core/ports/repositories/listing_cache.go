package repositories

import "context"

// ListingCache memoizes the serialized full product listing under a single
// key with a fixed TTL. Implementations must be safe to fail: callers treat
// any error as a cache miss and fall through to the store.
type ListingCache interface {
	// Get returns the cached snapshot and whether it was present.
	Get(ctx context.Context) ([]byte, bool, error)

	// Set stores the snapshot with the configured TTL.
	Set(ctx context.Context, payload []byte) error

	// Invalidate drops the snapshot. Called synchronously before responding
	// to any product mutation.
	Invalidate(ctx context.Context) error
}
