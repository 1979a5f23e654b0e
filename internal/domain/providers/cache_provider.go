package providers

import (
	"context"
)

// CacheProvider defines the interface for caching operations. Only raw
// upstream payloads (directory queries, transcriptions) are ever cached;
// computed distances and triage decisions are always derived per request.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error
}
