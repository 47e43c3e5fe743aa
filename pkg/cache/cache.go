// Package cache stores rendered artifacts between runs.
//
// Rendering PNG and PDF output shells out to rsvg-convert, which dominates
// the cost of a run. The pipeline keys every artifact by a hash of the
// layout document and the options that shape the output, so an unchanged
// layout rendered with unchanged options is served from disk.
//
// Three implementations are provided: [FileCache] for a single machine,
// [RedisCache] for a cache shared between machines, and [NullCache] when
// caching is disabled.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered artifact stays valid.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
