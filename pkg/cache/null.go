package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// NullCache is selected by --no-cache and by "cache = false" in the config.
// Every lookup misses and every write is dropped, but both are counted so
// callers can report what a cache would have saved.
type NullCache struct {
	lookups atomic.Int64
	dropped atomic.Int64
}

// NewNullCache returns an empty NullCache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get records the lookup and misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	c.lookups.Add(1)
	return nil, false, nil
}

// Set drops data and adds its length to Dropped.
func (c *NullCache) Set(_ context.Context, _ string, data []byte, _ time.Duration) error {
	c.dropped.Add(int64(len(data)))
	return nil
}

func (c *NullCache) Delete(context.Context, string) error { return nil }
func (c *NullCache) Close() error                         { return nil }

// Lookups is the number of Get calls so far.
func (c *NullCache) Lookups() int64 { return c.lookups.Load() }

// Dropped is the number of artifact bytes handed to Set and discarded.
func (c *NullCache) Dropped() int64 { return c.dropped.Load() }

var _ Cache = (*NullCache)(nil)
