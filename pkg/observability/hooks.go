// Package observability provides hooks for metrics, tracing, and logging.
//
// Layout code reports what it does through small hook interfaces instead of
// depending on a metrics or tracing backend. Every hook has a no-op default,
// so nothing needs to be registered for the library to work.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetResizeHooks(&myResizeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Resize().OnResizeStart(spaceID, sessionID)
//	// ... pointer moves ...
//	observability.Resize().OnResizeEnd(spaceID, resized, false)
//
// Store and resize hooks fire on the hot path of a drag and take no
// context; pipeline and cache hooks do.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from a space store.
type StoreHooks interface {
	OnSpaceAdded(id, parentID string)
	OnSpaceRemoved(id, parentID string)

	// OnRecalculate reports one pass over a parent's children and how many
	// of them changed.
	OnRecalculate(parentID string, changed int, duration time.Duration)
}

// =============================================================================
// Resize Hooks
// =============================================================================

// ResizeHooks receives events from the resize controller.
type ResizeHooks interface {
	OnResizeStart(spaceID, sessionID string)
	OnResizeMove(spaceID string, resized float64)
	OnResizeEnd(spaceID string, resized float64, cancelled bool)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	// Mount events
	OnMountStart(ctx context.Context, layout string)
	OnMountComplete(ctx context.Context, layout string, spaceCount int, duration time.Duration, err error)

	// Resolve events
	OnResolveStart(ctx context.Context, spaceCount int)
	OnResolveComplete(ctx context.Context, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSpaceAdded(string, string)              {}
func (NoopStoreHooks) OnSpaceRemoved(string, string)            {}
func (NoopStoreHooks) OnRecalculate(string, int, time.Duration) {}

// NoopResizeHooks is a no-op implementation of ResizeHooks.
type NoopResizeHooks struct{}

func (NoopResizeHooks) OnResizeStart(string, string)      {}
func (NoopResizeHooks) OnResizeMove(string, float64)      {}
func (NoopResizeHooks) OnResizeEnd(string, float64, bool) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnMountStart(context.Context, string) {}
func (NoopPipelineHooks) OnMountComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnResolveStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, time.Duration, error)          {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks    StoreHooks    = NoopStoreHooks{}
	resizeHooks   ResizeHooks   = NoopResizeHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetResizeHooks registers custom resize hooks.
func SetResizeHooks(h ResizeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resizeHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Resize returns the registered resize hooks.
func Resize() ResizeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resizeHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	resizeHooks = NoopResizeHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
