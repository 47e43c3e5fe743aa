package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Store hooks
	s := NoopStoreHooks{}
	s.OnSpaceAdded("sidebar", "main")
	s.OnSpaceRemoved("sidebar", "main")
	s.OnRecalculate("main", 2, time.Millisecond)

	// Resize hooks
	r := NoopResizeHooks{}
	r.OnResizeStart("sidebar", "01HZX")
	r.OnResizeMove("sidebar", 30)
	r.OnResizeEnd("sidebar", 30, false)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnMountStart(ctx, "demo.toml")
	p.OnMountComplete(ctx, "demo.toml", 12, time.Second, nil)
	p.OnResolveStart(ctx, 12)
	p.OnResolveComplete(ctx, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Resize().(NoopResizeHooks); !ok {
		t.Error("Resize() should return NoopResizeHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customResize := &testResizeHooks{}
	SetResizeHooks(customResize)
	if Resize() != customResize {
		t.Error("SetResizeHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Resize().(NoopResizeHooks); !ok {
		t.Error("Reset() should restore NoopResizeHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testResizeHooks{}
	SetResizeHooks(custom)

	// Setting nil should be ignored
	SetResizeHooks(nil)

	if Resize() != custom {
		t.Error("SetResizeHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testStoreHooks struct{ NoopStoreHooks }
type testResizeHooks struct{ NoopResizeHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
