package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/BenJenkinson/react-spaces/pkg/cache"
	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	spacesio "github.com/BenJenkinson/react-spaces/pkg/io"
	"github.com/BenJenkinson/react-spaces/pkg/observability"
	"github.com/BenJenkinson/react-spaces/pkg/render/css"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete mount → resize → resolve → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, doc *spacesio.Document, opts Options) (*Result, error) {
	result, err := r.Layout(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	opts = result.options

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout mounts doc into a fresh store, replays opts.Resizes and resolves
// the tree. The result has no artifacts.
func (r *Runner) Layout(ctx context.Context, doc *spacesio.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "no layout document")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(doc); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	var buf bytes.Buffer
	if err := spacesio.WriteJSON(doc, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash layout")
	}

	result := &Result{
		Document:     doc,
		DocumentHash: cache.Hash(buf.Bytes()),
		Sheet:        css.NewSheet(),
		Viewport:     opts.Viewport(),
		Artifacts:    make(map[string][]byte),
		options:      opts,
	}

	// Stage 1: Mount
	mountStart := time.Now()
	observability.Pipeline().OnMountStart(ctx, doc.Name)
	err := r.mount(result, opts)
	result.Stats.MountTime = time.Since(mountStart)
	observability.Pipeline().OnMountComplete(ctx, doc.Name, result.Stats.SpaceCount, result.Stats.MountTime, err)
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}

	r.Logger.Info("mounted layout",
		"layout", doc.Name,
		"spaces", result.Stats.SpaceCount,
		"duration", result.Stats.MountTime)

	// Stage 2: Resize
	for _, step := range opts.Resizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		boxes, err := geometry.Resolve(result.Root, result.Viewport)
		if err != nil {
			return nil, fmt.Errorf("resolve: %w", err)
		}
		if err := Drag(result.Store, boxes, step); err != nil {
			return nil, fmt.Errorf("resize: %w", err)
		}
		result.Stats.ResizeCount++
		r.Logger.Debug("applied resize", "space", step.Space, "delta", step.Delta)
	}

	// Stage 3: Resolve
	resolveStart := time.Now()
	observability.Pipeline().OnResolveStart(ctx, result.Stats.SpaceCount)
	result.Boxes, err = geometry.Measure(result.Root, result.Viewport)
	result.Stats.ResolveTime = time.Since(resolveStart)
	observability.Pipeline().OnResolveComplete(ctx, result.Stats.ResolveTime, err)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Stats.StyleWrites = result.Sheet.Updates()

	r.Logger.Debug("resolved layout",
		"boxes", len(result.Boxes),
		"style_writes", result.Stats.StyleWrites,
		"duration", result.Stats.ResolveTime)

	return result, nil
}

// mount creates the store and adds every space. Each space's update
// callback re-pushes its styles, the way a mounted component re-renders.
func (r *Runner) mount(result *Result, opts Options) error {
	store := spaces.NewStore(
		spaces.WithSink(result.Sheet),
		spaces.WithLogger(opts.Logger),
	)

	doc := *result.Document
	if opts.HandleSize > 0 {
		doc.Spaces = make([]spacesio.Node, len(result.Document.Spaces))
		copy(doc.Spaces, result.Document.Spaces)
		for i := range doc.Spaces {
			if doc.Spaces[i].HandleSize == 0 {
				doc.Spaces[i].HandleSize = opts.HandleSize
			}
		}
	}

	root, err := spacesio.Mount(store, &doc, func(id string) func() {
		return func() {
			if sp, ok := store.GetSpace(id); ok {
				store.UpdateStyles(sp)
			}
		}
	})
	if err != nil {
		return err
	}
	result.Store = store
	result.Root = root
	result.Stats.SpaceCount = store.Len()
	return nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(result.Document); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(result.DocumentHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, result, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(result.DocumentHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
