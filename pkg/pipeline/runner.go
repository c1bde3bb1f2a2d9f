package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpmnlayout/pkg/cache"
	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP service use this to avoid duplicating caching logic.
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

// Execute runs the layout → render pipeline over a loaded source. src must
// carry a graph.
func (r *Runner) Execute(ctx context.Context, src *Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Source:    src,
		GraphHash: graphHash(src.Graph),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.NodeCount = src.Graph.NodeCount()
	result.Stats.EdgeCount = src.Graph.EdgeCount()

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, src.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"tier", l.Tier,
		"nodes", len(l.Nodes),
		"back_edges", len(l.BackEdges),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, src, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
// Errors come only from invalid options; the layout itself cannot fail.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *dag.DAG, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(graphHash(g), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
			r.Logger.Debug("discarding cached layout", "key", cacheKey, "error", err)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
	}

	l, cacheable := computeLayout(ctx, g, opts)

	// A layout cut short by cancellation or a tier timeout says nothing
	// about the graph.
	if !cacheable {
		r.Logger.Debug("not caching timed-out layout", "key", cacheKey, "tier", l.Tier)
	}
	if cacheable && ctx.Err() == nil {
		if data, err := graph.MarshalLayout(l); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
				r.Logger.Warn("cache write failed", "error", err)
			}
		}
	}

	return l, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *dag.DAG, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// LayoutDocument lays out a BPMN document and returns it with diagram
// interchange written in, along with the layout used.
func (r *Runner) LayoutDocument(ctx context.Context, data []byte, opts Options) ([]byte, graph.Layout, error) {
	src, err := LoadBPMN(data)
	if err != nil {
		return nil, graph.Layout{}, err
	}
	opts.Formats = []string{FormatBPMN}
	res, err := r.Execute(ctx, src, opts)
	if err != nil {
		return nil, graph.Layout{}, err
	}
	return res.Artifacts[FormatBPMN], res.Layout, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, src *Source, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	ctx, span := observability.StartRenderSpan(ctx, opts.Formats)
	start := time.Now()
	observability.Layout().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Layout().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		observability.EndSpanWithError(span, err)
	}()

	// Compute cache key from layout data, plus the document for BPMN output
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	if src.IsBPMN() {
		layoutData = append(layoutData, src.Data...)
	}
	cacheKeyHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts = make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render only what the cache did not have
	missing := opts
	missing.Formats = slices.DeleteFunc(slices.Clone(opts.Formats), func(f string) bool {
		_, ok := artifacts[f]
		return ok
	})
	rendered, err := RenderFromLayout(ctx, l, src, missing)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}

	return artifacts, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, src *Source, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, src, opts)
	return artifacts, err
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
