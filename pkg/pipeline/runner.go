package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/prepdeck/prepdeck/pkg/cache"
	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/generate"
	"github.com/prepdeck/prepdeck/pkg/observability"
	"github.com/prepdeck/prepdeck/pkg/render"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
	"github.com/prepdeck/prepdeck/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Store   store.Store       // optional; nil disables store lookups
	Service *generate.Service // optional; nil disables generation
}

// RunnerOption configures optional Runner backends.
type RunnerOption func(*Runner)

// WithStore resolves course names from st and saves generated courses to it.
func WithStore(st store.Store) RunnerOption {
	return func(r *Runner) { r.Store = st }
}

// WithService generates courses that are not stored.
func WithService(svc *generate.Service) RunnerOption {
	return func(r *Runner) { r.Service = svc }
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts ...RunnerOption) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs the complete resolve → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Resolve
	resolveStart := time.Now()
	c, key, source, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	resolveTime := time.Since(resolveStart)

	result, err := r.run(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	result.Key = key
	result.CacheInfo.Source = source
	result.Stats.ResolveTime = resolveTime
	return result, nil
}

// ExecuteCourse runs the layout and render stages for a course the caller
// already has, such as one posted to the API.
func (r *Runner) ExecuteCourse(ctx context.Context, c course.Course, opts Options) (*Result, error) {
	if err := course.Validate(c); err != nil {
		return nil, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result, err := r.run(ctx, course.Normalize(c), opts)
	if err != nil {
		return nil, err
	}
	result.Key = course.StoreKey(c.Title)
	result.CacheInfo.Source = SourceInline
	return result, nil
}

func (r *Runner) run(ctx context.Context, c course.Course, opts Options) (*Result, error) {
	result := &Result{
		Course:      c,
		Diagnostics: Diagnose(c),
	}
	r.logDiagnostics(result.Diagnostics)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ModuleCount = len(c.Modules)
	result.Stats.ConnectionCount = len(l.Connections)
	result.Stats.LevelCount = len(l.Columns())
	result.Stats.Passes = l.Passes
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"modules", result.Stats.ModuleCount,
		"levels", result.Stats.LevelCount,
		"passes", l.Passes,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, c, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) logDiagnostics(d Diagnostics) {
	if len(d.Cycle) > 0 {
		r.Logger.Warn("prerequisite cycle; modules left at level 0", "cycle", d.Cycle)
	}
	for id, missing := range d.Unknown {
		r.Logger.Warn("unknown prerequisites", "module", id, "missing", missing)
	}
	if len(d.Duplicates) > 0 {
		r.Logger.Warn("duplicate module ids", "ids", d.Duplicates)
	}
}

// Close releases resources held by the runner's cache and store.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// =============================================================================
// Layout
// =============================================================================

// LayoutWithCacheInfo computes the layout of c with caching and returns
// cache hit info. Layouts are keyed by module content and spacing.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, c course.Course, opts Options) (roadmap.Layout, bool, error) {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(c.Modules))
	start := time.Now()

	courseHash, err := cache.HashJSON(c.Modules)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, time.Since(start), err)
		return roadmap.Layout{}, false, fmt.Errorf("hash modules: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(courseHash, opts.LayoutKeyOpts())

	var l roadmap.Layout
	if hit, err := cache.GetJSON(ctx, r.Cache, cacheKey, &l); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "layout")
		hooks.OnLayoutComplete(ctx, l.Passes, len(l.Unresolved), time.Since(start), nil)
		return l, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l = roadmap.Compute(c.Modules, opts.Layout)
	r.setCache(ctx, "layout", cacheKey, l, cache.TTLLayout)

	hooks.OnLayoutComplete(ctx, l.Passes, len(l.Unresolved), time.Since(start), nil)
	return l, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, c course.Course, opts Options) (roadmap.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, c, opts)
	return l, err
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo renders every requested format with caching and
// reports whether all of them came from the cache. Only missing formats
// are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l roadmap.Layout, c course.Course, opts Options) (map[render.Format][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	names := formatNames(opts.Formats)
	hooks.OnRenderStart(ctx, names)
	start := time.Now()

	contentHash, err := cache.HashJSON(struct {
		Layout roadmap.Layout `json:"layout"`
		Course course.Course  `json:"course"`
	}{l, c})
	if err != nil {
		hooks.OnRenderComplete(ctx, names, time.Since(start), err)
		return nil, false, fmt.Errorf("hash layout: %w", err)
	}

	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		allCached = false

		data, err := RenderFormat(ctx, format, l, c, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, names, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	hooks.OnRenderComplete(ctx, names, time.Since(start), nil)
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l roadmap.Layout, c course.Course, opts Options) (map[render.Format][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, c, opts)
	return artifacts, err
}

func (r *Runner) setCache(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Debug("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func formatNames(formats []render.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
