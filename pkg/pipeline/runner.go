package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ridgeline/pkg/cache"
	"github.com/matzehuels/ridgeline/pkg/observability"
)

// Runner encapsulates offline rendering with caching.
// Both the CLI and the HTTP server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
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

// Render produces every requested format, serving them from the cache when
// all of them are present there.
func (r *Runner) Render(ctx context.Context, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, opts); ok {
			r.Logger.Info("served from cache", "formats", opts.Formats, "seed", opts.Seed)
			return &Result{Artifacts: artifacts, CacheHit: true}, nil
		}
	}

	result = &Result{Artifacts: make(map[string][]byte, len(opts.Formats))}
	for _, format := range opts.Formats {
		data, stats, err := renderFormat(ctx, opts, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		result.Stats.Layers = stats.Layers
		result.Stats.Edges = stats.Edges
		result.Stats.Drawn = stats.Drawn
		result.Stats.Frames = stats.Frames
		result.Stats.BuildTime += stats.BuildTime
		result.Stats.RenderTime += stats.RenderTime

		r.Logger.Debug("rendered format",
			"format", format,
			"bytes", len(data),
			"drawn", stats.Drawn,
			"duration", stats.RenderTime)
	}

	for format, data := range result.Artifacts {
		key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyArtifact, len(data))
	}

	r.Logger.Info("rendered backdrop",
		"formats", opts.Formats,
		"seed", opts.Seed,
		"frames", result.Stats.Frames,
		"duration", time.Since(start))
	return result, nil
}

// keyArtifact is the key type reported to cache hooks.
const keyArtifact = "artifact"

// lookup returns the cached artifacts when every format is present.
func (r *Runner) lookup(ctx context.Context, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyArtifact)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, keyArtifact)
		artifacts[format] = data
	}
	return artifacts, true
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
