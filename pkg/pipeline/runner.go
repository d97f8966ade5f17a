package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/advancecard/pkg/cache"
	"github.com/matzehuels/advancecard/pkg/card"
	"github.com/matzehuels/advancecard/pkg/card/format"
	"github.com/matzehuels/advancecard/pkg/card/layout"
	"github.com/matzehuels/advancecard/pkg/card/surface/estimate"
)

// Surface is a rendering surface that can measure a scene.
type Surface interface {
	layout.Measurer
	// Name identifies the surface in cache keys and JSON output.
	Name() string
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP service use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options as long as the surface is safe for concurrent use.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Surface   Surface
	Formatter *format.Adapter
}

// NewRunner creates a runner with the given cache, keyer and surface.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If surface is nil, the estimate surface is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, surface Surface) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if surface == nil {
		surface = estimate.New()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		Surface:   surface,
		Formatter: format.NewAdapter(nil),
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := opts.CardHash()
	if err != nil {
		return nil, err
	}
	result := &Result{CardHash: hash}

	// Stage 1: Build
	buildStart := time.Now()
	c := r.Build(opts)
	result.Card = c
	result.Scene = c.Scene()
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Debug("built card",
		"value", c.Value,
		"progression", c.ProgressionValue,
		"matched", c.Matched,
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	placement, boxes, hits, err := r.Layout(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Placement = placement
	result.Boxes = boxes
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Diagnostics = len(placement.Diagnostics)
	result.CacheInfo.MeasureHits = hits

	for _, d := range placement.Diagnostics {
		r.Logger.Warn("layout", "element", d.Element, "problem", d.Message)
	}
	r.Logger.Info("computed layout",
		"surface", r.Surface.Name(),
		"card", fmt.Sprintf("%.1f,%.1f", placement.Card.X, placement.Card.Y),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
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

// Build runs the build stage. It never fails.
func (r *Runner) Build(opts Options) *card.Card {
	opts.SetDefaults()
	return card.Build(opts.Settings, opts.Table, opts.Width, opts.Height, r.Formatter)
}

// Close releases the cache and, when it holds resources, the surface.
func (r *Runner) Close() error {
	var errs []error
	if closer, ok := r.Surface.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	return errors.Join(errs...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
