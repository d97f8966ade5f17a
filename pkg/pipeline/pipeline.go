// Package pipeline provides the card rendering pipeline shared by the CLI
// and the HTTP service.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: resolve measures, evaluate rules, format values and emit the
//     pass-one scene (package card)
//  2. Layout: measure the scene twice on a rendering surface and place the
//     labels and cards (package card/layout)
//  3. Render: write the positioned scene as SVG, PNG, PDF or JSON
//
// Measurements and artifacts are cached through a cache.Cache, so repeated
// renders of an unchanged card cost one hash per stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger, surface)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Settings: s,
//	    Table:    t,
//	    Width:    300,
//	    Height:   200,
//	    Formats:  []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/advancecard/pkg/cache"
	"github.com/matzehuels/advancecard/pkg/card"
	"github.com/matzehuels/advancecard/pkg/card/layout"
	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/data"
	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/settings"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 300.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 200.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one card render.
// This struct supports JSON serialization for API requests.
type Options struct {
	Settings settings.Settings `json:"settings"`
	Table    data.Table        `json:"data"`

	// Viewport
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Titles  bool     `json:"titles,omitempty"` // Emit <title> tooltips
	Debug   bool     `json:"debug,omitempty"`  // Outline measured group boxes
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Card is the built card with its resolved measures and rule matches.
	Card *card.Card

	// CardHash is the content hash of settings, data and viewport.
	CardHash string

	// Scene is the positioned scene.
	Scene *scene.Scene

	// Placement is the layout result, including diagnostics.
	Placement layout.Placement

	// Boxes are the measurements of the final pass.
	Boxes scene.Boxes

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Diagnostics int
	BuildTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	MeasureHits int  // Measurement passes served from cache (0-2)
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the request and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
//
// Settings problems are not errors: they are logged as warnings and the
// card renders with its fallbacks.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Table.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "invalid data: %v", err)
	}
	if err := o.Settings.Validate(); err != nil {
		o.Logger.Warn("settings problems", "err", err)
	}
	o.validated = true
	return nil
}

// SetDefaults fills in the viewport, formats and logger.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// CardHash returns the content hash of everything Build depends on.
// Non-finite cells (NaN, ±Inf) hash as {"$float": "<v>"} since JSON cannot
// encode them.
func (o *Options) CardHash() (string, error) {
	h, err := cache.HashJSON(struct {
		Settings settings.Settings `json:"settings"`
		Columns  []data.Column     `json:"columns"`
		Rows     [][]any           `json:"rows"`
		Width    float64           `json:"width"`
		Height   float64           `json:"height"`
	}{o.Settings, o.Table.Columns, hashableRows(o.Table.Rows), o.Width, o.Height})
	if err != nil {
		return "", fmt.Errorf("hash card: %w", err)
	}
	return h, nil
}

type nonFinite struct {
	Float string `json:"$float"`
}

// hashableRows copies rows, replacing non-finite floats with nonFinite.
// rows is returned as is when every cell is encodable.
func hashableRows(rows [][]any) [][]any {
	finite := func(v any) bool {
		f, ok := v.(float64)
		return !ok || !(math.IsNaN(f) || math.IsInf(f, 0))
	}
	clean := true
	for _, row := range rows {
		for _, v := range row {
			clean = clean && finite(v)
		}
	}
	if clean {
		return rows
	}
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = make([]any, len(row))
		for j, v := range row {
			if finite(v) {
				out[i][j] = v
			} else {
				out[i][j] = nonFinite{Float: fmt.Sprint(v)}
			}
		}
	}
	return out
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format, surface string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Width:   o.Width,
		Height:  o.Height,
		Titles:  o.Titles,
		Debug:   o.Debug,
		Surface: surface,
	}
}
