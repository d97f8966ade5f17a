package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/advancecard/pkg/cache"
	"github.com/matzehuels/advancecard/pkg/card/layout"
	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/sink"
	"github.com/matzehuels/advancecard/pkg/observability"
)

// Screenshotter is implemented by surfaces that can rasterize a scene
// themselves. PNG output prefers it over the rsvg-convert fallback.
type Screenshotter interface {
	Screenshot(ctx context.Context, s *scene.Scene, opts ...sink.SVGOption) ([]byte, error)
}

// RenderWithCacheInfo generates artifacts for a laid out result with caching
// and reports whether every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	surface := r.Surface.Name()

	artifacts := make(map[string][]byte)
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(res.CardHash, opts.ArtifactKeyOpts(format, surface))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: "artifact", Op: observability.CacheHit})
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: "artifact", Op: observability.CacheMiss})
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	start := time.Now()
	rendered, err := r.Render(ctx, res.Scene, res.Placement, res.Boxes, withFormats(opts, missing))
	observability.Pipeline().OnRender(ctx, observability.RenderEvent{Formats: missing, Duration: time.Since(start), Err: err})
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(res.CardHash, opts.ArtifactKeyOpts(format, surface))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: "artifact", Op: observability.CacheSet, Bytes: len(data)})
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render writes a positioned scene in every requested format.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, p layout.Placement, boxes scene.Boxes, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(boxes, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(s, svgOpts...)
		case FormatPNG:
			if shot, ok := r.Surface.(Screenshotter); ok {
				data, err = shot.Screenshot(ctx, s, svgOpts...)
			} else {
				data, err = sink.RenderPNG(ctx, s, sink.WithPNGSVGOptions(svgOpts...))
			}
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, s, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(s,
				sink.WithJSONPlacement(p),
				sink.WithJSONBoxes(boxes),
				sink.WithJSONSurface(r.Surface.Name()))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(boxes scene.Boxes, opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Titles {
		svgOpts = append(svgOpts, sink.WithTitles())
	}
	if opts.Debug {
		svgOpts = append(svgOpts, sink.WithBoxes(boxes))
	}
	return svgOpts
}

func withFormats(opts Options, formats []string) Options {
	opts.Formats = formats
	return opts
}
