package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/advancecard/pkg/cache"
	"github.com/matzehuels/advancecard/pkg/card"
	"github.com/matzehuels/advancecard/pkg/card/layout"
	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/observability"
)

// Layout runs both measurement passes of c on the runner's surface and
// positions its scene. It returns the number of passes served from cache.
func (r *Runner) Layout(ctx context.Context, c *card.Card, opts Options) (layout.Placement, scene.Boxes, int, error) {
	m := &cachedMeasurer{runner: r, refresh: opts.Refresh}
	start := time.Now()
	p, boxes, err := layout.Run(ctx, c.LayoutInput(), c.Scene(), m)
	if err != nil {
		if ctx.Err() != nil {
			return layout.Placement{}, nil, m.hits, ctx.Err()
		}
		return layout.Placement{}, nil, m.hits, errors.Wrap(errors.ErrCodeMeasureFailed, err, "measure card on %s surface", r.Surface.Name())
	}
	observability.Pipeline().OnLayout(ctx, observability.LayoutEvent{Diagnostics: len(p.Diagnostics), Duration: time.Since(start)})
	return p, boxes, m.hits, nil
}

// cachedMeasurer looks up each pass by the hash of the scene as it stands,
// translations included.
type cachedMeasurer struct {
	runner  *Runner
	refresh bool
	pass    int
	hits    int
}

func (m *cachedMeasurer) Measure(ctx context.Context, s *scene.Scene) (scene.Boxes, error) {
	r := m.runner
	name := r.Surface.Name()
	m.pass++

	sceneHash, hashErr := cache.HashJSON(s)
	key := ""
	if hashErr == nil {
		key = r.Keyer.MeasureKey(sceneHash, name)
		if !m.refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				var boxes scene.Boxes
				if json.Unmarshal(data, &boxes) == nil {
					observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: "measure", Op: observability.CacheHit})
					m.hits++
					return boxes, nil
				}
			}
			observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: "measure", Op: observability.CacheMiss})
		}
	}

	start := time.Now()
	boxes, err := r.Surface.Measure(ctx, s)
	observability.Pipeline().OnMeasure(ctx, observability.MeasureEvent{Surface: name, Pass: m.pass, Duration: time.Since(start), Err: err})
	if err != nil {
		return nil, err
	}

	if key != "" {
		if data, err := json.Marshal(boxes); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLMeasure)
			observability.Cache().OnCache(ctx, observability.CacheEvent{Kind: "measure", Op: observability.CacheSet, Bytes: len(data)})
		}
	}
	return boxes, nil
}
