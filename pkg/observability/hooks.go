// Package observability lets a process watch card renders without the
// libraries depending on a metrics or tracing backend.
//
// The pipeline, the caches it drives and the HTTP service report events to
// whatever [Hooks] were registered at startup. Until then every event goes to
// [Noop].
//
//	observability.Register(observability.Hooks{Pipeline: myPipelineHooks})
//	defer observability.Reset()
//
// [NewLogHooks] reports every event as a debug record.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// MeasureEvent describes one measurement pass on a surface. Pass 1 measures
// the labels and pass 2 the translated cards.
type MeasureEvent struct {
	Surface  string
	Pass     int
	Duration time.Duration
	Err      error
}

// LayoutEvent describes a completed layout.
type LayoutEvent struct {
	Diagnostics int
	Duration    time.Duration
}

// RenderEvent describes the rendering of the formats that were not cached.
type RenderEvent struct {
	Formats  []string
	Duration time.Duration
	Err      error
}

// CacheOp is the outcome of a cache access.
type CacheOp string

const (
	CacheHit  CacheOp = "hit"
	CacheMiss CacheOp = "miss"
	CacheSet  CacheOp = "set"
)

// CacheEvent describes a cache access. Kind is "measure" or "artifact".
type CacheEvent struct {
	Kind  string
	Op    CacheOp
	Bytes int
}

// ResponseEvent describes a response written by the card service. Route is
// the matched route pattern, such as "/cards/{id}/render".
type ResponseEvent struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
}

// PipelineHooks receives card pipeline events.
type PipelineHooks interface {
	OnMeasure(ctx context.Context, e MeasureEvent)
	OnLayout(ctx context.Context, e LayoutEvent)
	OnRender(ctx context.Context, e RenderEvent)
}

// CacheHooks receives measurement and artifact cache events.
type CacheHooks interface {
	OnCache(ctx context.Context, e CacheEvent)
}

// HTTPHooks receives card service events.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, e ResponseEvent)
}

// Noop ignores every event.
type Noop struct{}

func (Noop) OnMeasure(context.Context, MeasureEvent)   {}
func (Noop) OnLayout(context.Context, LayoutEvent)     {}
func (Noop) OnRender(context.Context, RenderEvent)     {}
func (Noop) OnCache(context.Context, CacheEvent)       {}
func (Noop) OnRequest(context.Context, string, string) {}
func (Noop) OnResponse(context.Context, ResponseEvent) {}

// Hooks bundles one receiver per event category. A nil field leaves the
// registered receiver of that category unchanged.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func defaults() *Hooks {
	return &Hooks{Pipeline: Noop{}, Cache: Noop{}, HTTP: Noop{}}
}

var registered atomic.Pointer[Hooks]

func init() {
	registered.Store(defaults())
}

// Register installs the non-nil receivers of h.
func Register(h Hooks) {
	for {
		old := registered.Load()
		next := *old
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if registered.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Reset restores [Noop] for every category.
func Reset() {
	registered.Store(defaults())
}

// Pipeline returns the registered pipeline receiver.
func Pipeline() PipelineHooks { return registered.Load().Pipeline }

// Cache returns the registered cache receiver.
func Cache() CacheHooks { return registered.Load().Cache }

// HTTP returns the registered HTTP receiver.
func HTTP() HTTPHooks { return registered.Load().HTTP }

var (
	_ PipelineHooks = Noop{}
	_ CacheHooks    = Noop{}
	_ HTTPHooks     = Noop{}
)
