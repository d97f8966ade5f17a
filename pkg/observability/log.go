package observability

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug record.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to log.Default() when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h for every category.
func (h *LogHooks) Register() {
	Register(Hooks{Pipeline: h, Cache: h, HTTP: h})
}

func (h *LogHooks) OnMeasure(_ context.Context, e MeasureEvent) {
	h.Logger.Debug("measured", "surface", e.Surface, "pass", e.Pass, "took", e.Duration, "err", e.Err)
}

func (h *LogHooks) OnLayout(_ context.Context, e LayoutEvent) {
	h.Logger.Debug("laid out", "diagnostics", e.Diagnostics, "took", e.Duration)
}

func (h *LogHooks) OnRender(_ context.Context, e RenderEvent) {
	h.Logger.Debug("rendered", "formats", e.Formats, "took", e.Duration, "err", e.Err)
}

func (h *LogHooks) OnCache(_ context.Context, e CacheEvent) {
	if e.Op == CacheSet {
		h.Logger.Debug("cache "+string(e.Op), "kind", e.Kind, "bytes", e.Bytes)
		return
	}
	h.Logger.Debug("cache "+string(e.Op), "kind", e.Kind)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, e ResponseEvent) {
	h.Logger.Debug("response", "method", e.Method, "route", e.Route, "status", e.Status, "took", e.Duration)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
