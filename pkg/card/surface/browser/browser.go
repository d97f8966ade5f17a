// Package browser is a rendering surface backed by a headless Chrome.
//
// The scene is rendered to SVG by the sink package, loaded into a page and
// measured with getBBox on every named group, exactly as the card visual is
// measured inside its host. The same page can be captured as PNG.
package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/sink"
)

// Name identifies the surface in logs, cache keys and CLI flags.
const Name = "browser"

// DefaultTimeout bounds a single measurement or screenshot.
const DefaultTimeout = 30 * time.Second

// ErrClosed is returned by calls on a closed surface.
var ErrClosed = errors.New("browser surface closed")

const measureJS = `(() => {
  const out = {};
  document.querySelectorAll('svg.card g[class]').forEach(g => {
    const b = g.getBBox();
    out[g.getAttribute('class')] = {x: b.x, y: b.y, width: b.width, height: b.height};
  });
  return out;
})()`

// Option configures a Surface.
type Option func(*config)

type config struct {
	timeout   time.Duration
	execPath  string
	noSandbox bool
}

// WithTimeout bounds each page operation.
func WithTimeout(d time.Duration) Option { return func(c *config) { c.timeout = d } }

// WithExecPath selects the Chrome binary instead of searching PATH.
func WithExecPath(path string) Option { return func(c *config) { c.execPath = path } }

// WithNoSandbox disables the Chrome sandbox, needed when running as root in
// containers.
func WithNoSandbox() Option { return func(c *config) { c.noSandbox = true } }

// Surface owns one browser process. Calls are serialized; each call opens a
// fresh tab. Close releases the browser.
type Surface struct {
	timeout time.Duration

	mu            sync.Mutex
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// New starts a headless browser.
func New(opts ...Option) (*Surface, error) {
	cfg := config{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless, chromedp.DisableGPU)
	if cfg.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.execPath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return &Surface{
		timeout:       cfg.timeout,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

// Name returns the surface name.
func (s *Surface) Name() string { return Name }

// Measure renders sc in a page and returns getBBox of every named group.
// Groups missing from the page get the zero box.
func (s *Surface) Measure(ctx context.Context, sc *scene.Scene) (scene.Boxes, error) {
	var raw map[string]scene.Box
	if err := s.run(ctx, sc, chromedp.Evaluate(measureJS, &raw)); err != nil {
		return nil, fmt.Errorf("measure in browser: %w", err)
	}
	boxes := make(scene.Boxes, len(raw))
	for name, b := range raw {
		boxes[scene.Group(name)] = b
	}
	return boxes, nil
}

// Screenshot renders sc and captures it as PNG.
func (s *Surface) Screenshot(ctx context.Context, sc *scene.Scene, opts ...sink.SVGOption) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, sc, chromedp.Screenshot("svg.card", &buf, chromedp.ByQuery), opts...); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, errors.New("screenshot: empty image")
	}
	return buf, nil
}

// Close stops the browser.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCtx == nil {
		return nil
	}
	s.cancelBrowser()
	s.cancelAlloc()
	s.browserCtx = nil
	return nil
}

func (s *Surface) run(ctx context.Context, sc *scene.Scene, action chromedp.Action, opts ...sink.SVGOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCtx == nil {
		return ErrClosed
	}

	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(tabCtx,
		chromedp.EmulateViewport(viewportEdge(sc.Width), viewportEdge(sc.Height)),
		chromedp.Navigate(PageURL(sc, opts...)),
		chromedp.WaitReady("svg.card", chromedp.ByQuery),
		action,
	)
}

// PageURL returns a data URL of an HTML page showing sc.
func PageURL(sc *scene.Scene, opts ...sink.SVGOption) string {
	page := `<!DOCTYPE html><html><head><meta charset="utf-8"><style>body{margin:0}</style></head><body>` +
		string(sink.RenderSVG(sc, opts...)) + `</body></html>`
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))
}

func viewportEdge(v float64) int64 {
	return max(int64(v+0.5), 1)
}
