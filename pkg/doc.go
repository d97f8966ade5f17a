// Package pkg provides the core libraries for advancecard KPI cards.
//
// # Overview
//
// An advance card shows one headline value: a formatted main measure with
// optional prefix, postfix and category label, an optional progression
// value with its own label, and colors chosen by threshold rules. The pkg
// directory is organized into four main areas:
//
//  1. [card] - Domain logic (measures, rules, formatting, styles, layout)
//  2. [settings], [data] - Inputs (card settings and the one-row table)
//  3. [pipeline] - Orchestration (build → layout → render) with caching
//  4. [server], [store], [cache] - Service infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	settings file + data table
//	         ↓
//	    [card] package (resolve measures, evaluate rules, format, style)
//	         ↓
//	    [card/layout] package (measure twice on a surface, place groups)
//	         ↓
//	    [card/sink] package (SVG, PNG, PDF, JSON)
//
// # Quick Start
//
//	s, _ := settings.Load("card.toml")
//	t, _ := data.Load("sales.csv")
//
//	c := card.Build(s, t, 300, 200, nil)
//	sc := c.Scene()
//	placement, _, _ := layout.Run(ctx, c.LayoutInput(), sc, estimate.New())
//	svg := sink.RenderSVG(sc)
//
// Most callers use the pipeline instead, which adds validation and caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger, surface)
//	result, _ := runner.Execute(ctx, pipeline.Options{Settings: s, Table: t})
//
// # Main Packages
//
// [card/condition] - Threshold rules: five comparators, up to ten slots,
// first match wins.
//
// [card/measure] - Picks the main, progression and condition values out of
// the table by column role.
//
// [card/format] - Number formatting with display units (auto, thousands,
// millions, billions, trillions) and format-string masks.
//
// [card/style] - Resolves the final text style of every span from its
// configured style and the matched rule.
//
// [card/shape] - Rounded-rectangle outline paths with per-corner rounding
// and inward (concave) corners.
//
// [card/surface] - Rendering surfaces that measure scenes: Go font metrics,
// a width estimate, and a headless browser.
//
// [cache] - File and Redis caches for measurements and artifacts.
//
// [store] - Card definitions in memory or MongoDB.
//
// [server] - The HTTP API over the pipeline and the store.
//
// # Testing
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/card/...            # Card engine only
//	ADVANCECARD_TEST_REDIS=redis://localhost:6379/0 go test ./pkg/cache/...
//
// [card]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card
// [settings]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/settings
// [data]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/data
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/server
// [store]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/cache
// [card/condition]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/condition
// [card/measure]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/measure
// [card/format]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/format
// [card/style]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/style
// [card/shape]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/shape
// [card/surface]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/surface
// [card/layout]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/layout
// [card/sink]: https://pkg.go.dev/github.com/matzehuels/advancecard/pkg/card/sink
package pkg
