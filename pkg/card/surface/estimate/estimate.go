// Package estimate is a rendering surface that approximates text extents from
// character cell widths. It needs no fonts and no browser, which makes it the
// cheapest surface and a stable one for tests.
package estimate

import (
	"context"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/style"
)

// Name identifies the surface in logs, cache keys and CLI flags.
const Name = "estimate"

// Default ratios of a typical sans-serif face.
const (
	DefaultCellWidth = 0.6
	DefaultAscent    = 0.9
	DefaultDescent   = 0.3
	boldFactor       = 1.1
)

// Surface estimates text extents. A cell is one column of a narrow
// character; East Asian wide characters take two cells.
type Surface struct {
	CellWidth float64 // em fraction per cell
	Ascent    float64 // em fraction above the baseline
	Descent   float64 // em fraction below the baseline
}

// New returns a surface with the default ratios.
func New() *Surface {
	return &Surface{CellWidth: DefaultCellWidth, Ascent: DefaultAscent, Descent: DefaultDescent}
}

// Name returns the surface name.
func (s *Surface) Name() string { return Name }

// Advance implements scene.TextMetrics.
func (s *Surface) Advance(text string, st style.Final) float64 {
	w := float64(runewidth.StringWidth(text)) * st.FontSizePx * s.CellWidth
	if st.Bold() {
		w *= boldFactor
	}
	return w
}

// VerticalMetrics implements scene.TextMetrics.
func (s *Surface) VerticalMetrics(st style.Final) (float64, float64) {
	return st.FontSizePx * s.Ascent, st.FontSizePx * s.Descent
}

// Measure returns the estimated box of every group in sc.
func (s *Surface) Measure(ctx context.Context, sc *scene.Scene) (scene.Boxes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scene.MeasureAll(sc, s), nil
}
