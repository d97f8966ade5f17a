// Package layout positions the groups of a card scene.
//
// Layout is a two-pass protocol. The scene is first drawn with every group at
// the origin and measured on a rendering surface. Compute turns the measured
// boxes into translations for the labels, which are applied and measured
// again so the composite groups include their labels, and then into
// translations for the main and progression cards. Compute itself is pure:
// given the same inputs and boxes it always returns the same placement.
package layout

import (
	"context"
	"fmt"

	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/shape"
)

// Alignments understood by the engine.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// cornerInset is the share of the corner radius kept clear of a rounded
// edge.
const cornerInset = 0.6

// Input holds everything the layout needs besides measured boxes.
type Input struct {
	Width     float64
	Height    float64
	Alignment string
	Spacing   float64

	BorderShown  bool
	CornerRadius float64
	Rounded      shape.Corners

	MainPresent           bool
	CategoryLabelShown    bool
	ProgressionPresent    bool
	ProgressionLabelShown bool

	Inline         bool
	InlineMargin   float64
	CenterVertical bool
	MarginTop      float64
}

// Point is a translation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Diagnostic reports a non-fatal layout problem.
type Diagnostic struct {
	Element scene.Group `json:"element"`
	Message string      `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Element, d.Message)
}

// Placement is the computed translation of every positioned group.
type Placement struct {
	Card             Point        `json:"card"`
	Progression      Point        `json:"progression"`
	CategoryLabel    Point        `json:"categoryLabel"`
	ProgressionLabel Point        `json:"progressionLabel"`
	Diagnostics      []Diagnostic `json:"diagnostics,omitempty"`
}

// Measurer measures the named groups of a scene on a rendering surface.
// Groups that are not drawn get the zero box.
type Measurer interface {
	Measure(ctx context.Context, s *scene.Scene) (scene.Boxes, error)
}

// Labels computes the label translations relative to their cards.
func Labels(in Input, boxes scene.Boxes) Placement {
	var p Placement
	content := boxes.Get(scene.Content)
	cat := boxes.Get(scene.CategoryLabel)
	progContent := boxes.Get(scene.ProgressionContent)
	progLabel := boxes.Get(scene.ProgressionLabel)

	x, ok := alignWithin(in.Alignment, content.Width, cat.Width)
	if !ok && in.MainPresent && in.CategoryLabelShown {
		p.diagnose(scene.CategoryLabel, in.Alignment)
	}
	progLabelDrawn := in.ProgressionPresent && in.ProgressionLabelShown
	p.CategoryLabel = Point{X: x, Y: content.Height/2 + cat.Height*0.25}

	if in.Inline {
		p.ProgressionLabel.X = progContent.Width + in.InlineMargin
		if !known(in.Alignment) {
			p.ProgressionLabel.X = 0
			if progLabelDrawn {
				p.diagnose(scene.ProgressionLabel, in.Alignment)
			}
		}
	} else {
		x, ok := alignWithin(in.Alignment, progContent.Width, progLabel.Width)
		if !ok && progLabelDrawn {
			p.diagnose(scene.ProgressionLabel, in.Alignment)
		}
		p.ProgressionLabel = Point{X: x, Y: progContent.Height/2 + progLabel.Height*0.25}
	}
	return p
}

// Compute returns the full placement. The card groups are positioned from
// boxes measured after the label translations of Labels were applied.
func Compute(in Input, boxes scene.Boxes) Placement {
	p := Labels(in, boxes)

	contentW := boxes.Get(scene.Content).Width
	contentH := boxes.Get(scene.Card).Height
	progContentW := boxes.Get(scene.ProgressionContent).Width
	progContentH := boxes.Get(scene.ProgressionCard).Height
	progLabelW := boxes.Get(scene.ProgressionLabel).Width

	progW := progContentW
	if in.Inline {
		progW = progContentW + in.InlineMargin + progLabelW
	}

	switch in.Alignment {
	case AlignLeft:
		x := in.Spacing
		if in.BorderShown && (in.Rounded.TopLeft || in.Rounded.BottomLeft) {
			x += in.CornerRadius * cornerInset
		}
		p.Card.X, p.Progression.X = x, x
	case AlignCenter:
		p.Card.X = in.Width/2 - contentW/2
		p.Progression.X = in.Width/2 - progW/2
	case AlignRight:
		inset := in.Spacing
		if in.BorderShown && (in.Rounded.TopRight || in.Rounded.BottomRight) {
			inset += in.CornerRadius * cornerInset
		}
		p.Card.X = in.Width - contentW - inset
		p.Progression.X = in.Width - progW - inset
	default:
		p.diagnose(scene.Card, in.Alignment)
	}

	p.Card.Y = in.Height / 2
	if !in.CategoryLabelShown {
		p.Card.Y += contentH * 0.3
	}
	p.Progression.Y = in.Height/2 + in.MarginTop
	if !in.ProgressionLabelShown {
		p.Progression.Y += progContentH * 0.3
	}
	if in.CenterVertical {
		if in.MainPresent {
			p.Progression.Y += contentH
		}
	} else {
		if in.ProgressionPresent {
			p.Card.Y -= progContentH / 2
		}
		p.Progression.Y += contentH * 0.6
	}
	return p
}

// Apply translates the groups of s to p. The progression card is only moved
// when the input says it is present.
func Apply(s *scene.Scene, in Input, p Placement) {
	applyLabels(s, p)
	s.Translate(scene.Card, p.Card.X, p.Card.Y)
	if in.ProgressionPresent {
		s.Translate(scene.ProgressionCard, p.Progression.X, p.Progression.Y)
	}
}

func applyLabels(s *scene.Scene, p Placement) {
	s.Translate(scene.CategoryLabel, p.CategoryLabel.X, p.CategoryLabel.Y)
	s.Translate(scene.ProgressionLabel, p.ProgressionLabel.X, p.ProgressionLabel.Y)
}

// Run performs both measurement passes on s with m and applies the result.
// It returns the placement together with the final boxes.
func Run(ctx context.Context, in Input, s *scene.Scene, m Measurer) (Placement, scene.Boxes, error) {
	boxes, err := m.Measure(ctx, s)
	if err != nil {
		return Placement{}, nil, fmt.Errorf("measure labels: %w", err)
	}
	applyLabels(s, Labels(in, boxes))

	boxes, err = m.Measure(ctx, s)
	if err != nil {
		return Placement{}, nil, fmt.Errorf("measure cards: %w", err)
	}
	p := Compute(in, boxes)
	Apply(s, in, p)
	return p, boxes, nil
}

func (p *Placement) diagnose(g scene.Group, alignment string) {
	p.Diagnostics = append(p.Diagnostics, Diagnostic{
		Element: g,
		Message: fmt.Sprintf("alignment unknown: %q", alignment),
	})
}

func known(alignment string) bool {
	switch alignment {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// alignWithin places an element of width w inside a container of width cw.
func alignWithin(alignment string, cw, w float64) (float64, bool) {
	switch alignment {
	case AlignLeft:
		return 0, true
	case AlignCenter:
		return cw/2 - w/2, true
	case AlignRight:
		return cw - w, true
	}
	return 0, false
}
