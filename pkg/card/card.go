// Package card turns settings and an input table into a drawable card.
//
// Build runs the per-update pipeline up to the first draw pass: it resolves
// the measures, evaluates both rule sets, formats the values, resolves every
// text style and emits a scene with all groups at the origin. Positioning is
// left to the layout package, which needs boxes measured on a rendering
// surface.
package card

import (
	"github.com/matzehuels/advancecard/pkg/card/condition"
	"github.com/matzehuels/advancecard/pkg/card/format"
	"github.com/matzehuels/advancecard/pkg/card/layout"
	"github.com/matzehuels/advancecard/pkg/card/measure"
	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/shape"
	"github.com/matzehuels/advancecard/pkg/card/style"
	"github.com/matzehuels/advancecard/pkg/data"
	"github.com/matzehuels/advancecard/pkg/settings"
)

// Inset is the distance between the viewport edge and the card outline.
const Inset = 5

// Card is the result of one update cycle before layout.
type Card struct {
	Width  float64
	Height float64

	Measures measure.Measures

	// Match is the rule that fired for the main card, if Matched.
	Match   condition.Match
	Matched bool
	// ProgressionMatch is the rule that fired for the progression value.
	ProgressionMatch   condition.Match
	ProgressionMatched bool

	// Value is the formatted main value; ProgressionValue includes the
	// custom prefix.
	Value            string
	ProgressionValue string
	CategoryLabel    string
	ProgressionLabel string

	settings settings.Settings
	scene    *scene.Scene
}

// Build resolves t against s for a width × height viewport. A nil adapter
// uses the default formatter. Build never fails: missing measures simply
// omit their blocks.
func Build(s settings.Settings, t data.Table, width, height float64, f *format.Adapter) *Card {
	if f == nil {
		f = format.NewAdapter(nil)
	}
	ms := measure.Resolve(t)
	c := &Card{Width: width, Height: height, Measures: ms, settings: s}

	c.Match, c.Matched = s.Condition.Evaluate(ms.Condition.Number())
	if ms.Progression.Present {
		c.ProgressionMatch, c.ProgressionMatched = s.Progression.Evaluate(ms.Progression.Number())
	}

	sc := &scene.Scene{Width: width, Height: height}
	sc.Background = c.background()
	sc.Roots = append(sc.Roots, c.mainCard(f))
	if ms.Progression.Present {
		sc.Roots = append(sc.Roots, c.progressionCard(f))
	}
	c.scene = sc
	return c
}

// Scene returns the pass-one scene. Callers own it and may translate its
// groups.
func (c *Card) Scene() *scene.Scene {
	return c.scene
}

// LayoutInput returns the non-measured inputs of the layout engine.
func (c *Card) LayoutInput() layout.Input {
	s := c.settings
	return layout.Input{
		Width:                 c.Width,
		Height:                c.Height,
		Alignment:             s.General.Alignment,
		Spacing:               s.General.AlignmentSpacing,
		BorderShown:           s.BorderShown(),
		CornerRadius:          s.Stroke.CornerRadius,
		Rounded:               s.Stroke.Rounded(),
		MainPresent:           c.Measures.Main.Present,
		CategoryLabelShown:    s.CategoryLabel.Show,
		ProgressionPresent:    c.Measures.Progression.Present,
		ProgressionLabelShown: s.ProgressionLabel.Show,
		Inline:                s.ProgressionLabel.InlineBlock,
		InlineMargin:          s.ProgressionLabel.MarginSpace,
		CenterVertical:        s.DataLabel.CenterVertical,
		MarginTop:             s.Progression.MarginTop,
	}
}

func (c *Card) background() *scene.Background {
	s := c.settings
	if !s.BorderShown() {
		return nil
	}
	path := shape.RoundedRect(0, 0, c.Width-2*Inset, c.Height-2*Inset,
		s.Stroke.CornerRadius, s.Stroke.Rounded(), s.Stroke.Inward())
	bg := &scene.Background{Path: path, D: path.String(), X: Inset, Y: Inset, Fill: "none"}
	if s.Background.Show {
		bg.Fill = style.Background(s.Background.BackgroundColor, s.Condition.Show, c.Match, c.Matched)
		if bg.Fill == "" {
			bg.Fill = "none"
		}
	}
	if s.Stroke.Show {
		bg.Stroke = s.Stroke.Color
		if bg.Stroke == "" {
			bg.Stroke = "none"
		}
		bg.StrokeWidth = s.Stroke.Thickness
		bg.DashArray = style.DashArray(s.Stroke.StrokeType, s.Stroke.StrokeArray)
	}
	return bg
}

func (c *Card) mainCard(f *format.Adapter) *scene.Node {
	s := c.settings
	main := c.Measures.Main
	cond := s.Condition

	var spans []scene.Span
	title := ""
	if s.Prefix.Show {
		spans = append(spans, scene.Span{
			Class: scene.ClassPrefix,
			Text:  s.Prefix.Text,
			Style: style.Resolve(s.Prefix.Base(), cond.ApplyToPrefix, c.Match, c.Matched),
		})
		if s.Prefix.Text != "" {
			title = s.Prefix.Text + " "
		}
	}
	if main.Present {
		c.Value = f.Measure(main, format.Options{Unit: s.DataLabel.DisplayUnit, Precision: s.DataLabel.DecimalPlaces})
		dx := 0.0
		if s.Prefix.Show && s.Prefix.Text != "" {
			dx = s.Prefix.Spacing
		}
		spans = append(spans, scene.Span{
			Class: scene.ClassDataLabel,
			Text:  c.Value,
			DX:    dx,
			Style: style.Resolve(s.DataLabel.Base(), cond.ApplyToDataLabel, c.Match, c.Matched),
		})
	}
	title += c.Value
	if s.Postfix.Show {
		dx := 0.0
		if s.Postfix.Text != "" {
			dx = s.Postfix.Spacing
			title += " " + s.Postfix.Text
		}
		spans = append(spans, scene.Span{
			Class: scene.ClassPostfix,
			Text:  s.Postfix.Text,
			DX:    dx,
			Style: style.Resolve(s.Postfix.Base(), cond.ApplyToPostfix, c.Match, c.Matched),
		})
	}

	grp := &scene.Node{Name: scene.Card}
	grp.Children = append(grp.Children, &scene.Node{
		Name: scene.Content,
		Text: &scene.Text{Spans: spans, Title: title},
	})

	if s.CategoryLabel.Show && main.Present {
		c.CategoryLabel = s.EffectiveCategoryLabel(main.DisplayName)
		grp.Children = append(grp.Children, &scene.Node{
			Name: scene.CategoryLabel,
			Text: &scene.Text{
				Spans: []scene.Span{{
					Class: scene.ClassCategoryLabel,
					Text:  c.CategoryLabel,
					Style: style.Resolve(s.CategoryLabel.Base(), cond.ApplyToCategoryLabel, c.Match, c.Matched),
				}},
				Title: c.CategoryLabel,
			},
		})
	}
	return grp
}

func (c *Card) progressionCard(f *format.Adapter) *scene.Node {
	s := c.settings
	p := s.Progression
	prog := c.Measures.Progression

	prefix := ""
	if p.UsePrefix {
		prefix = style.Prefix(c.ProgressionMatch, c.ProgressionMatched, p.PrefixText)
	}
	formatted := f.Measure(prog, format.Options{
		Unit:      p.DisplayUnit,
		Precision: p.DecimalPlaces,
		Absolute:  p.DisplayAbsoluteValue,
	})
	c.ProgressionValue = prefix + formatted

	grp := &scene.Node{Name: scene.ProgressionCard}
	grp.Children = append(grp.Children, &scene.Node{
		Name: scene.ProgressionContent,
		Text: &scene.Text{
			Spans: []scene.Span{{
				Class: scene.ClassProgressionValue,
				Text:  c.ProgressionValue,
				Style: style.Resolve(p.Base(), p.UseCondition, c.ProgressionMatch, c.ProgressionMatched),
			}},
			Title: c.ProgressionValue,
		},
	})

	if s.ProgressionLabel.Show {
		c.ProgressionLabel = style.Label(c.ProgressionMatch, c.ProgressionMatched,
			s.EffectiveProgressionLabel(prog.DisplayName))
		grp.Children = append(grp.Children, &scene.Node{
			Name: scene.ProgressionLabel,
			Text: &scene.Text{
				Spans: []scene.Span{{
					Class: scene.ClassProgressionLabel,
					Text:  c.ProgressionLabel,
					Style: style.Resolve(s.ProgressionLabel.Base(), p.ApplyToLabel, c.ProgressionMatch, c.ProgressionMatched),
				}},
				Title: c.ProgressionLabel,
			},
		})
	}
	return grp
}
