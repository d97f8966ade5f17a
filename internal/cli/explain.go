package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/advancecard/pkg/card/condition"
	"github.com/matzehuels/advancecard/pkg/card/layout"
	"github.com/matzehuels/advancecard/pkg/card/measure"
	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/pipeline"
)

type explainOpts struct {
	config  string
	width   float64
	height  float64
	surface string
	noCache bool
}

// explainCommand creates the explain command, which prints how a card was
// resolved and placed without writing any artifact.
func (c *CLI) explainCommand() *cobra.Command {
	opts := explainOpts{
		width:   pipeline.DefaultWidth,
		height:  pipeline.DefaultHeight,
		surface: defaultSurface,
	}

	cmd := &cobra.Command{
		Use:   "explain [data-file]",
		Short: "Show resolved measures, matching rules and the computed layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplain(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "settings file (.toml, .yaml, .json)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().StringVar(&opts.surface, "surface", opts.surface, "measuring surface: "+strings.Join(surfaceNames, ", "))
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExplain(ctx context.Context, input string, opts explainOpts) error {
	s, t, err := c.loadInputs(opts.config, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache, opts.surface)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{Settings: s, Table: t, Width: opts.width, Height: opts.height, Logger: c.Logger}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	card := runner.Build(popts)
	placement, boxes, hits, err := runner.Layout(ctx, card, popts)
	if err != nil {
		return err
	}

	out := c.out()
	out.title("Measures")
	out.measure("main", card.Measures.Main)
	out.measure("progression", card.Measures.Progression)
	out.measure("condition", card.Measures.Condition)
	out.blank()

	out.title("Values")
	out.field("value", quoted(card.Value))
	out.field("category", quoted(card.CategoryLabel))
	if card.Measures.Progression.Present {
		out.field("progression", quoted(card.ProgressionValue))
		out.field("prog. label", quoted(card.ProgressionLabel))
	}
	out.blank()

	out.title("Rules")
	out.match("condition", card.Match, card.Matched, s.Condition.Show)
	if card.Measures.Progression.Present {
		out.match("progression", card.ProgressionMatch, card.ProgressionMatched, s.Progression.UseCondition)
	}
	out.blank()

	out.title("Layout")
	out.field("surface", runner.Surface.Name())
	out.field("cached", fmt.Sprintf("%d/2 passes", hits))
	out.println(boxTable(boxes, placement))
	for _, d := range placement.Diagnostics {
		out.warn("%s", d)
	}

	if err := s.Validate(); err != nil {
		out.blank()
		out.title("Settings")
		if problems, ok := err.(errors.Problems); ok {
			for _, p := range problems {
				out.warn("%s", p.Message)
			}
		} else {
			out.warn("%s", errors.UserMessage(err))
		}
	}
	return nil
}

func (p printer) measure(role string, m measure.Measure) {
	if !m.Present {
		p.field(role, styleDim.Render("absent"))
		return
	}
	kind := "numeric"
	if m.IsText {
		kind = "text"
	}
	detail := fmt.Sprintf("%v", m.Raw)
	if m.DisplayName != "" {
		note := m.DisplayName + ", " + kind
		if m.Format != "" {
			note += ", format " + m.Format
		}
		detail += styleDim.Render("  (" + note + ")")
	}
	p.field(role, detail)
}

func (p printer) match(name string, m condition.Match, matched, enabled bool) {
	switch {
	case !enabled:
		p.field(name, styleDim.Render("off"))
	case !matched:
		p.field(name, "no rule matched")
	default:
		desc := fmt.Sprintf("slot %d: value %s %g", m.Slot, m.Comparator, *m.Threshold)
		var colors []string
		if m.Foreground != "" {
			colors = append(colors, "fg "+m.Foreground)
		}
		if m.Background != "" {
			colors = append(colors, "bg "+m.Background)
		}
		if len(colors) > 0 {
			desc += styleDim.Render("  (" + strings.Join(colors, ", ") + ")")
		}
		p.field(name, styleSuccess.Render(desc))
	}
}

// boxTable renders the final-pass boxes with the translation of each
// positioned group.
func boxTable(boxes scene.Boxes, p layout.Placement) string {
	translations := map[scene.Group]layout.Point{
		scene.Card:             p.Card,
		scene.CategoryLabel:    p.CategoryLabel,
		scene.ProgressionCard:  p.Progression,
		scene.ProgressionLabel: p.ProgressionLabel,
	}

	var rows [][]string
	for _, g := range scene.Groups {
		b, ok := boxes[g]
		if !ok {
			continue
		}
		move := "-"
		if pt, ok := translations[g]; ok {
			move = fmt.Sprintf("%.1f, %.1f", pt.X, pt.Y)
		}
		rows = append(rows, []string{
			string(g),
			fmt.Sprintf("%.1f, %.1f", b.X, b.Y),
			fmt.Sprintf("%.1f × %.1f", b.Width, b.Height),
			move,
		})
	}
	return styledTable([]string{"Group", "Origin", "Size", "Translate"}, rows, nil)
}

func quoted(s string) string {
	return fmt.Sprintf("%q", s)
}
