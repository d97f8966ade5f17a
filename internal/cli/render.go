package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/advancecard/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	config  string   // settings file (.toml, .yaml, .json)
	output  string   // output file, base path for several formats, or "-" for stdout
	formats []string // output formats: "svg", "png", "pdf", "json"
	width   float64  // viewport width in pixels
	height  float64  // viewport height in pixels
	surface string   // measuring surface: metrics, estimate, browser
	titles  bool     // emit <title> tooltips
	debug   bool     // outline the measured group boxes
	noCache bool     // bypass the file cache
	refresh bool     // recompute and overwrite cached entries
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:   pipeline.DefaultWidth,
		height:  pipeline.DefaultHeight,
		surface: defaultSurface,
	}

	cmd := &cobra.Command{
		Use:   "render [data-file]",
		Short: "Render a card to SVG, PNG, PDF or JSON",
		Long: `Render a card from a data table (.json, .csv or .xlsx) and an optional
settings file (.toml, .yaml or .json). Without settings the defaults apply.`,
		Example: `  advancecard render sales.csv -c card.toml
  advancecard render sales.json -f svg,png --width 400 --height 250
  advancecard render sales.xlsx --surface browser -o - > card.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "settings file (.toml, .yaml, .json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().StringVar(&opts.surface, "surface", opts.surface, "measuring surface: "+strings.Join(surfaceNames, ", "))
	cmd.Flags().BoolVar(&opts.titles, "titles", false, "emit tooltips for the value and labels")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "outline measured group boxes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached measurements and artifacts")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	if opts.output == "-" && len(opts.formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(opts.formats))
	}

	s, t, err := c.loadInputs(opts.config, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.surface)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		Settings: s,
		Table:    t,
		Width:    opts.width,
		Height:   opts.height,
		Formats:  opts.formats,
		Titles:   opts.titles,
		Debug:    opts.debug,
		Refresh:  opts.refresh,
	})
	if err != nil {
		return err
	}
	elapsed := result.Stats.BuildTime + result.Stats.LayoutTime + result.Stats.RenderTime
	c.Logger.Debug("rendered", "input", filepath.Base(input), "elapsed", elapsed)

	if opts.output == "-" {
		_, err := c.Out.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	out := c.out()
	out.success("Card %s", styleHighlight.Render(result.Card.Value))
	out.summary(renderSummary{
		surface:     runner.Surface.Name(),
		measureHits: result.CacheInfo.MeasureHits,
		diagnostics: result.Stats.Diagnostics,
		cached:      result.CacheInfo.RenderHit,
		elapsed:     elapsed,
	})
	for _, format := range opts.formats {
		out.file(paths[format])
	}
	if result.Stats.Diagnostics > 0 {
		out.next("See why", "advancecard explain "+input)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its output file. A single format written
// to an explicit output uses that path verbatim.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
