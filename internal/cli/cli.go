// Package cli implements the advancecard command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/advancecard/pkg/buildinfo"
	"github.com/matzehuels/advancecard/pkg/cache"
	"github.com/matzehuels/advancecard/pkg/card/surface/browser"
	"github.com/matzehuels/advancecard/pkg/card/surface/estimate"
	"github.com/matzehuels/advancecard/pkg/card/surface/metrics"
	"github.com/matzehuels/advancecard/pkg/data"
	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/pipeline"
	"github.com/matzehuels/advancecard/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "advancecard"

	// defaultSurface measures with the embedded Go fonts.
	defaultSurface = metrics.Name
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// surfaceNames lists the accepted --surface values.
var surfaceNames = []string{metrics.Name, estimate.Name, browser.Name}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Logs and spinners go to the
// writer passed to New, results go to Out.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer

	status io.Writer
}

// New creates a CLI that logs to w at the given level and prints results
// to standard output.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Out:    os.Stdout,
		status: w,
	}
}

// ReportError prints the user-facing message of err next to the logs.
func (c *CLI) ReportError(err error) {
	printer{w: c.status}.failure("%s", errors.UserMessage(err))
}

func (c *CLI) out() printer {
	return printer{w: c.Out}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Verbose reports whether debug logging is enabled.
func (c *CLI) Verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Advancecard renders single-value KPI cards",
		Long:         `Advancecard renders a KPI card from a settings document and a one-row data table: a formatted main value with prefix, postfix and category label, an optional progression value, and conditional colors driven by threshold rules.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.settingsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, surfaceName string) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	surface, err := c.newSurface(ctx, surfaceName)
	if err != nil {
		cc.Close()
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger, surface), nil
}

// newSurface opens the named rendering surface.
func (c *CLI) newSurface(ctx context.Context, name string) (pipeline.Surface, error) {
	switch name {
	case "", metrics.Name:
		return metrics.New()
	case estimate.Name:
		return estimate.New(), nil
	case browser.Name:
		var s *browser.Surface
		err := spin(ctx, c.status, "Starting headless browser...", func() (err error) {
			s, err = browser.New()
			return err
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMeasureFailed, err, "browser surface unavailable: %v", err)
		}
		c.Logger.Debug("browser surface ready")
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"invalid surface %q (must be %s)", name, strings.Join(surfaceNames, ", "))
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/advancecard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// loadSettings reads a settings file on top of the defaults. An empty path
// yields the normalized defaults.
func loadSettings(path string) (settings.Settings, error) {
	if path == "" {
		s := settings.Defaults()
		s.Normalize()
		return s, nil
	}
	return settings.Load(path)
}

// loadInputs reads the settings and data files of a card.
func (c *CLI) loadInputs(settingsPath, dataPath string) (settings.Settings, data.Table, error) {
	s, err := loadSettings(settingsPath)
	if err != nil {
		return settings.Settings{}, data.Table{}, err
	}
	t, err := data.Load(dataPath)
	if err != nil {
		return settings.Settings{}, data.Table{}, err
	}
	c.Logger.Debug("loaded inputs", "settings", settingsPath, "data", dataPath,
		"columns", len(t.Columns), "rows", len(t.Rows))
	return s, t, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
