package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/advancecard/pkg/cache"
	"github.com/matzehuels/advancecard/pkg/observability"
	"github.com/matzehuels/advancecard/pkg/pipeline"
	"github.com/matzehuels/advancecard/pkg/server"
	"github.com/matzehuels/advancecard/pkg/store"
)

// Environment variables read by serve when the matching flag is unset.
const (
	envRedisURL = "ADVANCECARD_REDIS_URL"
	envMongoURI = "ADVANCECARD_MONGO_URI"
)

type serveOpts struct {
	addr     string
	surface  string
	redisURL string
	mongoURI string
	mongoDB  string
	noCache  bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     ":8080",
		surface:  defaultSurface,
		redisURL: os.Getenv(envRedisURL),
		mongoURI: os.Getenv(envMongoURI),
		mongoDB:  store.DefaultDatabase,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card API over HTTP",
		Long: `Serve the render and card store API. Artifacts and measurements are cached
in Redis when --redis is set and in the local cache directory otherwise.
Cards are stored in MongoDB when --mongo is set and in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.surface, "surface", opts.surface, "measuring surface: "+strings.Join(surfaceNames, ", "))
	cmd.Flags().StringVar(&opts.redisURL, "redis", opts.redisURL, "Redis URL for the shared cache (env "+envRedisURL+")")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", opts.mongoURI, "MongoDB URI for the card store (env "+envMongoURI+")")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	if c.Verbose() {
		observability.NewLogHooks(c.Logger).Register()
		defer observability.Reset()
	}

	st, err := c.openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	cc, keyer, err := c.openCache(ctx, opts)
	if err != nil {
		return err
	}
	surface, err := c.newSurface(ctx, opts.surface)
	if err != nil {
		cc.Close()
		return err
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger, surface)
	defer runner.Close()

	out := c.out()
	out.info("Serving on %s", styleHighlight.Render(opts.addr))
	out.detail("surface %s", surface.Name())
	return server.New(runner, st, c.Logger).ListenAndServe(ctx, opts.addr)
}

func (c *CLI) openStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		c.Logger.Warn("cards are kept in memory and lost on exit; set --mongo to persist them")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using mongo store", "database", opts.mongoDB)
	return ms, nil
}

// openCache selects Redis when configured. Keys in a shared Redis are
// scoped by the application name.
func (c *CLI) openCache(ctx context.Context, opts serveOpts) (cache.Cache, cache.Keyer, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil, nil
	case opts.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Info("using redis cache")
		return rc, cache.NewScopedKeyer(nil, appName+":"), nil
	}
	fc, err := newCache(false)
	return fc, nil, err
}
