// Package cli implements the meru command-line interface.
//
// Generator commands (rows, patterns, tree, cone, walk) print their data
// to the terminal, or write artifacts through the pipeline when -o is
// given. Further commands render saved scene files, run TOML presets,
// browse the scene store, manage the cache, serve the HTTP API and open
// an interactive explorer.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/pkg/buildinfo"
	"github.com/matzehuels/meru/pkg/cache"
	"github.com/matzehuels/meru/pkg/config"
	"github.com/matzehuels/meru/pkg/pipeline"
	"github.com/matzehuels/meru/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdout receives command output; tests swap it.
var stdout io.Writer = os.Stdout

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	settings   *config.Settings
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "meru",
		Short: "Meru generates Pascal triangles, Pingala patterns and binomial trees",
		Long: `Meru computes the data behind the Meru Prastara: rows of Pascal's triangle,
Pingala's short/long syllable patterns and recombining binomial trees whose
terminal heights are labeled with triangle values. Results print to the
terminal or render to SVG, DOT, PNG, PDF, JSON and YAML.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/meru/config.toml)")

	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.patternsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.coneCommand())
	root.AddCommand(c.walkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings and Backends
// =============================================================================

func (c *CLI) loadSettings() (config.Settings, error) {
	if c.settings != nil {
		return *c.settings, nil
	}
	s, err := config.Load(c.configPath)
	if err != nil {
		return s, err
	}
	c.settings = &s
	return s, nil
}

// newRunner creates a pipeline runner. The store is opened only when
// withStore is set since Mongo needs a live connection.
func (c *CLI) newRunner(ctx context.Context, noCache, withStore bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var st store.Store
	if withStore {
		if st, err = c.newStore(ctx); err != nil {
			ch.Close()
			return nil, err
		}
	}
	return pipeline.NewRunner(ch, nil, st, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	s, err := c.loadSettings()
	if err != nil {
		return nil, err
	}
	switch s.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		var opts []cache.RedisOption
		if s.Cache.Prefix != "" {
			opts = append(opts, cache.WithPrefix(s.Cache.Prefix))
		}
		return cache.NewRedisCache(ctx, s.Cache.RedisURL, opts...)
	}
	dir, err := cacheDir(s)
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	s, err := c.loadSettings()
	if err != nil {
		return nil, err
	}
	if s.Store.Backend == config.BackendMongo {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        s.Store.MongoURI,
			Database:   s.Store.Database,
			Collection: s.Store.Collection,
			Timeout:    s.Store.Timeout.Duration,
		})
	}
	dir := s.Store.Dir
	if dir == "" {
		if dir, err = config.DataDir(); err != nil {
			return nil, err
		}
	}
	return store.NewFileStore(dir)
}

func cacheDir(s config.Settings) (string, error) {
	if s.Cache.Dir != "" {
		return s.Cache.Dir, nil
	}
	return config.CacheDir()
}
