// Package cli implements the feedtree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/feedtree/internal/config"
	"github.com/matzehuels/feedtree/pkg/buildinfo"
	"github.com/matzehuels/feedtree/pkg/catalog"
	"github.com/matzehuels/feedtree/pkg/discovery"
	"github.com/matzehuels/feedtree/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "feedtree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	repository string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
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
		Use:           appName,
		Short:         "Feedtree keeps a tree of feed subscriptions",
		Long:          `Feedtree is a personal feed catalog: a tree of categories and subscriptions stored as OPML, with every feed's parsed document cached next to it.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (.hcl or .toml)")
	root.PersistentFlags().StringVar(&c.repository, "repo", "", "repository directory (overrides the configuration)")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.lsCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.rmCommand())
	root.AddCommand(c.entriesCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.pruneCommand())
	root.AddCommand(c.refreshCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Catalog Factory
// =============================================================================

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.repository != "" {
		cfg.Repository = c.repository
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "repository", cfg.Repository, "store", cfg.StoreBackend)
	return nil
}

// settings returns the loaded configuration, loading it on first use.
func (c *CLI) settings() (*config.Config, error) {
	if c.cfg == nil {
		if err := c.loadConfig(); err != nil {
			return nil, err
		}
	}
	return c.cfg, nil
}

// openCatalog opens the configured store and builds a catalog over it.
// The returned function closes the store.
func (c *CLI) openCatalog(ctx context.Context) (*catalog.Catalog, func(), error) {
	cfg, err := c.settings()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, cfg.Store())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	opts := cfg.Fetcher()
	if opts.UserAgent == "" {
		opts.UserAgent = buildinfo.UserAgent()
	}
	pipeline := &discovery.Pipeline{
		Fetcher: discovery.NewHTTPFetcher(opts),
		Logger:  c.Logger,
	}

	closeFn := func() {
		if err := st.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}
	return catalog.New(cfg.Catalog(), st, pipeline, c.Logger), closeFn, nil
}
