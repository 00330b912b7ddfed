// Package cli wires the quill commands: post listing and search,
// interactive browsing, authentication, and configuration.
package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/api"
	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/cache"
	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/logging"
)

// app carries the state shared by all commands, populated by the root
// command's PersistentPreRunE. Explicit wiring instead of package
// globals keeps commands testable in isolation.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	session *auth.Store

	// Flag-driven overrides.
	configPath string
	debug      bool
	noCache    bool
	cacheTTL   time.Duration
}

// NewRootCmd creates the root quill command with all subcommands.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:     "quill",
		Short:   "Terminal client for the Quill blogging platform",
		Long:    "Quill: browse, search, and read posts from a Quill blogging backend.",
		Version: version,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging to the console")
	cmd.PersistentFlags().BoolVar(&a.noCache, "no-cache", false, "bypass the response cache")
	cmd.PersistentFlags().DurationVar(&a.cacheTTL, "cache-ttl", 0, "response cache TTL (0 = use config default)")

	cmd.AddCommand(
		newPostsCmd(a),
		newBrowseCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

// setup loads config, builds the logger, and prepares the session
// store. Runs once per invocation before any subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cacheTTL < 0 {
		return fmt.Errorf("cache-ttl must be >= 0, got %s", a.cacheTTL)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.cacheTTL > 0 {
		cfg.Cache.TTL = a.cacheTTL
	}
	if a.noCache {
		cfg.Cache.Enabled = false
	}
	a.cfg = cfg

	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
	if a.debug {
		logCfg.Level = "debug"
		logCfg.Format = logging.FormatConsole
		logCfg.File = ""
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger

	sessionPath, err := config.SessionPath()
	if err != nil {
		return err
	}
	a.session = auth.NewStore(sessionPath)

	cliLogger := a.componentLogger("cli")
	cliLogger.Debug().
		Str("command", cmd.Name()).
		Msg("command started")
	return nil
}

// newClient builds the backend client with cache and stored session
// token applied. Commands that don't need auth tolerate a missing
// session.
func (a *app) newClient() (*api.Client, error) {
	opts := []api.Option{
		api.WithLogger(a.componentLogger("api")),
	}

	if a.cfg.Cache.Enabled {
		dir, err := a.cfg.CacheDir()
		if err != nil {
			return nil, err
		}
		store, err := cache.NewStore(dir, true, a.cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, api.WithCache(store))
	}

	if session, err := a.session.Load(); err == nil {
		opts = append(opts, api.WithToken(session.Token))
	}

	return api.NewClient(a.cfg.API.URL, a.cfg.API.Timeout, opts...)
}

// componentLogger returns a logger tagged for a subsystem.
func (a *app) componentLogger(name string) zerolog.Logger {
	return logging.Component(a.logger.Logger, name)
}

const rootCmdExample = `  # List the most recent posts
  quill posts list

  # Search posts, second page, 50 per page
  quill posts search "generics" --page 2 --page-size 50

  # Read one post
  quill posts view how-to-go

  # Browse interactively
  quill browse

  # Log in to the backend
  quill login --email writer@example.com

  # Initialize configuration
  quill config init`
