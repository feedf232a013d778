// Package cli implements the sisugv command-line interface.
//
// The root command fetches a degree programme from Sisu and writes it as a
// Graphviz DOT file:
//
//	sisugv otm-1d25ee85-df98-4c03-b4ff-6cf8e4a85c7e -y 2024 -a -b COMP.CS.100
//
// Subcommands manage the response cache (cache clear, cache path) and
// generate shell completions.
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/sisugv/config.toml (or --config),
// then from SISUGV_* environment variables, then from flags; later sources
// win.
//
// # Logging
//
// Logs go to stderr through charmbracelet/log, at info level by default and
// debug level with --verbose. Status lines go to stderr too, so "-o -" keeps
// stdout clean for the DOT text.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sisugv/sisugv/pkg/buildinfo"
	"github.com/sisugv/sisugv/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "sisugv"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // DOT output for "-o -"
	Err    io.Writer // status lines

	getenv func(string) string

	// persistent flags
	verbose    bool
	configFile string
	cacheDir   string

	cfg Config
}

// New creates a CLI that logs to errOut at the given level.
func New(out, errOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errOut, level),
		Out:    out,
		Err:    errOut,
		getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.generateCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = c.setup

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/sisugv/config.toml)")
	pf.StringVarP(&c.cacheDir, "cachedir", "c", "", "override the response cache directory")

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	return root
}

// setup runs before every command: it sets the log level, loads the
// configuration and registers logging hooks in verbose mode.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		registerLogHooks(c.Logger)
	}

	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		if p, err := configPath(); err == nil {
			path = p
		}
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	if err := applyEnv(&cfg, c.getenv); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("Loaded configuration", "path", path, "api", cfg.APIURL)
	return nil
}

// openCache opens the response cache: a null cache when disabled, the
// backend named by url when set, the file cache otherwise. A backend that
// cannot be opened only costs speed, so failures fall back to no caching.
func (c *CLI) openCache(ctx context.Context, disabled bool, url string) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := c.resolveCacheDir()
	if err != nil && url == "" {
		c.Logger.Warn("No cache directory, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	store, err := cache.Open(ctx, url, dir)
	if err != nil {
		c.Logger.Warn("Cannot open cache, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	return store
}

// resolveCacheDir returns --cachedir, the configured cache_dir or the XDG
// default, in that order.
func (c *CLI) resolveCacheDir() (string, error) {
	switch {
	case c.cacheDir != "":
		return c.cacheDir, nil
	case c.cfg.CacheDir != "":
		return c.cfg.CacheDir, nil
	default:
		return cacheDir()
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/sisugv/).
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
