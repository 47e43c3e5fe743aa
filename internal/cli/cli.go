// Package cli implements the spaces command-line interface.
//
// This package provides commands for rendering layout documents, inspecting
// how the space store adjusted every edge, replaying drags through the
// resize controller and resizing spaces interactively in the terminal. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, CSS, JSON, DOT, PDF, or PNG output
//   - inspect: Print every space with its adjustment lists and resolved box
//   - resize: Drag one space's handle and show its styles before and after
//   - tui: Resize spaces with the mouse in the terminal
//   - cache: Manage the artifact cache
//
// # Configuration
//
// Defaults for the viewport, formats and terminal cell size are read from
// $XDG_CONFIG_HOME/spaces/config.toml when it exists. Flags override it.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/BenJenkinson/react-spaces/pkg/buildinfo"
	"github.com/BenJenkinson/react-spaces/pkg/cache"
	"github.com/BenJenkinson/react-spaces/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "spaces"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

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

	// Config is loaded before any command runs.
	Config Config

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Spaces lays out nested, resizable regions by edge anchoring",
		Long:         `Spaces mounts a layout document of anchored and fill regions, adjusts each region's edges past its siblings, and renders the result as CSS, SVG, JSON or a Graphviz diagram. Anchored regions can be resized by dragging their handles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spaces/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.CacheEnabled() {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisURL != "" {
		rc, err := cache.NewRedisCacheURL(c.Config.RedisURL, appName+":")
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/spaces/).
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

// configDir returns the config directory using XDG standard (~/.config/spaces/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the config. Flags are
// applied on top by each command.
func (c *CLI) pipelineOptions(ctx context.Context) pipeline.Options {
	return pipeline.Options{
		Width:      c.Config.Width,
		Height:     c.Config.Height,
		Formats:    c.Config.Formats,
		HandleSize: c.Config.HandleSize,
		Logger:     loggerFromContext(ctx),
	}
}

// parseFormats parses a comma-separated format string into a slice.
// Empty input yields nil so that config and pipeline defaults apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseResizes parses repeated --resize id=dx,dy flags.
func parseResizes(values []string) ([]pipeline.ResizeStep, error) {
	steps := make([]pipeline.ResizeStep, 0, len(values))
	for _, v := range values {
		step, err := pipeline.ParseResizeStep(v)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}
