// Package cli implements the pipeflow command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeflow/pkg/buildinfo"
	"github.com/matzehuels/pipeflow/pkg/config"
	"github.com/matzehuels/pipeflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "pipeflow"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = ":8080"
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

	// configPath is the --config flag; empty searches the default locations.
	configPath string
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
		Short:         "Pipeflow solves pipe networks and sizes them for minimum cost",
		Long:          `Pipeflow computes the steady-state flow distribution of a looped pipe network and finds the pipe diameter with the lowest total annualized cost.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml or .json); default searches $"+config.EnvConfig+", ./pipeflow.toml, ./pipeflow.yaml, $XDG_CONFIG_HOME/pipeflow/config.toml")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Every invocation solves
// once and exits, so nothing is cached.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(nil, nil, logger)
}

// loadConfig resolves the effective config and reports where it came from.
func (c *CLI) loadConfig(logger *log.Logger) (*config.Config, error) {
	if c.configPath != "" {
		cfg, err := config.LoadFromPath(c.configPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded config", "path", c.configPath)
		return cfg, nil
	}
	cfg, path, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}
