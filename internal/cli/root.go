// Package cli provides the Cobra command structure for mdmath.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/configloader"
	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	logFormat  string
}

// NewRootCommand creates the root mdmath command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mdmath",
		Short: "Parse, check and render math in Markdown",
		Long: `mdmath parses LaTeX-style math in Markdown: display math between \[ and \],
inline math between \( and \), and the dollar forms $$...$$ and $...$.

It prints the parse trace, renders HTML with math left for a client-side
typesetter, checks documents for math that will not render the way it
looks, and keeps golden trace files up to date.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return global.setupLogging(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&global.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&global.logFormat, "log-format", "text",
		"log record format: text, json, logfmt")

	rootCmd.AddCommand(
		newCheckCommand(global, info),
		newTraceCommand(global),
		newRenderCommand(global),
		newWatchCommand(global, info),
		newInitCommand(),
		newChecksCommand(),
		newVersionCommand(info),
	)

	newHelpFormatter(global.color, os.Stdout).apply(rootCmd)

	return rootCmd
}

// setupLogging installs a logger on stderr for the command and stores it in
// the command context.
func (g *globalFlags) setupLogging(cmd *cobra.Command) error {
	format, err := logging.ParseFormat(g.logFormat)
	if err != nil {
		return err
	}

	level := "info"
	if g.debug {
		level = "debug"
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level, format)
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the layered configuration with cli on top and logs
// what was loaded.
func (g *globalFlags) loadConfig(ctx context.Context, workDir string, cli *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: g.configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loaded.LoadedFrom)
	}

	return loaded.Config, nil
}

func workingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}
