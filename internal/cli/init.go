package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/configloader"
	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/fsutil"
)

// ErrConfigExists is returned when init would overwrite a config file.
var ErrConfigExists = errors.New("configuration file already exists")

type initFlags struct {
	force  bool
	full   bool
	user   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an mdmath configuration file",
		Long: `Create a .mdmath.yml configuration file in the current directory with
the default math syntax settings. The file can be edited to change the
syntax, turn constructs off, and adjust check severities.

Examples:
  mdmath init                      Create a minimal .mdmath.yml
  mdmath init --full               List every check with its default severity
  mdmath init --user               Write the user config instead
  mdmath init -o docs/.mdmath.yml  Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "list every check with its documentation")
	cmd.Flags().BoolVar(&flags.user, "user", false, "write the user configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .mdmath.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	outputPath, err := initTarget(flags)
	if err != nil {
		return err
	}

	if _, err := os.Stat(outputPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: %s; use --force to overwrite", ErrConfigExists, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Checks: check.Infos(),
	})

	if err := fsutil.WriteAtomic(ctx, outputPath, content, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'mdmath checks' to see all available checks")

	return nil
}

func initTarget(flags *initFlags) (string, error) {
	switch {
	case flags.output != "":
		return filepath.Abs(flags.output)
	case flags.user:
		dir := configloader.UserConfigDir()
		if dir == "" {
			return "", fmt.Errorf("%w: cannot determine the user config directory", ErrUsage)
		}
		return filepath.Join(dir, "config.yaml"), nil
	default:
		return filepath.Abs(configloader.ProjectConfigFiles[0])
	}
}
