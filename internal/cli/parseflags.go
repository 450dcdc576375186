package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/parser"
)

// parseFlags select the math syntax. They are shared by every command that
// parses.
type parseFlags struct {
	disable       []string
	singleDollar  bool
	inlineDisplay bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.disable, "disable", nil, "constructs to turn off, e.g. codeIndented")
	cmd.Flags().BoolVar(&f.singleDollar, "single-dollar", true, "allow $x$ as inline math")
	cmd.Flags().BoolVar(&f.inlineDisplay, "inline-display", false, `allow \[x\] inside a line as display math`)
}

// apply copies the flags the user set into cfg.
func (f *parseFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("single-dollar") {
		single := f.singleDollar
		cfg.Math.SingleDollarTextMath = &single
	}
	cfg.Math.InlineDisplay = f.inlineDisplay
	if cmd.Flags().Changed("disable") {
		cfg.Disable = f.disable
	}
}

// newParser resolves the configuration for a parse-only command and builds
// its parser.
func (f *parseFlags) newParser(ctx context.Context, cmd *cobra.Command, global *globalFlags) (*parser.Parser, error) {
	workDir, err := workingDir()
	if err != nil {
		return nil, err
	}

	cli := &config.Config{}
	f.apply(cmd, cli)

	cfg, err := global.loadConfig(ctx, workDir, cli)
	if err != nil {
		return nil, fmt.Errorf("resolve parser options: %w", err)
	}
	return parser.New(parser.OptionsFromConfig(cfg)), nil
}
