package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/pkg/fsutil"
	"github.com/yaklabco/mdmath/pkg/render"
)

type renderFlags struct {
	parse        parseFlags
	output       string
	codeLanguage bool
}

func newRenderCommand(global *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render Markdown files to HTML",
		Long: `Render Markdown files to HTML. Math is emitted as escaped TeX inside
elements with the "math math-display" or "math math-inline" class, ready
for a client-side typesetter.

With no files, or "-", reads standard input. Output goes to standard
output unless --output is set. With several inputs, --output names a
directory that receives one .html file per input.

Examples:
  mdmath render README.md
  mdmath render -o README.html README.md
  mdmath render -o site/ docs/*.md
  mdmath render --code-language notes.md`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, global, flags)
		},
	}

	flags.parse.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, or directory for several inputs")
	cmd.Flags().BoolVar(&flags.codeLanguage, "code-language", false,
		"label indented code blocks with their detected language")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, global *globalFlags, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	p, err := flags.parse.newParser(ctx, cmd, global)
	if err != nil {
		return err
	}
	sources, err := readSources(ctx, cmd, args)
	if err != nil {
		return err
	}

	var opts []render.Option
	if flags.codeLanguage {
		opts = append(opts, render.WithCodeLanguage())
	}

	for _, src := range sources {
		snapshot, err := p.Parse(ctx, src.path, src.content)
		if err != nil {
			return err
		}

		if flags.output == "" {
			if err := render.Render(cmd.OutOrStdout(), snapshot, opts...); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
			continue
		}

		target := renderTarget(flags.output, src.path, len(sources) > 1)
		var buf bytes.Buffer
		if err := render.Render(&buf, snapshot, opts...); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		if err := fsutil.WriteAtomic(ctx, target, buf.Bytes(), 0); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		logger.Info("rendered", logging.FieldPath, src.path, logging.FieldOutput, target)
	}
	return nil
}

// renderTarget returns the file the HTML for input goes to. When output is a
// directory, the input's base name gets an .html extension inside it.
func renderTarget(output, input string, many bool) string {
	if !many {
		if info, err := os.Stat(output); err != nil || !info.IsDir() {
			return output
		}
	}

	name := "stdin"
	if input != stdinPath {
		base := filepath.Base(input)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(output, name+".html")
}
