package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/pkg/mdevent"
)

func newTraceCommand(global *globalFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "trace [files...]",
		Short: "Print the parse trace of Markdown files",
		Long: `Print the parse trace of Markdown files: one span per line in enter order,
indented by nesting, with the source text of leaf spans. This is the format
of golden <file>.trace files.

With no files, or "-", reads standard input.

Examples:
  mdmath trace README.md
  printf '\\[\nx\n\\]\n' | mdmath trace
  mdmath trace --single-dollar=false notes.md`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			p, err := flags.newParser(ctx, cmd, global)
			if err != nil {
				return err
			}
			sources, err := readSources(ctx, cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for idx, src := range sources {
				snapshot, err := p.Parse(ctx, src.path, src.content)
				if err != nil {
					return err
				}
				logging.FromContext(ctx).Debug("parsed",
					logging.FieldPath, src.path,
					logging.FieldMathBlocks, snapshot.Count(mdevent.TypeMathFlow),
					logging.FieldMathInline, snapshot.Count(mdevent.TypeMathText),
				)

				if len(sources) > 1 {
					if idx > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "==> %s <==\n", src.path)
				}
				if err := mdevent.Dump(out, snapshot); err != nil {
					return fmt.Errorf("%w: %w", ErrIO, err)
				}
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
