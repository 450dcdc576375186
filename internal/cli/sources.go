package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/pkg/fsutil"
)

// stdinPath names standard input on the command line and in output.
const stdinPath = "-"

// source is one Markdown input of a parse-only command.
type source struct {
	path    string
	content []byte
}

// readSources reads the named files in order. No arguments, or "-", reads
// standard input.
func readSources(ctx context.Context, cmd *cobra.Command, args []string) ([]source, error) {
	if len(args) == 0 {
		args = []string{stdinPath}
	}

	sources := make([]source, 0, len(args))
	for _, path := range args {
		if path == stdinPath {
			content, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("%w: read standard input: %w", ErrIO, err)
			}
			sources = append(sources, source{path: stdinPath, content: content})
			continue
		}

		content, _, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		sources = append(sources, source{path: path, content: content})
	}
	return sources, nil
}
