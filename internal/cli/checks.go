package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/pkg/check"
)

const formatJSON = "json"

// checkInfo represents a check in JSON output.
type checkInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Fixable     bool   `json:"fixable"`
}

func newChecksCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List available checks",
		Long: `List the checks mdmath runs on every file with their IDs, names and
default severities, and whether --fix can fix what they find. Either the ID
or the name can be used as a key under "rules" in the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checks := check.All()

			switch format {
			case formatJSON:
				return writeChecksJSON(cmd, checks)
			case "", "text":
			default:
				return fmt.Errorf("%w: unknown format %q; valid formats: text, json", ErrUsage, format)
			}

			logger := logging.NewWithWriter(cmd.OutOrStdout(), "info", logging.FormatText)
			for _, c := range checks {
				fixable := "-"
				if c.Fixable {
					fixable = "yes"
				}
				logger.Info(c.ID+"/"+c.Name,
					logging.FieldSeverity, c.DefaultSeverity,
					logging.FieldFixable, fixable,
					logging.FieldDescription, c.Description,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func writeChecksJSON(cmd *cobra.Command, checks []*check.Check) error {
	infos := make([]checkInfo, 0, len(checks))
	for _, c := range checks {
		infos = append(infos, checkInfo{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Severity:    string(c.DefaultSeverity),
			Fixable:     c.Fixable,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding checks: %w", err)
	}
	return nil
}
