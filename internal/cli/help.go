package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdmath/internal/ui/pretty"
)

// minFlagGap is the run of spaces pflag puts between a flag and its usage.
const minFlagGap = 2

// helpFormatter renders Cobra help and usage with Lip Gloss styles.
type helpFormatter struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// newHelpFormatter picks styles for the color mode and the writer help goes to.
func newHelpFormatter(colorMode string, writer io.Writer) *helpFormatter {
	colorEnabled := pretty.IsColorEnabled(colorMode, writer)
	styles := pretty.NewStyles(colorEnabled)
	return &helpFormatter{
		command: styles.FilePath,
		heading: styles.SummaryTitle.Underline(colorEnabled),
		name:    styles.Success.UnsetBold(),
		flag:    styles.Info.UnsetBold(),
		dim:     styles.Dim,
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ join .Aliases ", " }}
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}{{ template "usage" . }}`

func (h *helpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":   h.command.Render,
		"heading":   h.heading.Render,
		"name":      h.name.Render,
		"dim":       h.dim.Render,
		"flags":     h.styleFlags,
		"join":      strings.Join,
		"rpad":      rpad,
		"trimRight": trimTrailingWhitespace,
	}
}

// apply installs the styled templates on cmd. Subcommands inherit them.
func (h *helpFormatter) apply(cmd *cobra.Command) {
	usage := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	help := template.Must(template.Must(usage.Clone()).New("help").Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// styleFlags colors the flag names in pflag's usage block and dims their
// value types, keeping the column layout.
func (h *helpFormatter) styleFlags(usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for idx, line := range lines {
		lines[idx] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *helpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	gap := strings.Index(trimmed, strings.Repeat(" ", minFlagGap))
	if trimmed == "" || gap < 0 {
		return line
	}
	spec, rest := trimmed[:gap], trimmed[gap:]

	var sb strings.Builder
	sb.WriteString(indent)
	for idx, field := range strings.Fields(spec) {
		if idx > 0 {
			sb.WriteByte(' ')
		}
		if !strings.HasPrefix(field, "-") {
			sb.WriteString(h.dim.Render(field))
			continue
		}
		name, comma := strings.CutSuffix(field, ",")
		sb.WriteString(h.flag.Render(name))
		if comma {
			sb.WriteByte(',')
		}
	}
	sb.WriteString(rest)
	return sb.String()
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for idx, line := range lines {
		lines[idx] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
