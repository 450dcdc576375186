package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every check with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Checks describes the available checks for the full template.
	Checks []CheckInfo
}

// CheckInfo contains check metadata for template generation.
type CheckInfo struct {
	Name        string
	Description string
	Severity    Severity
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Math syntax
math:
  # Allow $x$ as well as $$x$$ for inline math
  single_dollar: true
  # Allow \[x\] inside a line as display math
  inline_display: false

# Constructs to turn off, e.g. codeIndented, mathFlowLatex, mathTextLatex
# disable:
#   - codeIndented

# Severity for every check without its own: error, warning, or info
# severity_default: warning

# File extensions treated as Markdown
# extensions:
#   - .md
#   - .markdown

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`)

	if !opts.Full {
		buf.WriteString(`
# Check-specific configuration
# rules:
#   unclosed-math-block:
#     enabled: true
#     severity: error
`)
		return buf.Bytes()
	}

	checks := append([]CheckInfo(nil), opts.Checks...)
	sort.Slice(checks, func(i, j int) bool {
		return checks[i].Name < checks[j].Name
	})

	buf.WriteString("\n# Check-specific configuration\nrules:\n")
	for _, check := range checks {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(check.Description, commentWrapWidth))
		fmt.Fprintf(&buf, "  %s:\n", check.Name)
		buf.WriteString("    enabled: true\n")
		fmt.Fprintf(&buf, "    severity: %s\n", check.Severity)
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdmath configuration
# See: https://github.com/yaklabco/mdmath`
}
