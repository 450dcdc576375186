// Package config defines core configuration types for mdmath.
// These types are pure data structures; loading and layering lives in
// internal/configloader.
package config

import "github.com/yaklabco/mdmath/pkg/math"

// Severity represents the severity level of a math diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid returns true if the severity is a known level.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-check configuration.
type RuleConfig struct {
	Enabled  *bool   `yaml:"enabled,omitempty"`
	Severity *string `yaml:"severity,omitempty"`
}

// OutputFormat specifies the output format for trace and check results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
	FormatDiff    OutputFormat = "diff"
)

// SummaryOrder controls the order of tables in summary output.
type SummaryOrder string

const (
	// SummaryOrderChecks shows the checks table first (default).
	SummaryOrderChecks SummaryOrder = "checks"
	// SummaryOrderFiles shows the files table first.
	SummaryOrderFiles SummaryOrder = "files"
)

// IsValid returns true if the summary order is valid.
func (s SummaryOrder) IsValid() bool {
	switch s {
	case SummaryOrderChecks, SummaryOrderFiles:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for mdmath.
type Config struct {
	// Math configures the math constructs.
	Math math.Options `yaml:"math"`

	// Disable lists construct names to turn off, such as "codeIndented".
	Disable []string `yaml:"disable,omitempty"`

	// SeverityDefault, when set, replaces the built-in severity of every
	// check that has no severity of its own in Rules.
	SeverityDefault string `yaml:"severity_default,omitempty"`

	// Rules contains per-check configuration keyed by check name.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// Extensions are the file extensions treated as Markdown.
	Extensions []string `yaml:"extensions,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Golden compares traces against <file>.trace files.
	Golden bool `yaml:"-"`

	// UpdateGolden rewrites the golden trace files.
	UpdateGolden bool `yaml:"-"`

	// Fix applies the edits of fixable diagnostics to the source files.
	Fix bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rules:  make(map[string]RuleConfig),
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// RuleEnabled reports whether the named check is on. Checks are on unless
// configured otherwise.
func (c *Config) RuleEnabled(name string) bool {
	if c == nil {
		return true
	}
	rc, ok := c.Rules[name]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}

// RuleSeverity returns the configured severity of the named check, falling
// back to SeverityDefault and then to fallback, the check's own default.
func (c *Config) RuleSeverity(name string, fallback Severity) Severity {
	if c == nil {
		return fallback
	}
	if rc, ok := c.Rules[name]; ok && rc.Severity != nil {
		if sev := Severity(*rc.Severity); sev.IsValid() {
			return sev
		}
	}
	if sev := Severity(c.SeverityDefault); sev.IsValid() {
		return sev
	}
	return fallback
}
