package configloader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/parser"
)

// ValidationError is one configuration problem.
type ValidationError struct {
	// Field is the path to the field, such as "rules.empty-math.severity".
	Field string

	Value any

	Message string

	// FilePath is the config file holding the field, if known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors stop the configuration from loading.
	Errors []ValidationError

	// Warnings are reported but do not stop loading.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.SeverityDefault != "" && !IsValidSeverity(cfg.SeverityDefault) {
		result.errorf("severity_default", cfg.SeverityDefault,
			"invalid severity %q; must be one of: error, warning, info", cfg.SeverityDefault)
	}

	if cfg.Format != "" {
		if _, ok := config.ParseOutputFormat(string(cfg.Format)); !ok {
			result.errorf("format", cfg.Format,
				"invalid format %q; must be one of: text, table, json, sarif, diff, summary", cfg.Format)
		}
	}

	if cfg.Jobs < 0 {
		result.errorf("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Golden && cfg.UpdateGolden {
		result.errorf("golden", true, "comparing and updating traces are mutually exclusive")
	}

	constructs := parser.Constructs()
	for idx, name := range cfg.Disable {
		if !slices.Contains(constructs, name) {
			result.warnf(fmt.Sprintf("disable[%d]", idx), name,
				"unknown construct %q; known constructs: %s", name, strings.Join(constructs, ", "))
		}
	}

	for idx, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.errorf(fmt.Sprintf("extensions[%d]", idx), ext, "extension %q must start with a dot", ext)
		}
	}

	for _, key := range cfg.RuleNames() {
		rc := cfg.Rules[key]
		if _, ok := check.Lookup(key); !ok {
			result.warnf("rules."+key, key, "unknown check %q; it will be ignored", key)
		}
		if rc.Severity != nil && !IsValidSeverity(*rc.Severity) {
			result.errorf("rules."+key+".severity", *rc.Severity,
				"invalid severity %q; must be one of: error, warning, info", *rc.Severity)
		}
	}

	for idx, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.errorf(fmt.Sprintf("ignore[%d]", idx), pattern, "invalid glob pattern: %v", err)
		}
	}

	return result
}

// ValidateWithFile validates cfg and attributes every finding to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidSeverity returns true if s names a severity level.
func IsValidSeverity(s string) bool {
	return config.Severity(s).IsValid()
}
