package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/mdmath/pkg/config"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "MDMATH_"

// envVar binds one environment variable to a config field.
type envVar struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"SEVERITY_DEFAULT": {
		description: "Severity for checks without their own: error, warning, or info",
		apply: func(cfg *config.Config, value string) error {
			cfg.SeverityDefault = value
			return nil
		},
	},
	"FORMAT": {
		description: "Output format: text, table, json, sarif, diff, or summary",
		apply: func(cfg *config.Config, value string) error {
			cfg.Format = config.OutputFormat(value)
			return nil
		},
	},
	"JOBS": {
		description: "Number of parallel workers (0 = auto)",
		apply: func(cfg *config.Config, value string) error {
			jobs, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer %q", value)
			}
			cfg.Jobs = jobs
			return nil
		},
	},
	"IGNORE": {
		description: "Comma-separated ignore patterns",
		apply: func(cfg *config.Config, value string) error {
			cfg.Ignore = parseList(value)
			return nil
		},
	},
	"EXTENSIONS": {
		description: "Comma-separated Markdown file extensions",
		apply: func(cfg *config.Config, value string) error {
			cfg.Extensions = parseList(value)
			return nil
		},
	},
	"DISABLE": {
		description: "Comma-separated constructs to turn off",
		apply: func(cfg *config.Config, value string) error {
			cfg.Disable = parseList(value)
			return nil
		},
	},
	"SINGLE_DOLLAR": {
		description: "Allow $x$ inline math: true or false",
		apply: func(cfg *config.Config, value string) error {
			single, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
			}
			cfg.Math.SingleDollarTextMath = &single
			return nil
		},
	},
	"INLINE_DISPLAY": {
		description: `Allow \[x\] inside a line: true or false`,
		apply: func(cfg *config.Config, value string) error {
			inline, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
			}
			cfg.Math.InlineDisplay = inline
			return nil
		},
	},
}

// LoadFromEnv applies MDMATH_* environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.Getenv)
}

func loadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}
	for _, suffix := range envSuffixes() {
		name := EnvPrefix + suffix
		value := getenv(name)
		if value == "" {
			continue
		}
		if err := envVars[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func envSuffixes() []string {
	suffixes := make([]string, 0, len(envVars))
	for suffix := range envVars {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// parseList splits a comma-separated value, dropping empty items.
func parseList(value string) []string {
	var items []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for suffix, v := range envVars {
		out[EnvPrefix+suffix] = v.description
	}
	return out
}
