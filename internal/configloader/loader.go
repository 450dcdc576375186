// Package configloader resolves the mdmath configuration from system, user
// and project files, the environment and command-line flags.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/mdmath/internal/logging"
	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
	"github.com/yaklabco/mdmath/pkg/fsutil"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Defaults to the
	// current directory.
	WorkingDir string

	// ExplicitPath is a config file from --config. It is loaded after the
	// project config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds flag values. They take highest precedence.
	CLIConfig *config.Config

	// Getenv replaces os.Getenv.
	Getenv func(string) string
}

// LoadResult contains the resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config

	Paths *ConfigPaths

	// LoadedFrom lists the files that were loaded, in order.
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration. Precedence, highest first:
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDMATH_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.mdmath.yml, searched upward)
//  5. User config ($XDG_CONFIG_HOME/mdmath/config.yaml)
//  6. System config (/etc/mdmath/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name   string
		path   string
		ignore bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.ignore || layer.path == "" {
			continue
		}
		fileCfg, err := LoadFile(ctx, layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		logger.Debug("loaded config", logging.FieldConfig, layer.name, logging.FieldPath, layer.path)
	}

	if !opts.IgnoreEnv {
		getenv := opts.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		if err := loadFromEnv(cfg, getenv); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	cfg = merge(cfg, opts.CLIConfig)

	normalizeRuleKeys(cfg, result)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// LoadFile reads a single YAML configuration file.
func LoadFile(ctx context.Context, path string) (*config.Config, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// normalizeRuleKeys rewrites rule keys given as check IDs to check names.
// When both forms configure one check, the later key in sorted order wins
// and a warning is recorded.
func normalizeRuleKeys(cfg *config.Config, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seen := make(map[string]string)

	for _, key := range cfg.RuleNames() {
		rc := cfg.Rules[key]
		c, ok := check.Lookup(key)
		if !ok {
			normalized[key] = rc
			continue
		}
		if original, dup := seen[c.Name]; dup {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate check configuration: %q and %q both refer to %s; using %q",
					original, key, c.Name, key))
		}
		seen[c.Name] = key
		normalized[c.Name] = rc
	}

	cfg.Rules = normalized
}
