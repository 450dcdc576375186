package configloader

import (
	"maps"

	"github.com/yaklabco/mdmath/pkg/config"
)

// merge layers override on top of base:
//   - scalars replace base when set in override
//   - rule maps merge key by key
//   - slices replace base when non-nil in override
//
// Booleans can only be switched on by a later layer, except the math
// single-dollar setting, which is a pointer and can be set either way.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Math.SingleDollarTextMath != nil {
		single := *override.Math.SingleDollarTextMath
		result.Math.SingleDollarTextMath = &single
	}
	if override.Math.InlineDisplay {
		result.Math.InlineDisplay = true
	}

	if override.SeverityDefault != "" {
		result.SeverityDefault = override.SeverityDefault
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Golden {
		result.Golden = true
	}
	if override.UpdateGolden {
		result.UpdateGolden = true
	}
	if override.Fix {
		result.Fix = true
	}

	result.Rules = mergeRules(base.Rules, override.Rules)

	if override.Disable != nil {
		result.Disable = override.Disable
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	return &result
}

func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)
	for key, val := range override {
		existing, ok := result[key]
		if !ok {
			result[key] = val
			continue
		}
		if val.Enabled != nil {
			existing.Enabled = val.Enabled
		}
		if val.Severity != nil {
			existing.Severity = val.Severity
		}
		result[key] = existing
	}
	return result
}

// MergeAll merges configs in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}
	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
