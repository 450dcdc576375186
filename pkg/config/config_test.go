package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdmath/pkg/config"
)

func ptr[T any](v T) *T { return &v }

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies rules and slices", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{
			Disable: []string{"codeIndented"},
			Ignore:  []string{"vendor/**"},
			Rules: map[string]config.RuleConfig{
				"unclosed-math-block": {Enabled: ptr(true), Severity: ptr("error")},
			},
			Jobs:   4,
			Format: config.FormatJSON,
		}
		original.Math.SingleDollarTextMath = ptr(false)

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)

		clone.Disable[0] = "changed"
		clone.Ignore[0] = "changed"
		*clone.Math.SingleDollarTextMath = true
		clone.Rules["unclosed-math-block"] = config.RuleConfig{Severity: ptr("info")}

		assert.Equal(t, "codeIndented", original.Disable[0])
		assert.Equal(t, "vendor/**", original.Ignore[0])
		assert.False(t, *original.Math.SingleDollarTextMath)
		assert.Equal(t, "error", *original.Rules["unclosed-math-block"].Severity)
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
math:
  single_dollar: false
  inline_display: true
disable:
  - codeIndented
severity_default: error
rules:
  empty-math:
    enabled: false
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	require.NotNil(t, cfg.Math.SingleDollarTextMath)
	assert.False(t, *cfg.Math.SingleDollarTextMath)
	assert.True(t, cfg.Math.InlineDisplay)
	assert.Equal(t, []string{"codeIndented"}, cfg.Disable)
	assert.False(t, cfg.RuleEnabled("empty-math"))
	assert.True(t, cfg.RuleEnabled("unclosed-math-block"))
	assert.Equal(t, config.SeverityError, cfg.RuleSeverity("empty-math", config.SeverityInfo))
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("math: [unclosed"))
	require.Error(t, err)
}

func TestToYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Math.InlineDisplay = true
	cfg.Ignore = []string{"drafts/**"}

	data, err := cfg.ToYAML()
	require.NoError(t, err)

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.True(t, parsed.Math.InlineDisplay)
	assert.Equal(t, []string{"drafts/**"}, parsed.Ignore)
	assert.Equal(t, cfg.SeverityDefault, parsed.SeverityDefault)
}

func TestRuleSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *config.Config
		expected config.Severity
	}{
		{"nil config", nil, config.SeverityInfo},
		{"default severity", &config.Config{SeverityDefault: "warning"}, config.SeverityWarning},
		{
			name: "rule severity wins",
			cfg: &config.Config{
				SeverityDefault: "warning",
				Rules:           map[string]config.RuleConfig{"empty-math": {Severity: ptr("error")}},
			},
			expected: config.SeverityError,
		},
		{
			name: "invalid rule severity falls back",
			cfg: &config.Config{
				Rules: map[string]config.RuleConfig{"empty-math": {Severity: ptr("loud")}},
			},
			expected: config.SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.cfg.RuleSeverity("empty-math", config.SeverityInfo))
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	format, ok := config.ParseOutputFormat("")
	assert.True(t, ok)
	assert.Equal(t, config.FormatText, format)

	format, ok = config.ParseOutputFormat("sarif")
	assert.True(t, ok)
	assert.Equal(t, config.FormatSARIF, format)

	_, ok = config.ParseOutputFormat("xml")
	assert.False(t, ok)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	minimal := config.GenerateTemplate(config.TemplateOptions{})
	_, err := config.FromYAML(minimal)
	require.NoError(t, err)
	assert.Contains(t, string(minimal), "# mdmath configuration")

	full := config.GenerateTemplate(config.TemplateOptions{
		Full: true,
		Checks: []config.CheckInfo{
			{Name: "empty-math", Description: "Math with nothing inside", Severity: config.SeverityInfo},
		},
	})
	cfg, err := config.FromYAML(full)
	require.NoError(t, err)
	assert.True(t, cfg.RuleEnabled("empty-math"))
	assert.Equal(t, config.SeverityInfo, cfg.RuleSeverity("empty-math", config.SeverityError))
}
