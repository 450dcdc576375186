package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/mdmath/pkg/analysis"
	"github.com/yaklabco/mdmath/pkg/check"
	"github.com/yaklabco/mdmath/pkg/config"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifToolName  = "mdmath"
	sarifToolURI   = "https://github.com/yaklabco/mdmath"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Invocations []SARIFInvocation `json:"invocations"`
	Results     []SARIFResult     `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one check.
type SARIFRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription SARIFMessage    `json:"shortDescription"`
	DefaultConfig    SARIFRuleConfig `json:"defaultConfiguration"`
}

// SARIFRuleConfig contains the default level of a rule.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFInvocation reports whether the run completed and carries per-file
// failures as notifications.
type SARIFInvocation struct {
	ExecutionSuccessful bool                `json:"executionSuccessful"`
	Notifications       []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification is a problem that stopped a file from being checked.
type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

// SARIFResult represents a single diagnostic.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage holds plain text.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region. Columns are byte based.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFRenderer writes the analysis report as SARIF 2.1.0.
type SARIFRenderer struct {
	opts Options
}

// NewSARIFRenderer creates a new SARIF renderer.
func NewSARIFRenderer(opts Options) *SARIFRenderer {
	return &SARIFRenderer{opts: opts}
}

// Render implements Renderer.
func (r *SARIFRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r.buildOutput(report)); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (r *SARIFRenderer) buildOutput(report *analysis.Report) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	checks := check.All()
	rules := make([]SARIFRule, 0, len(checks))
	ruleIndex := make(map[string]int, len(checks))
	for idx, c := range checks {
		ruleIndex[c.ID] = idx
		rules = append(rules, SARIFRule{
			ID:               c.ID,
			Name:             c.Name,
			ShortDescription: SARIFMessage{Text: c.Description},
			DefaultConfig:    SARIFRuleConfig{Level: sarifLevel(string(c.DefaultSeverity))},
		})
	}

	run := SARIFRun{
		Tool: SARIFTool{Driver: SARIFDriver{
			Name:           sarifToolName,
			Version:        version,
			InformationURI: sarifToolURI,
			Rules:          rules,
		}},
		Invocations: []SARIFInvocation{{ExecutionSuccessful: len(report.Errors) == 0}},
		Results:     make([]SARIFResult, 0, len(report.Diagnostics)),
	}

	for _, fileErr := range report.Errors {
		run.Invocations[0].Notifications = append(run.Invocations[0].Notifications, SARIFNotification{
			Level:   "error",
			Message: SARIFMessage{Text: fileErr.Message},
			Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: sarifURI(fileErr.FilePath)},
			}}},
		})
	}

	for _, diag := range report.Diagnostics {
		run.Results = append(run.Results, SARIFResult{
			RuleID:    diag.CheckID,
			RuleIndex: ruleIndex[diag.CheckID],
			Level:     sarifLevel(diag.Severity),
			Message:   SARIFMessage{Text: diag.Message},
			Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: sarifURI(diag.FilePath)},
				Region: &SARIFRegion{
					StartLine:   diag.StartLine,
					StartColumn: diag.StartColumn,
					EndLine:     diag.EndLine,
					EndColumn:   diag.EndColumn,
				},
			}}},
		})
	}

	return &SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion, Runs: []SARIFRun{run}}
}

// sarifURI uses forward slashes, as SARIF URIs require.
func sarifURI(path string) string {
	return filepath.ToSlash(path)
}

func sarifLevel(severity string) string {
	switch config.Severity(severity) {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
