package config

// ParseOutputFormat returns the format with the given name, or false.
func ParseOutputFormat(name string) (OutputFormat, bool) {
	switch format := OutputFormat(name); format {
	case FormatText, FormatTable, FormatJSON, FormatSARIF, FormatSummary, FormatDiff:
		return format, true
	case "":
		return FormatText, true
	default:
		return "", false
	}
}
