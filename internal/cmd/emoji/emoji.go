// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used in the probe report.
const (
	// Success marks a credential that produced a completion.
	Success = "✅"

	// Error marks a failed probe.
	Error = "❌"

	// Warning marks a credential that looks wrong before it is sent.
	Warning = "⚠️"
)
