package validation

import (
	"fmt"
	"strings"
)

// FormatText renders violations one per line with a trailing summary, in
// the style of lint tool output.
func FormatText(violations []*Violation) string {
	var sb strings.Builder

	errorCount := 0
	warningCount := 0
	infoCount := 0

	for _, v := range violations {
		sb.WriteString(v.String())
		sb.WriteString("\n")

		switch v.Severity {
		case SeverityError:
			errorCount++
		case SeverityWarning:
			warningCount++
		case SeverityInfo:
			infoCount++
		}
	}

	if len(violations) > 0 {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d problems (%d errors, %d warnings, %d info)\n", len(violations), errorCount, warningCount, infoCount)
	}

	return sb.String()
}

// HasErrors reports whether any violation is error severity.
func HasErrors(violations []*Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}
