package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/canopy/pkg/domain"
)

// ValidationReport renders a validation result as markdown, suitable for
// the glamour renderer (or plain output when not a terminal).
func ValidationReport(res domain.ValidationResult) string {
	var sb strings.Builder

	if res.Valid {
		sb.WriteString("# Workflow is valid\n\n")
	} else {
		sb.WriteString("# Workflow is invalid\n\n")
	}

	if len(res.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
		sb.WriteString("\n")
	}
	if len(res.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}
	if res.Valid && len(res.Warnings) == 0 {
		sb.WriteString("No errors, no warnings.\n")
	}

	return sb.String()
}

// StatusLine prints a one-line colored verdict for script-friendly use.
func StatusLine(res domain.ValidationResult) string {
	p := termenv.ColorProfile()
	if res.Valid {
		return termenv.String("valid").Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String(fmt.Sprintf("invalid (%d errors)", len(res.Errors))).Foreground(p.Color("#ef4444")).String()
}
