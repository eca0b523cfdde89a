package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"nasaudit/internal/deleter"
)

var (
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	refusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("202"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func tagStyle(s deleter.Status) lipgloss.Style {
	switch s.Tag() {
	case "OK":
		return okStyle
	case "DRY":
		return dryStyle
	case "WARN":
		return warnStyle
	case "REFUSED":
		return refusedStyle
	default:
		return errorStyle
	}
}

// outcomePrinter writes one styled line per outcome.
func outcomePrinter(w io.Writer) func(deleter.Outcome) {
	return func(o deleter.Outcome) {
		tag := fmt.Sprintf("%-9s", "["+o.Status.Tag()+"]")
		fmt.Fprintf(w, "%s %s\n", tagStyle(o.Status).Render(tag), o.Message)
	}
}
