package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitify-app/gitify-cli/internal/model"
)

// ANSI palette indices, same scheme the terminal theme controls.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func heading(s string) string {
	return headingStyle.Render(s)
}

// statusBadge colours a project status the way the web dashboard did.
func statusBadge(status string) string {
	switch status {
	case model.ProjectStatusCompleted:
		return okStyle.Render(status)
	case model.ProjectStatusProcessing:
		return warnStyle.Render(status)
	case model.ProjectStatusFailed:
		return errStyle.Render(status)
	default:
		return dimStyle.Render(status)
	}
}

func printKV(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
}

// newTable returns a tabwriter for aligned columns; call flush via the
// returned func when done.
func newTable(w io.Writer) (*tabwriter.Writer, func()) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	return tw, func() { tw.Flush() }
}

func tableHeader(tw io.Writer, cols ...string) {
	for i, c := range cols {
		cols[i] = labelStyle.Render(c)
	}
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}
