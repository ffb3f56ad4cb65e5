package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("10")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("196")
	colorCyan   = lipgloss.Color("14")

	styleOrigin = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim    = lipgloss.NewStyle().Faint(true)
	styleError  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// statusStyle colours a port status word of the check and create output.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "clean", "written", "created", "updated":
		return lipgloss.NewStyle().Foreground(colorGreen)
	case "drifted", "dry-run":
		return lipgloss.NewStyle().Foreground(colorYellow)
	case "failed":
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle()
	}
}

// statusLine renders "<status> <origin>" with an optional dimmed detail.
func statusLine(status string, origin string, detail string) string {
	line := statusStyle(status).Render(fmt.Sprintf("%-8s", status)) + " " + styleOrigin.Render(origin)
	if detail != "" {
		line += " " + styleDim.Render(detail)
	}
	return line
}

func printError(message string) {
	fmt.Fprintln(os.Stderr, styleError.Render("error:")+" "+message)
}
