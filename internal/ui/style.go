// Package ui formats tables, times and status labels for terminal output.
package ui

import (
	"os"

	"github.com/amonks/timeclock/presenter"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	runningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	stopStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	startStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	unavailableStyle = lipgloss.NewStyle().Faint(true)
	completedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headingStyle     = lipgloss.NewStyle().Bold(true)
)

// ColorEnabled reports whether stdout should get ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ActionLabel renders an action, styled when color is enabled.
func ActionLabel(action presenter.Action, color bool) string {
	label := string(action)
	if !color {
		return label
	}
	return actionStyle(action).Render(label)
}

func actionStyle(action presenter.Action) lipgloss.Style {
	switch action {
	case presenter.ActionRunning:
		return runningStyle
	case presenter.ActionStop:
		return stopStyle
	case presenter.ActionStart:
		return startStyle
	case presenter.ActionCompleted:
		return completedStyle
	default:
		return unavailableStyle
	}
}

// Heading renders a section heading.
func Heading(text string, color bool) string {
	if !color {
		return text
	}
	return headingStyle.Render(text)
}
