package tracker

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Logger receives tracker diagnostics.
type Logger interface {
	Transition(from, to State)
	Inconsistency(*InconsistencyError)
	RequestFailed(op string, err error)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Transition(State, State)           {}
func (NopLogger) Inconsistency(*InconsistencyError) {}
func (NopLogger) RequestFailed(string, error)       {}

// ConsoleLogger writes styled tracker diagnostics.
type ConsoleLogger struct {
	writer     io.Writer
	infoStyle  lipgloss.Style
	warnStyle  lipgloss.Style
	errorStyle lipgloss.Style
}

// NewConsoleLogger builds a logger for interactive output.
func NewConsoleLogger(writer io.Writer) *ConsoleLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleLogger{
		writer:     writer,
		infoStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		warnStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		errorStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// Transition logs a committed state change.
func (logger *ConsoleLogger) Transition(from, to State) {
	if logger == nil {
		return
	}
	fmt.Fprintln(logger.writer, logger.infoStyle.Render(fmt.Sprintf("session: %s -> %s", from, to)))
}

// Inconsistency logs a server-side single-session violation.
func (logger *ConsoleLogger) Inconsistency(err *InconsistencyError) {
	if logger == nil || err == nil {
		return
	}
	fmt.Fprintln(logger.writer, logger.warnStyle.Render("warning: "+err.Error()))
}

// RequestFailed logs a failed service call.
func (logger *ConsoleLogger) RequestFailed(op string, err error) {
	if logger == nil || err == nil {
		return
	}
	fmt.Fprintln(logger.writer, logger.errorStyle.Render(fmt.Sprintf("%s failed: %v", op, err)))
}
