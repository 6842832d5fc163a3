// Package logger builds charmbracelet/log loggers for the hope binary.
// Diagnostics go to stderr so they never mix with IPC traffic on stdout.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// New creates a stderr charm log that respects the global log level.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Styles returns the default styles with highlighted values for the keys
// printed by the REPL and the version banner.
func Styles() *log.Styles {
	styles := log.DefaultStyles()
	accent := lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	styles.Values["code"] = lipgloss.NewStyle().Bold(true).Foreground(accent)
	styles.Values["symbol"] = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).Foreground(accent)
	return styles
}
