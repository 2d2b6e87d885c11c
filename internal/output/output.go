// Package output prints styled, user-facing terminal messages.
//
// Every command reports through these helpers so the CLI looks the same
// everywhere. Styling uses lipgloss; callers only pick the kind of message.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetVerbose enables or disables Verbose messages.
// The root command calls it from the --verbose flag.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode
}

// SetWriters redirects normal and error output. Passing nil restores the
// process streams.
func SetWriters(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

// Success prints a completed action.
//
//	output.Success("Generated Dockerfile")
func Success(msg string) {
	fmt.Fprintln(stdout, successStyle.Render("✔ "+msg))
}

// Error prints a failure that needs the user's attention. It goes to stderr.
func Error(msg string) {
	fmt.Fprintln(stderr, errorStyle.Render("✖ "+msg))
}

// Warn prints a problem that did not stop the command. It goes to stderr.
func Warn(msg string) {
	fmt.Fprintln(stderr, warnStyle.Render("! "+msg))
}

// Info prints a status update or explanation.
func Info(msg string) {
	fmt.Fprintln(stdout, infoStyle.Render("ℹ "+msg))
}

// Step prints an indented follow-up line, usually after Info or Error.
//
//	output.Error("Unknown tool: podman")
//	output.Step("Define it in ~/.config/devenv/config.yml")
func Step(msg string) {
	fmt.Fprintln(stdout, stepStyle.Render("   "+msg))
}

// Verbose prints debugging detail only when verbose mode is on.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(stdout, stepStyle.Render("· "+msg))
	}
}

// Plain prints msg without styling, e.g. for output meant to be piped.
func Plain(msg string) {
	fmt.Fprintln(stdout, msg)
}
