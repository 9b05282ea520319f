// Package tui implements the interactive review dashboard: the adaptive
// event list, nested detail views with scroll restoration, and the
// confirmation flow for destructive row actions.
package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode describes how list output should be rendered.
type OutputMode int

const (
	// OutputModePlain is unstyled text for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored, non-interactive output.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen dashboard.
	OutputModeInteractive
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectOutputMode picks the output mode from explicit flags and terminal
// detection. plain forces unstyled output; noColor downgrades interactive
// and styled rendering to styled-less text; interactive requires a TTY.
func DetectOutputMode(plain, noColor, wantInteractive bool) OutputMode {
	if plain || !IsTTY() {
		return OutputModePlain
	}
	if noColor {
		return OutputModePlain
	}
	if wantInteractive {
		return OutputModeInteractive
	}
	return OutputModeStyled
}
