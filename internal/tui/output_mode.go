package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how listing results are presented.
type OutputMode int

const (
	// OutputModePlain writes an unstyled table, suitable for pipes.
	OutputModePlain OutputMode = iota

	// OutputModeInteractive runs the full-screen browse TUI.
	OutputModeInteractive
)

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectOutputMode picks the presentation mode: interactive when both
// stdin and stdout are terminals and the caller didn't force plain
// output, plain otherwise.
func DetectOutputMode(forcePlain bool) OutputMode {
	if forcePlain {
		return OutputModePlain
	}
	if IsTTY() && term.IsTerminal(int(os.Stdin.Fd())) {
		return OutputModeInteractive
	}
	return OutputModePlain
}
