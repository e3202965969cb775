package config

import (
	"os"

	"golang.org/x/term"
)

// DetectHeadless reports whether the process runs without an interactive
// terminal: stdin or stdout is not a terminal, or the CI variable is set.
func DetectHeadless() bool {
	if os.Getenv("CI") != "" {
		return true
	}

	return !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd()))
}
