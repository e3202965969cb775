package subprocess

import (
	"fmt"
	"strings"
)

// ExitCodeUnavailable is the exit code of a Result whose process never ran
// to completion.
const ExitCodeUnavailable = -1

// Result is the outcome of one tool run.
type Result struct {
	// Stdout is everything the tool wrote to standard output.
	Stdout string

	// Stderr is everything the tool wrote to standard error.
	Stderr string

	// ExitCode is the process exit code, or ExitCodeUnavailable.
	ExitCode int

	// Message is the human readable run summary.
	Message string

	// Err is set when the run failed before producing an exit code.
	// Only results delivered by RunAsync carry an error.
	Err error
}

// Success reports whether the tool ran and exited with code zero.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

func newResult(display, stdout, stderr string, exitCode int) Result {
	return Result{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Message:  diagnostic(display, stdout, stderr, exitCode),
	}
}

func failedResult(display string, err error) Result {
	return Result{
		ExitCode: ExitCodeUnavailable,
		Message:  diagnostic(display, "", "", ExitCodeUnavailable) + "error: " + err.Error() + "\n",
		Err:      err,
	}
}

func diagnostic(display, stdout, stderr string, exitCode int) string {
	verb := "Failed to run"
	if exitCode == 0 {
		verb = "Successfully executed"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s '%s'\n", verb, display)
	fmt.Fprintf(&b, "stdout:\n%s\n", stdout)
	fmt.Fprintf(&b, "stderr:\n%s\n", stderr)
	fmt.Fprintf(&b, "exit code: %d\n", exitCode)

	return b.String()
}
