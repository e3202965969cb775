package toolrun

import (
	"github.com/wagiedev/toolrun-go/internal/subprocess"
)

// Run starts the tool, waits until it exits and all output has been read,
// and returns the collected Result.
//
// Tool paths wrapped in quotes are used verbatim; otherwise forward slashes
// are converted to the platform separator. The tool runs directly unless
// WithShellExecution is set or its path matches a shell pattern.
//
// Example:
//
//	result, err := toolrun.Run("git", []string{"status", "--short"},
//	    toolrun.WithDir(repo),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(result.Stdout)
func Run(toolPath string, args []string, opts ...Option) (Result, error) {
	options := applyOptions(opts)

	return subprocess.NewRunner(options.Logger, options).Run(toolPath, args)
}

// RunAsync runs the tool without blocking the caller and delivers the Result
// to done through the dispatcher set with WithDispatcher.
//
// done is never called inline, even with WithSynchronousExecution. A run
// that fails to start is delivered as a Result with Err set and ExitCode
// equal to ExitCodeUnavailable.
//
// Returns ErrNoDispatcher if no dispatcher is configured.
func RunAsync(toolPath string, args []string, done func(Result), opts ...Option) error {
	options := applyOptions(opts)

	return subprocess.NewRunner(options.Logger, options).RunAsync(toolPath, args, done)
}

// LineHandler adapts a per-line handler to the IOHandler contract. Each run
// gets its own line buffer; CRLF and lone CR are normalized to LF, and the
// last line of a stream is delivered with Final set.
//
// When a chunk completes no line, fn receives a marker (nil Bytes) instead.
// On every call pending already holds the unterminated output, for example a
// prompt that does not end in a newline.
func LineHandler(fn LineFunc) IOHandler {
	return subprocess.Lines(fn)
}
