// Package config provides configuration types for tool runs.
package config

import (
	"io"
	"log/slog"

	"github.com/wagiedev/toolrun-go/internal/console"
	"github.com/wagiedev/toolrun-go/internal/stream"
)

// Process is the handle of a running tool passed to an IOHandler.
type Process interface {
	// Pid returns the operating system process id.
	Pid() int

	// Wait blocks until the process exits and returns its exit code.
	Wait() int

	// ExitCode returns the exit code and true once the process has exited.
	ExitCode() (int, bool)
}

// IOHandler receives the output of a running tool.
//
// It is called once with a marker chunk right after the process starts, then
// once per chunk (or per line when wrapped in a line adapter). stdin is nil
// when the process was started without a stdin pipe.
type IOHandler func(proc Process, stdin io.WriteCloser, chunk stream.Chunk)

// LineFunc receives the reassembled lines of a running tool.
//
// Marker lines (nil Bytes) arrive when a chunk completed no line. pending
// exposes the data no newline has terminated yet, such as a prompt waiting
// for input; it is up to date on every call, lines and markers alike.
type LineFunc func(proc Process, stdin io.WriteCloser, line stream.Chunk, pending Pending)

// Pending is the unterminated output of one run.
type Pending interface {
	// Text returns the partial line buffered for the stream.
	Text(id stream.ID) string

	// Discard drops every buffered partial line without delivering it.
	Discard()
}

// Dispatcher runs actions on the caller's main loop.
type Dispatcher interface {
	// Schedule enqueues action. It must not block and must not run action
	// inline.
	Schedule(action func())
}

// Options configures a tool run.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Dir is the working directory of the tool.
	// If empty, the current working directory is used.
	Dir string

	// Env provides additional environment variables for the tool.
	// Ignored in shell mode.
	Env map[string]string

	// IOHandler receives output chunks while the tool runs.
	// Ignored in shell mode.
	IOHandler IOHandler

	// ShellExecution forces the tool to run through the platform shell.
	ShellExecution bool

	// ShellRedirect captures shell-mode output through temporary files.
	// If nil, redirection is enabled.
	ShellRedirect *bool

	// ShellLang exports Env["LANG"] inside the shell before the tool runs.
	// POSIX only.
	ShellLang bool

	// ShellPatterns are glob patterns of tool paths that always run through
	// the shell. If nil, DefaultShellPatterns for the current platform apply.
	ShellPatterns []string

	// ReadBufferSize is the per-read buffer size of the output readers.
	// If zero, stream.DefaultBufferSize is used.
	ReadBufferSize int

	// Dispatcher delivers RunAsync completions. Required for RunAsync.
	Dispatcher Dispatcher

	// SynchronousExecution runs RunAsync work on the calling goroutine.
	// The completion is still delivered through Dispatcher.
	SynchronousExecution bool

	// Console manages the console encoding override.
	// If nil, console.Default is used.
	Console *console.Manager
}

// Redirect reports whether shell-mode output is captured through files.
func (o *Options) Redirect() bool {
	return o.ShellRedirect == nil || *o.ShellRedirect
}

// BufferSize returns the configured read buffer size or the default.
func (o *Options) BufferSize() int {
	if o.ReadBufferSize > 0 {
		return o.ReadBufferSize
	}

	return stream.DefaultBufferSize
}

// ConsoleManager returns the configured console manager or the default.
func (o *Options) ConsoleManager() *console.Manager {
	if o.Console != nil {
		return o.Console
	}

	return console.Default
}

// Lang returns the LANG override from Env, if any.
func (o *Options) Lang() string {
	if !o.ShellLang {
		return ""
	}

	return o.Env["LANG"]
}
