package toolrun

import (
	"github.com/wagiedev/toolrun-go/internal/config"
	"github.com/wagiedev/toolrun-go/internal/console"
	"github.com/wagiedev/toolrun-go/internal/dispatch"
	"github.com/wagiedev/toolrun-go/internal/stream"
	"github.com/wagiedev/toolrun-go/internal/subprocess"
)

// Options configures a tool run.
type Options = config.Options

// Result is the outcome of one tool run.
type Result = subprocess.Result

// ExitCodeUnavailable is the exit code of a Result whose process never ran
// to completion.
const ExitCodeUnavailable = subprocess.ExitCodeUnavailable

// Process is the handle of a running tool passed to an IOHandler.
type Process = config.Process

// IOHandler receives the output of a running tool.
type IOHandler = config.IOHandler

// LineFunc receives the reassembled lines of a running tool.
type LineFunc = config.LineFunc

// Pending is the unterminated output of one run, passed to a LineFunc.
type Pending = config.Pending

// Dispatcher runs RunAsync completions on the caller's main loop.
type Dispatcher = config.Dispatcher

// Chunk is one delivery of output from a running tool.
type Chunk = stream.Chunk

// StreamID identifies an output stream.
type StreamID = stream.ID

// Stream identifiers.
const (
	Stdout = stream.Stdout
	Stderr = stream.Stderr
)

// MainLoop is a Dispatcher pumped by the goroutine that owns it.
type MainLoop = dispatch.MainLoop

// NewMainLoop creates an empty MainLoop.
func NewMainLoop(opts ...Option) *MainLoop {
	return dispatch.NewMainLoop(applyOptions(opts).Logger)
}

// ConsoleManager reference counts UTF-8 overrides of the console encoding.
type ConsoleManager = console.Manager
