package toolrun

import "github.com/wagiedev/toolrun-go/internal/errors"

// Re-export error types from internal package

// LaunchError indicates the tool could not be started.
type LaunchError = errors.LaunchError

// ShellNotFoundError indicates no shell interpreter was found for shell mode.
type ShellNotFoundError = errors.ShellNotFoundError

// CaptureError indicates shell-mode output capture failed.
type CaptureError = errors.CaptureError

// WorkingDirError indicates the working directory could not be determined.
type WorkingDirError = errors.WorkingDirError

// ToolrunError is the base interface for all toolrun errors.
type ToolrunError = errors.ToolrunError

// Re-export sentinel errors from internal package.
var (
	// ErrEmptyToolPath indicates Run was called without a tool path.
	ErrEmptyToolPath = errors.ErrEmptyToolPath

	// ErrNoDispatcher indicates RunAsync was called without a dispatcher.
	ErrNoDispatcher = errors.ErrNoDispatcher
)
