package errors

import (
	"errors"
	"fmt"
)

// ToolrunError is the base interface for all toolrun errors.
type ToolrunError interface {
	error
	IsToolrunError() bool
}

// Compile-time verification that all error types implement ToolrunError.
var (
	_ ToolrunError = (*LaunchError)(nil)
	_ ToolrunError = (*ShellNotFoundError)(nil)
	_ ToolrunError = (*CaptureError)(nil)
	_ ToolrunError = (*WorkingDirError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrEmptyToolPath indicates Run was called without a tool path.
	ErrEmptyToolPath = errors.New("tool path is empty")

	// ErrNoDispatcher indicates RunAsync was called without a dispatcher to
	// deliver the completion on.
	ErrNoDispatcher = errors.New("no dispatcher configured for asynchronous run")
)

// LaunchError indicates the tool process could not be started, for example
// because the executable does not exist or is not executable.
type LaunchError struct {
	ToolPath string
	Err      error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %q: %v", e.ToolPath, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsToolrunError implements ToolrunError.
func (e *LaunchError) IsToolrunError() bool { return true }

// ShellNotFoundError indicates no shell interpreter was found for
// shell-wrapped execution.
type ShellNotFoundError struct {
	Shell         string
	SearchedPaths []string
}

func (e *ShellNotFoundError) Error() string {
	return fmt.Sprintf("shell %s not found in: %v", e.Shell, e.SearchedPaths)
}

// IsToolrunError implements ToolrunError.
func (e *ShellNotFoundError) IsToolrunError() bool { return true }

// CaptureError indicates a shell-mode output file could not be created or read.
// The result of the run cannot be assembled without it.
type CaptureError struct {
	Path string
	Err  error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("failed to capture output via %s: %v", e.Path, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// IsToolrunError implements ToolrunError.
func (e *CaptureError) IsToolrunError() bool { return true }

// WorkingDirError indicates the default working directory could not be resolved.
type WorkingDirError struct {
	Err error
}

func (e *WorkingDirError) Error() string {
	return fmt.Sprintf("failed to resolve working directory: %v", e.Err)
}

func (e *WorkingDirError) Unwrap() error {
	return e.Err
}

// IsToolrunError implements ToolrunError.
func (e *WorkingDirError) IsToolrunError() bool { return true }
