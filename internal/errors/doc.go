// Package errors defines error types for toolrun.
//
// This package provides structured error types for the failure scenarios of
// running an external tool: the tool could not be launched, no shell was
// available for shell-wrapped execution, or shell-mode output capture failed.
// All error types support error unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
