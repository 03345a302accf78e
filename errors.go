package main

import (
	"fmt"

	"github.com/pkg/errors"
)

// BuildError is a user facing failure (bad arguments, broken manifests...).
// It is reported as "ERROR: <message>" and terminates with status 1.
type BuildError struct {
	Message string
}

// NewBuildError creates a `BuildError` with formatted message.
func NewBuildError(format string, args ...interface{}) *BuildError {
	return &BuildError{Message: fmt.Sprintf(format, args...)}
}

func (e *BuildError) Error() string {
	return e.Message
}

// ToolError is raised when an external tool exits abnormally.
// Code is propagated as the exit status of the whole invocation.
type ToolError struct {
	Command string
	Code    int
	Err     error
}

func (e *ToolError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("command \"%s\" failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command \"%s\" has exited with code %d", e.Command, e.Code)
}

// ExitCode retrieves the exit status to report for the failed tool.
func (e *ToolError) ExitCode() int {
	if e.Code <= 0 {
		return 1
	}
	return e.Code
}

// AsBuildError returns the `BuildError` at the bottom of `err` if any.
func AsBuildError(err error) (*BuildError, bool) {
	be, ok := errors.Cause(err).(*BuildError)
	return be, ok
}

// AsToolError returns the `ToolError` at the bottom of `err` if any.
func AsToolError(err error) (*ToolError, bool) {
	te, ok := errors.Cause(err).(*ToolError)
	return te, ok
}
