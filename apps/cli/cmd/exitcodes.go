package cmd

import (
	"errors"
	"fmt"
)

// Exit codes for hitreport CLI
const (
	// ExitSuccess indicates all tests passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more tests failed
	ExitTestFailure = 1

	// ExitManifestError indicates the suite manifest could not be read
	ExitManifestError = 2

	// ExitConfigError indicates a configuration error, including reporters
	// that cannot be loaded
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries the process exit code out of a command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// exitCode maps a command error to the process exit code
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsageError
}
