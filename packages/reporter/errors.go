package reporter

import (
	"errors"
	"fmt"
)

// ErrReporterNotFound is returned by loaders that do not know a locator
var ErrReporterNotFound = errors.New("reporter not found")

// LoadError is a configuration error: a reporter could not be located or
// constructed. It aborts startup before any hook runs.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load reporter %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// HookError records a failure of one reporter while handling one event
type HookError struct {
	Hook     string
	Reporter string
	Index    int
	Err      error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("reporter %s (#%d) failed in %s: %v", e.Reporter, e.Index, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking hook
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
