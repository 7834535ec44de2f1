package reporter

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
)

// Reporter receives the lifecycle events of a run
type Reporter interface {
	OnBegin(cfg *config.FullConfig, s *suite.Suite) error
	OnTestBegin(t *suite.Test) error
	OnTestEnd(t *suite.Test, r *suite.TestResult) error
	OnEnd(r *suite.FullResult) error
	OnError(err *suite.TestError) error
}

// StdioPrinter is implemented by reporters that know whether they write to
// the console. Reporters that do not implement it are assumed to print.
type StdioPrinter interface {
	PrintsToStdio() bool
}

// OutputReporter receives stdout and stderr chunks produced by tests
type OutputReporter interface {
	OnStdOut(chunk string, t *suite.Test) error
	OnStdErr(chunk string, t *suite.Test) error
}

// Named is implemented by reporters that want a readable name in logs
type Named interface {
	Name() string
}

// Env carries what built-in and custom reporters need from the host
type Env struct {
	Stdout    io.Writer
	Stderr    io.Writer
	NoColor   bool
	OutputDir string
}

// Constructor builds a reporter from its opaque configuration argument
type Constructor func(arg any, env Env) (Reporter, error)

// Base implements every hook as a no-op
type Base struct{}

func (Base) OnBegin(*config.FullConfig, *suite.Suite) error { return nil }
func (Base) OnTestBegin(*suite.Test) error                  { return nil }
func (Base) OnTestEnd(*suite.Test, *suite.TestResult) error { return nil }
func (Base) OnEnd(*suite.FullResult) error                  { return nil }
func (Base) OnError(*suite.TestError) error                 { return nil }

// PrintsToStdio reports whether r writes to the console, defaulting to true
func PrintsToStdio(r Reporter) bool {
	if p, ok := r.(StdioPrinter); ok {
		return p.PrintsToStdio()
	}
	return true
}

// NameOf returns a reporter's name for logs and errors
func NameOf(r Reporter) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}
