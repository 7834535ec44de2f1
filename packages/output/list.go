package output

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// ListReporter prints one line per finished test
type ListReporter struct {
	terminal
	index int
}

// NewListReporter creates a list reporter
func NewListReporter(env reporter.Env) *ListReporter {
	return &ListReporter{terminal: newTerminal(env)}
}

// ListFromArg builds a list reporter; the argument is ignored
func ListFromArg(_ any, env reporter.Env) (reporter.Reporter, error) {
	return NewListReporter(env), nil
}

func (r *ListReporter) Name() string {
	return "list"
}

func (r *ListReporter) OnBegin(cfg *config.FullConfig, s *suite.Suite) error {
	r.begin(cfg, s)
	_, err := fmt.Fprintf(r.out, "\nRunning %s\n\n", plural(r.total, "test"))
	return err
}

func (r *ListReporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	r.record(t, result)
	r.index++

	symbol := r.colors.green.Sprint("✓")
	switch result.Status {
	case suite.StatusSkipped:
		symbol = r.colors.yellow.Sprint("-")
	case suite.StatusFailed, suite.StatusTimedOut, suite.StatusInterrupted:
		symbol = r.colors.red.Sprint("✘")
	}

	title := testTitle(r.config, t, " › ")
	if result.Retry > 0 {
		title += r.colors.yellow.Sprintf(" (retry #%d)", result.Retry)
	}
	_, err := fmt.Fprintf(r.out, "  %s %3d %s %s\n", symbol, r.index, title,
		r.colors.cyan.Sprintf("(%s)", formatDuration(result.Duration)))
	return err
}

func (r *ListReporter) OnEnd(result *suite.FullResult) error {
	r.epilogue(result, true)
	return nil
}
