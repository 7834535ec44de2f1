package output

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// DotLineWidth is the number of glyphs printed before wrapping
const DotLineWidth = 80

// DotReporter prints a single character per finished test
type DotReporter struct {
	terminal
	column int
}

// NewDotReporter creates a dot reporter
func NewDotReporter(env reporter.Env) *DotReporter {
	r := &DotReporter{terminal: newTerminal(env)}
	r.echoOutput = false
	return r
}

// DotFromArg builds a dot reporter; the argument is ignored
func DotFromArg(_ any, env reporter.Env) (reporter.Reporter, error) {
	return NewDotReporter(env), nil
}

func (r *DotReporter) Name() string {
	return "dot"
}

func (r *DotReporter) OnBegin(cfg *config.FullConfig, s *suite.Suite) error {
	r.begin(cfg, s)
	_, err := fmt.Fprintf(r.out, "\nRunning %s\n\n", plural(r.total, "test"))
	return err
}

func (r *DotReporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	r.record(t, result)

	if r.column == DotLineWidth {
		fmt.Fprintln(r.out)
		r.column = 0
	}
	r.column++

	var glyph string
	switch {
	case result.Status == suite.StatusSkipped:
		glyph = r.colors.yellow.Sprint("°")
	case result.Status == suite.StatusTimedOut:
		glyph = r.colors.red.Sprint("T")
	case result.Status == suite.StatusPassed && result.Retry > 0:
		glyph = r.colors.yellow.Sprint("±")
	case result.Status == suite.StatusPassed:
		glyph = r.colors.green.Sprint("·")
	default:
		glyph = r.colors.red.Sprint("F")
	}
	_, err := fmt.Fprint(r.out, glyph)
	return err
}

func (r *DotReporter) OnEnd(result *suite.FullResult) error {
	if r.column > 0 {
		fmt.Fprintln(r.out)
	}
	r.epilogue(result, true)
	return nil
}
