package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

// LineRefreshInterval bounds how often the status line is redrawn on a terminal
const LineRefreshInterval = 100 * time.Millisecond

// LineOptions configures the line reporter
type LineOptions struct {
	// OmitFailures skips failure details; used when another reporter
	// already surfaces them
	OmitFailures bool `json:"omitFailures"`
}

// LineReporter prints "[n/total] title" as tests finish. On a terminal the
// same line is rewritten in place.
type LineReporter struct {
	terminal
	opts     LineOptions
	tty      bool
	refresh  rate.Sometimes
	lastLine string
}

// NewLineReporter creates a line reporter
func NewLineReporter(env reporter.Env, opts LineOptions) *LineReporter {
	r := &LineReporter{
		terminal: newTerminal(env),
		opts:     opts,
		refresh:  rate.Sometimes{Interval: LineRefreshInterval},
	}
	r.tty = isTerminal(r.out)
	return r
}

// LineFromArg builds a line reporter from {"omitFailures": bool}
func LineFromArg(arg any, env reporter.Env) (reporter.Reporter, error) {
	parsed, err := parseArg(arg)
	if err != nil {
		return nil, err
	}
	return NewLineReporter(env, LineOptions{
		OmitFailures: parsed.Get("omitFailures").Bool(),
	}), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (r *LineReporter) Name() string {
	return "line"
}

// Options returns the options the reporter was built with
func (r *LineReporter) Options() LineOptions {
	return r.opts
}

func (r *LineReporter) OnBegin(cfg *config.FullConfig, s *suite.Suite) error {
	r.begin(cfg, s)
	_, err := fmt.Fprintf(r.out, "\nRunning %s\n\n", plural(r.total, "test"))
	return err
}

func (r *LineReporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	r.record(t, result)
	r.lastLine = fmt.Sprintf("[%d/%d] %s", r.finished(), r.total, testTitle(r.config, t, " › "))

	failed := !result.Status.OK()
	if !r.tty {
		fmt.Fprintln(r.out, r.lastLine)
	} else if failed {
		r.redraw()
	} else {
		r.refresh.Do(r.redraw)
	}

	if failed && !r.opts.OmitFailures {
		if r.tty {
			fmt.Fprintln(r.out)
		}
		r.printFailure(len(r.failures), r.failures[len(r.failures)-1])
	}
	return nil
}

func (r *LineReporter) redraw() {
	fmt.Fprintf(r.out, "\r\x1b[2K%s", r.lastLine)
}

func (r *LineReporter) OnEnd(result *suite.FullResult) error {
	if r.tty && r.lastLine != "" {
		r.redraw()
		fmt.Fprintln(r.out)
	}
	r.epilogue(result, false)
	return nil
}
