package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

type failure struct {
	test   *suite.Test
	result *suite.TestResult
}

// terminal is the shared state of the console reporters: counters, collected
// failures and the summary printed at the end of the run
type terminal struct {
	reporter.Base
	out    io.Writer
	errOut io.Writer
	colors palette
	config *config.FullConfig

	total    int
	passed   int
	failed   int
	flaky    int
	skipped  int
	failures []failure
	start    time.Time

	echoOutput bool
}

func newTerminal(env reporter.Env) terminal {
	t := terminal{
		out:        env.Stdout,
		errOut:     env.Stderr,
		colors:     newPalette(env.NoColor),
		echoOutput: true,
	}
	if t.out == nil {
		t.out = os.Stdout
	}
	if t.errOut == nil {
		t.errOut = os.Stderr
	}
	return t
}

func (t *terminal) begin(cfg *config.FullConfig, s *suite.Suite) {
	t.config = cfg
	t.total = len(s.AllTests())
	t.start = time.Now()
}

func (t *terminal) record(test *suite.Test, result *suite.TestResult) {
	switch {
	case result.Status == suite.StatusSkipped:
		t.skipped++
	case result.Status == suite.StatusPassed && result.Retry > 0:
		t.flaky++
	case result.Status == suite.StatusPassed:
		t.passed++
	default:
		t.failed++
		t.failures = append(t.failures, failure{test: test, result: result})
	}
}

func (t *terminal) finished() int {
	return t.passed + t.failed + t.flaky + t.skipped
}

func (t *terminal) OnError(err *suite.TestError) error {
	_, werr := fmt.Fprintf(t.errOut, "\n%s\n", formatError(t.config, err, t.colors))
	return werr
}

func (t *terminal) OnStdOut(chunk string, _ *suite.Test) error {
	return t.echo(t.out, chunk)
}

func (t *terminal) OnStdErr(chunk string, _ *suite.Test) error {
	return t.echo(t.errOut, chunk)
}

func (t *terminal) echo(w io.Writer, chunk string) error {
	if !t.echoOutput {
		return nil
	}
	if !strings.HasSuffix(chunk, "\n") {
		chunk += "\n"
	}
	_, err := io.WriteString(w, chunk)
	return err
}

// printFailure writes the numbered details of one failed test
func (t *terminal) printFailure(n int, f failure) {
	header := fmt.Sprintf("  %d) %s", n, testTitle(t.config, f.test, " › "))
	fmt.Fprintf(t.out, "\n%s\n", t.colors.red.Sprint(header))
	for _, e := range f.result.Errors {
		fmt.Fprintf(t.out, "\n%s\n", indent(formatError(t.config, e, t.colors), "    "))
	}
	if len(f.result.Errors) == 0 {
		fmt.Fprintf(t.out, "\n    Test %s\n", f.result.Status)
	}
}

// epilogue prints failure details (optional) and the run summary
func (t *terminal) epilogue(result *suite.FullResult, withFailures bool) {
	if withFailures {
		for i, f := range t.failures {
			t.printFailure(i+1, f)
		}
	}

	var parts []string
	if t.passed > 0 {
		parts = append(parts, t.colors.green.Sprintf("%d passed", t.passed))
	}
	if t.failed > 0 {
		parts = append(parts, t.colors.red.Sprintf("%d failed", t.failed))
	}
	if t.flaky > 0 {
		parts = append(parts, t.colors.yellow.Sprintf("%d flaky", t.flaky))
	}
	if t.skipped > 0 {
		parts = append(parts, t.colors.yellow.Sprintf("%d skipped", t.skipped))
	}
	if notRun := t.total - t.finished(); notRun > 0 {
		parts = append(parts, t.colors.dim.Sprintf("%d did not run", notRun))
	}
	parts = append(parts, fmt.Sprintf("%d total", t.total))

	duration := result.Duration
	if duration == 0 && !t.start.IsZero() {
		duration = time.Since(t.start)
	}

	fmt.Fprintf(t.out, "\n")
	fmt.Fprintf(t.out, "Tests: %s\n", strings.Join(parts, ", "))
	fmt.Fprintf(t.out, "Time:  %s\n", formatDuration(duration))
}
