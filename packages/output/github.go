package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// GitHubReporter emits GitHub Actions workflow commands so failures show up
// as annotations on the pull request
type GitHubReporter struct {
	reporter.Base
	out     io.Writer
	config  *config.FullConfig
	passed  int
	failed  int
	flaky   int
	skipped int
}

// NewGitHubReporter creates a GitHub Actions reporter
func NewGitHubReporter(env reporter.Env) *GitHubReporter {
	out := env.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &GitHubReporter{out: out}
}

// GitHubFromArg builds a GitHub Actions reporter; the argument is ignored
func GitHubFromArg(_ any, env reporter.Env) (reporter.Reporter, error) {
	return NewGitHubReporter(env), nil
}

func (r *GitHubReporter) Name() string {
	return "github"
}

func (r *GitHubReporter) OnBegin(cfg *config.FullConfig, _ *suite.Suite) error {
	r.config = cfg
	return nil
}

func (r *GitHubReporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	switch {
	case result.Status == suite.StatusSkipped:
		r.skipped++
		return nil
	case result.Status == suite.StatusPassed && result.Retry > 0:
		r.flaky++
		return r.command("warning", t.Location, testTitle(r.config, t, " › "), "Flaky test passed on retry")
	case result.Status == suite.StatusPassed:
		r.passed++
		return nil
	}

	r.failed++
	title := testTitle(r.config, t, " › ")
	if len(result.Errors) == 0 {
		return r.command("error", t.Location, title, fmt.Sprintf("Test %s", result.Status))
	}
	for _, e := range result.Errors {
		loc := t.Location
		if e.Location != nil {
			loc = *e.Location
		}
		if err := r.command("error", loc, title, formatError(r.config, e, newPalette(true))); err != nil {
			return err
		}
	}
	return nil
}

func (r *GitHubReporter) OnError(err *suite.TestError) error {
	if err.Location != nil {
		return r.command("error", *err.Location, "Error", formatError(r.config, err, newPalette(true)))
	}
	_, werr := fmt.Fprintf(r.out, "::error::%s\n", escapeData(formatError(r.config, err, newPalette(true))))
	return werr
}

func (r *GitHubReporter) OnEnd(*suite.FullResult) error {
	summary := []string{fmt.Sprintf("%d passed", r.passed)}
	if r.failed > 0 {
		summary = append(summary, fmt.Sprintf("%d failed", r.failed))
	}
	if r.flaky > 0 {
		summary = append(summary, fmt.Sprintf("%d flaky", r.flaky))
	}
	if r.skipped > 0 {
		summary = append(summary, fmt.Sprintf("%d skipped", r.skipped))
	}
	_, err := fmt.Fprintf(r.out, "::notice title=%s::%s\n", escapeProperty("Test results"), escapeData(strings.Join(summary, ", ")))
	return err
}

func (r *GitHubReporter) command(kind string, loc suite.Location, title, message string) error {
	_, err := fmt.Fprintf(r.out, "::%s file=%s,line=%d,col=%d,title=%s::%s\n",
		kind,
		escapeProperty(relativePath(rootDir(r.config), loc.File)),
		loc.Line,
		loc.Column,
		escapeProperty(title),
		escapeData(message),
	)
	return err
}

// escapeData escapes a workflow command message
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

// escapeProperty escapes a workflow command property value
func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
