package output

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// DefaultHTMLFolder is the report folder name used when none is configured
const DefaultHTMLFolder = "hitreport-report"

// HTMLOutput represents the complete HTML output structure
type HTMLOutput struct {
	Version        string
	RunID          string
	Summary        HTMLSummary
	Tests          []HTMLTest
	Errors         []string
	Duration       string
	Time           string
	PassedPercent  float64
	FailedPercent  float64
	SkippedPercent float64
}

// HTMLSummary represents the test summary for HTML output
type HTMLSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// HTMLTest represents a single test result for HTML output
type HTMLTest struct {
	Title       string
	Project     string
	Location    string
	Status      string
	StatusClass string
	Duration    string
	Errors      []string
	Stdout      string
}

// HTMLOptions configures the HTML reporter
type HTMLOptions struct {
	OutputFolder string `json:"outputFolder"`
}

// HTMLReporter writes a self-contained HTML page at the end of the run
type HTMLReporter struct {
	reporter.Base
	env     reporter.Env
	opts    HTMLOptions
	config  *config.FullConfig
	results []HTMLTest
	errors  []string
}

// NewHTMLReporter creates a new HTML reporter
func NewHTMLReporter(env reporter.Env, opts HTMLOptions) *HTMLReporter {
	return &HTMLReporter{
		env:     env,
		opts:    opts,
		results: make([]HTMLTest, 0),
	}
}

// HTMLFromArg builds an HTML reporter from {"outputFolder": string}
func HTMLFromArg(arg any, env reporter.Env) (reporter.Reporter, error) {
	parsed, err := parseArg(arg)
	if err != nil {
		return nil, err
	}
	return NewHTMLReporter(env, HTMLOptions{OutputFolder: parsed.Get("outputFolder").String()}), nil
}

func (r *HTMLReporter) Name() string {
	return "html"
}

// PrintsToStdio is always false, the report only goes to disk
func (r *HTMLReporter) PrintsToStdio() bool {
	return false
}

// ReportPath returns the file the report is written to
func (r *HTMLReporter) ReportPath() string {
	base := r.env.OutputDir
	if base == "" {
		base = rootDir(r.config)
	}
	folder := r.opts.OutputFolder
	if folder == "" {
		folder = DefaultHTMLFolder
	}
	return filepath.Join(resolvePath(base, folder), "index.html")
}

func (r *HTMLReporter) OnBegin(cfg *config.FullConfig, _ *suite.Suite) error {
	r.config = cfg
	return nil
}

// OnTestEnd accumulates a test result
func (r *HTMLReporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	test := HTMLTest{
		Title:    strings.Join(t.Titles(), " › "),
		Project:  t.ProjectName(),
		Location: formatLocation(r.config, t.Location),
		Status:   string(result.Status),
		Duration: formatDuration(result.Duration),
		Stdout:   strings.Join(result.Stdout, ""),
	}

	// Set status class for CSS
	switch result.Status {
	case suite.StatusPassed:
		test.StatusClass = "passed"
	case suite.StatusSkipped:
		test.StatusClass = "skipped"
	default:
		test.StatusClass = "failed"
	}

	for _, e := range result.Errors {
		test.Errors = append(test.Errors, formatError(r.config, e, newPalette(true)))
	}

	r.results = append(r.results, test)
	return nil
}

func (r *HTMLReporter) OnError(err *suite.TestError) error {
	r.errors = append(r.errors, formatError(r.config, err, newPalette(true)))
	return nil
}

// OnEnd writes the accumulated HTML output
func (r *HTMLReporter) OnEnd(result *suite.FullResult) error {
	var passed, failed, skipped int
	for _, t := range r.results {
		switch t.StatusClass {
		case "passed":
			passed++
		case "skipped":
			skipped++
		default:
			failed++
		}
	}

	total := len(r.results)
	var passedPct, failedPct, skippedPct float64
	if total > 0 {
		passedPct = float64(passed) / float64(total) * 100
		failedPct = float64(failed) / float64(total) * 100
		skippedPct = float64(skipped) / float64(total) * 100
	}

	output := HTMLOutput{
		Summary: HTMLSummary{
			Total:   total,
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
		},
		Tests:          r.results,
		Errors:         r.errors,
		Duration:       formatDuration(result.Duration),
		Time:           result.StartTime.Format("2006-01-02 15:04:05"),
		PassedPercent:  passedPct,
		FailedPercent:  failedPct,
		SkippedPercent: skippedPct,
	}
	if r.config != nil {
		output.Version = r.config.Version
		output.RunID = r.config.RunID
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	path := r.ReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create report folder: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report: %w", err)
	}
	defer f.Close()

	return tmpl.Execute(f, output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hitreport</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; color: #24292f; }
.bar { display: flex; height: 8px; border-radius: 4px; overflow: hidden; margin: 1rem 0; }
.bar .passed { background: #2da44e; } .bar .failed { background: #cf222e; } .bar .skipped { background: #bf8700; }
.test { border: 1px solid #d0d7de; border-radius: 6px; margin: .5rem 0; padding: .5rem 1rem; }
.test.failed { border-left: 4px solid #cf222e; } .test.passed { border-left: 4px solid #2da44e; } .test.skipped { border-left: 4px solid #bf8700; }
.meta { color: #57606a; font-size: .85rem; }
pre { background: #f6f8fa; padding: .5rem; overflow-x: auto; }
</style>
</head>
<body>
<h1>Test report</h1>
<p class="meta">{{.Time}} · {{.Duration}}{{if .Version}} · v{{.Version}}{{end}}{{if .RunID}} · run {{.RunID}}{{end}}</p>
<p>{{.Summary.Total}} total · {{.Summary.Passed}} passed · {{.Summary.Failed}} failed · {{.Summary.Skipped}} skipped</p>
<div class="bar">
<div class="passed" style="width: {{printf "%.1f" .PassedPercent}}%"></div>
<div class="failed" style="width: {{printf "%.1f" .FailedPercent}}%"></div>
<div class="skipped" style="width: {{printf "%.1f" .SkippedPercent}}%"></div>
</div>
{{range .Errors}}<pre class="error">{{.}}</pre>
{{end}}
{{range .Tests}}<div class="test {{.StatusClass}}">
<div><strong>{{.Title}}</strong>{{if .Project}} <span class="meta">[{{.Project}}]</span>{{end}}</div>
<div class="meta">{{.Location}} · {{.Status}} · {{.Duration}}</div>
{{range .Errors}}<pre>{{.}}</pre>{{end}}
{{if .Stdout}}<pre class="stdout">{{.Stdout}}</pre>{{end}}
</div>
{{end}}
</body>
</html>
`
