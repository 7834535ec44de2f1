package output

import (
	"encoding/json"
	"os"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Config JSONConfig         `json:"config"`
	Stats  JSONStats          `json:"stats"`
	Tests  []JSONTest         `json:"tests"`
	Errors []*suite.TestError `json:"errors"`
}

// JSONConfig identifies the run
type JSONConfig struct {
	RootDir string `json:"rootDir"`
	Version string `json:"version,omitempty"`
	RunID   string `json:"runId,omitempty"`
}

// JSONStats represents the run summary
type JSONStats struct {
	StartTime  string  `json:"startTime"`
	Duration   float64 `json:"duration"`
	Status     string  `json:"status"`
	Expected   int     `json:"expected"`
	Unexpected int     `json:"unexpected"`
	Flaky      int     `json:"flaky"`
	Skipped    int     `json:"skipped"`
	P50        float64 `json:"p50"`
	P95        float64 `json:"p95"`
	P99        float64 `json:"p99"`
	Max        float64 `json:"max"`
}

// JSONTest represents a single test result
type JSONTest struct {
	Title     string             `json:"title"`
	TitlePath []string           `json:"titlePath"`
	Project   string             `json:"project,omitempty"`
	File      string             `json:"file"`
	Line      int                `json:"line"`
	Column    int                `json:"column"`
	Status    string             `json:"status"`
	Duration  float64            `json:"duration"`
	Retry     int                `json:"retry,omitempty"`
	Errors    []*suite.TestError `json:"errors,omitempty"`
	Stdout    []string           `json:"stdout,omitempty"`
	Stderr    []string           `json:"stderr,omitempty"`
}

// maxRecordedMs caps durations fed to the histogram (1h)
const maxRecordedMs = 3_600_000

// JSONOptions configures the JSON reporter
type JSONOptions struct {
	// OutputFile receives the report instead of stdout
	OutputFile string `json:"outputFile"`
}

// JSONReporter accumulates results and writes one JSON document at the end
type JSONReporter struct {
	reporter.Base
	env       reporter.Env
	opts      JSONOptions
	config    *config.FullConfig
	tests     []JSONTest
	errors    []*suite.TestError
	histogram *hdrhistogram.Histogram
}

// NewJSONReporter creates a JSON reporter
func NewJSONReporter(env reporter.Env, opts JSONOptions) *JSONReporter {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	return &JSONReporter{
		env:       env,
		opts:      opts,
		histogram: hdrhistogram.New(1, maxRecordedMs, 3),
		tests:     make([]JSONTest, 0),
		errors:    make([]*suite.TestError, 0),
	}
}

// JSONFromArg builds a JSON reporter from {"outputFile": string}
func JSONFromArg(arg any, env reporter.Env) (reporter.Reporter, error) {
	parsed, err := parseArg(arg)
	if err != nil {
		return nil, err
	}
	return NewJSONReporter(env, JSONOptions{OutputFile: parsed.Get("outputFile").String()}), nil
}

func (r *JSONReporter) Name() string {
	return "json"
}

// PrintsToStdio is false when the report goes to a file
func (r *JSONReporter) PrintsToStdio() bool {
	return r.opts.OutputFile == ""
}

func (r *JSONReporter) OnBegin(cfg *config.FullConfig, _ *suite.Suite) error {
	r.config = cfg
	return nil
}

func (r *JSONReporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	r.tests = append(r.tests, JSONTest{
		Title:     t.Title,
		TitlePath: t.Titles(),
		Project:   t.ProjectName(),
		File:      relativePath(rootDir(r.config), t.Location.File),
		Line:      t.Location.Line,
		Column:    t.Location.Column,
		Status:    string(result.Status),
		Duration:  float64(result.Duration.Milliseconds()),
		Retry:     result.Retry,
		Errors:    result.Errors,
		Stdout:    result.Stdout,
		Stderr:    result.Stderr,
	})

	if result.Status != suite.StatusSkipped {
		ms := result.Duration.Milliseconds()
		if ms < 1 {
			ms = 1
		}
		if ms > maxRecordedMs {
			ms = maxRecordedMs
		}
		_ = r.histogram.RecordValue(ms)
	}
	return nil
}

func (r *JSONReporter) OnError(err *suite.TestError) error {
	r.errors = append(r.errors, err)
	return nil
}

// OnEnd writes the accumulated JSON output
func (r *JSONReporter) OnEnd(result *suite.FullResult) error {
	stats := JSONStats{
		StartTime: result.StartTime.Format(time.RFC3339),
		Duration:  float64(result.Duration.Milliseconds()),
		Status:    string(result.Status),
	}
	for _, t := range r.tests {
		switch {
		case t.Status == string(suite.StatusSkipped):
			stats.Skipped++
		case t.Status == string(suite.StatusPassed) && t.Retry > 0:
			stats.Flaky++
		case t.Status == string(suite.StatusPassed):
			stats.Expected++
		default:
			stats.Unexpected++
		}
	}
	if r.histogram.TotalCount() > 0 {
		stats.P50 = float64(r.histogram.ValueAtQuantile(50))
		stats.P95 = float64(r.histogram.ValueAtQuantile(95))
		stats.P99 = float64(r.histogram.ValueAtQuantile(99))
		stats.Max = float64(r.histogram.Max())
	}

	output := JSONOutput{
		Stats:  stats,
		Tests:  r.tests,
		Errors: r.errors,
	}
	if r.config != nil {
		output.Config = JSONConfig{RootDir: r.config.RootDir, Version: r.config.Version, RunID: r.config.RunID}
	}

	w, closeFn, err := openOutput(resolvePath(rootDir(r.config), r.opts.OutputFile), r.env.Stdout)
	if err != nil {
		return err
	}
	defer closeFn()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
