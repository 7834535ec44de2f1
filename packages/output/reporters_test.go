package output

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedResult() *suite.TestResult {
	return &suite.TestResult{
		Status:   suite.StatusFailed,
		Duration: 20 * time.Millisecond,
		Errors: []*suite.TestError{{
			Message:  "expected 1 to be 2",
			Location: &suite.Location{File: "/repo/tests/b.spec.ts", Line: 5, Column: 9},
		}},
	}
}

func passedResult() *suite.TestResult {
	return &suite.TestResult{Status: suite.StatusPassed, Duration: 12 * time.Millisecond}
}

// drive sends a pass for the first test and a failure for the second
func drive(t *testing.T, r reporter.Reporter) {
	t.Helper()
	cfg, root, tests := twoTestSuite()
	require.NoError(t, r.OnBegin(cfg, root))
	for i, test := range tests {
		require.NoError(t, r.OnTestBegin(test))
		result := passedResult()
		if i == 1 {
			result = failedResult()
		}
		require.NoError(t, r.OnTestEnd(test, result))
	}
	require.NoError(t, r.OnEnd(&suite.FullResult{
		Status:    suite.StatusFailed,
		StartTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	}))
}

func TestListReporter(t *testing.T) {
	env, stdout, _ := newTestEnv()
	drive(t, NewListReporter(env))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "\nRunning 2 tests\n\n"))
	assert.Contains(t, out, "  ✓   1 [chromium] › tests/a.spec.ts:10:3 › suite › works (12ms)\n")
	assert.Contains(t, out, "  ✘   2 tests/b.spec.ts:4:1 › loads (20ms)\n")
	assert.Contains(t, out, "  1) tests/b.spec.ts:4:1 › loads\n")
	assert.Contains(t, out, "    expected 1 to be 2\n\n        at tests/b.spec.ts:5:9\n")
	assert.Contains(t, out, "Tests: 1 passed, 1 failed, 2 total\n")
	assert.Contains(t, out, "Time:  1.5s\n")
}

func TestListReporter_RetryAndSkip(t *testing.T) {
	env, stdout, _ := newTestEnv()
	cfg, root, tests := twoTestSuite()

	r := NewListReporter(env)
	require.NoError(t, r.OnBegin(cfg, root))
	require.NoError(t, r.OnTestEnd(tests[0], &suite.TestResult{Status: suite.StatusPassed, Retry: 1}))
	require.NoError(t, r.OnTestEnd(tests[1], &suite.TestResult{Status: suite.StatusSkipped}))
	require.NoError(t, r.OnEnd(&suite.FullResult{Status: suite.StatusPassed}))

	out := stdout.String()
	assert.Contains(t, out, "works (retry #1) (0ms)")
	assert.Contains(t, out, "  -   2 tests/b.spec.ts:4:1 › loads")
	assert.Contains(t, out, "Tests: 1 flaky, 1 skipped, 2 total\n")
}

func TestListReporter_EchoesOutput(t *testing.T) {
	env, stdout, stderr := newTestEnv()
	_, _, tests := twoTestSuite()

	r := NewListReporter(env)
	require.NoError(t, r.OnStdOut("hello", tests[0]))
	require.NoError(t, r.OnStdErr("oops\n", tests[0]))

	assert.Equal(t, "hello\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestLineReporter_NonTerminal(t *testing.T) {
	env, stdout, _ := newTestEnv()
	drive(t, NewLineReporter(env, LineOptions{}))

	out := stdout.String()
	assert.Contains(t, out, "[1/2] [chromium] › tests/a.spec.ts:10:3 › suite › works\n")
	assert.Contains(t, out, "[2/2] tests/b.spec.ts:4:1 › loads\n")
	assert.Contains(t, out, "  1) tests/b.spec.ts:4:1 › loads\n")
	assert.Contains(t, out, "Tests: 1 passed, 1 failed, 2 total\n")
	assert.NotContains(t, out, "\x1b[2K")
}

func TestLineReporter_OmitFailures(t *testing.T) {
	env, stdout, _ := newTestEnv()
	drive(t, NewLineReporter(env, LineOptions{OmitFailures: true}))

	out := stdout.String()
	assert.Contains(t, out, "[2/2] tests/b.spec.ts:4:1 › loads\n")
	assert.NotContains(t, out, "expected 1 to be 2")
	assert.Contains(t, out, "Tests: 1 passed, 1 failed, 2 total\n")
}

func TestLineFromArg(t *testing.T) {
	env, _, _ := newTestEnv()

	tests := []struct {
		name string
		arg  any
		want bool
	}{
		{"nil", nil, false},
		{"map", map[string]any{"omitFailures": true}, true},
		{"options struct", LineOptions{OmitFailures: true}, true},
		{"unrelated keys", map[string]any{"other": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LineFromArg(tt.arg, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.(*LineReporter).Options().OmitFailures)
		})
	}
}

func TestLineFromArg_Invalid(t *testing.T) {
	env, _, _ := newTestEnv()
	_, err := LineFromArg(func() {}, env)
	assert.Error(t, err)
}

func TestDotReporter(t *testing.T) {
	env, stdout, _ := newTestEnv()
	drive(t, NewDotReporter(env))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "\nRunning 2 tests\n\n·F\n"))
	assert.Contains(t, out, "  1) tests/b.spec.ts:4:1 › loads\n")
	assert.Contains(t, out, "Tests: 1 passed, 1 failed, 2 total\n")
}

func TestDotReporter_Glyphs(t *testing.T) {
	env, stdout, _ := newTestEnv()
	_, _, tests := twoTestSuite()

	r := NewDotReporter(env)
	for _, result := range []*suite.TestResult{
		{Status: suite.StatusPassed},
		{Status: suite.StatusPassed, Retry: 2},
		{Status: suite.StatusSkipped},
		{Status: suite.StatusTimedOut},
		{Status: suite.StatusFailed},
		{Status: suite.StatusInterrupted},
	} {
		require.NoError(t, r.OnTestEnd(tests[0], result))
	}

	assert.Equal(t, "·±°TFF", stdout.String())
}

func TestDotReporter_Wraps(t *testing.T) {
	env, stdout, _ := newTestEnv()
	_, _, tests := twoTestSuite()

	r := NewDotReporter(env)
	for i := 0; i < DotLineWidth+3; i++ {
		require.NoError(t, r.OnTestEnd(tests[0], passedResult()))
	}

	lines := strings.Split(stdout.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, DotLineWidth, len([]rune(lines[0])))
	assert.Equal(t, "···", lines[1])
}

func TestDotReporter_DoesNotEchoOutput(t *testing.T) {
	env, stdout, _ := newTestEnv()
	_, _, tests := twoTestSuite()

	r := NewDotReporter(env)
	require.NoError(t, r.OnStdOut("noise", tests[0]))
	assert.Empty(t, stdout.String())
}

func TestJSONReporter_Stdout(t *testing.T) {
	env, stdout, _ := newTestEnv()
	r := NewJSONReporter(env, JSONOptions{})
	assert.True(t, reporter.PrintsToStdio(r))

	cfg, root, tests := twoTestSuite()
	require.NoError(t, r.OnBegin(cfg, root))
	require.NoError(t, r.OnTestEnd(tests[0], &suite.TestResult{
		Status:   suite.StatusPassed,
		Duration: 12 * time.Millisecond,
		Stdout:   []string{"log line\n"},
	}))
	require.NoError(t, r.OnTestEnd(tests[1], failedResult()))
	require.NoError(t, r.OnEnd(&suite.FullResult{Status: suite.StatusFailed, Duration: 1500 * time.Millisecond}))

	var output JSONOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &output))

	assert.Equal(t, "/repo", output.Config.RootDir)
	assert.Equal(t, "run-1", output.Config.RunID)
	assert.Equal(t, "failed", output.Stats.Status)
	assert.Equal(t, 1, output.Stats.Expected)
	assert.Equal(t, 1, output.Stats.Unexpected)
	assert.Equal(t, float64(1500), output.Stats.Duration)
	assert.InDelta(t, 20, output.Stats.Max, 1)
	assert.InDelta(t, 12, output.Stats.P50, 1)

	require.Len(t, output.Tests, 2)
	assert.Equal(t, "works", output.Tests[0].Title)
	assert.Equal(t, []string{"suite", "works"}, output.Tests[0].TitlePath)
	assert.Equal(t, "chromium", output.Tests[0].Project)
	assert.Equal(t, "tests/a.spec.ts", output.Tests[0].File)
	assert.Equal(t, []string{"log line\n"}, output.Tests[0].Stdout)
	assert.Equal(t, "failed", output.Tests[1].Status)
	require.Len(t, output.Tests[1].Errors, 1)
	assert.Equal(t, "expected 1 to be 2", output.Tests[1].Errors[0].Message)
}

func TestJSONReporter_OutputFile(t *testing.T) {
	env, stdout, _ := newTestEnv()
	path := filepath.Join(t.TempDir(), "nested", "report.json")

	r, err := JSONFromArg(map[string]any{"outputFile": path}, env)
	require.NoError(t, err)
	assert.False(t, reporter.PrintsToStdio(r))

	require.NoError(t, r.OnError(&suite.TestError{Message: "global setup failed"}))
	drive(t, r)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var output JSONOutput
	require.NoError(t, json.Unmarshal(data, &output))
	assert.Len(t, output.Tests, 2)
	require.Len(t, output.Errors, 1)
	assert.Equal(t, "global setup failed", output.Errors[0].Message)
}

func TestJUnitReporter(t *testing.T) {
	env, stdout, _ := newTestEnv()
	r := NewJUnitReporter(env, JUnitOptions{})
	drive(t, r)

	out := stdout.String()
	require.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"))

	var root JUnitTestSuites
	require.NoError(t, xml.Unmarshal([]byte(out), &root))

	assert.Equal(t, "hitreport", root.Name)
	assert.Equal(t, 2, root.Tests)
	assert.Equal(t, 1, root.Failures)
	require.Len(t, root.TestSuites, 2)

	first := root.TestSuites[0]
	assert.Equal(t, "tests/a.spec.ts", first.Name)
	assert.Equal(t, "chromium", first.Hostname)
	require.Len(t, first.TestCases, 1)
	assert.Equal(t, "suite › works", first.TestCases[0].Name)
	assert.Nil(t, first.TestCases[0].Failure)

	second := root.TestSuites[1]
	require.Len(t, second.TestCases, 1)
	require.NotNil(t, second.TestCases[0].Failure)
	assert.Equal(t, "failed", second.TestCases[0].Failure.Type)
	assert.Contains(t, second.TestCases[0].Failure.Content, "expected 1 to be 2")
}

func TestJUnitReporter_OutputFile(t *testing.T) {
	env, stdout, _ := newTestEnv()
	dir := t.TempDir()

	r, err := JUnitFromArg(map[string]any{"outputFile": "results.xml", "suiteName": "e2e"}, env)
	require.NoError(t, err)
	assert.False(t, reporter.PrintsToStdio(r))

	cfg, root, tests := twoTestSuite()
	cfg.RootDir = dir
	require.NoError(t, r.OnBegin(cfg, root))
	require.NoError(t, r.OnTestEnd(tests[0], &suite.TestResult{Status: suite.StatusSkipped}))
	require.NoError(t, r.OnEnd(&suite.FullResult{Status: suite.StatusPassed}))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(filepath.Join(dir, "results.xml"))
	require.NoError(t, err)

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Equal(t, "e2e", parsed.Name)
	assert.Equal(t, 1, parsed.Skipped)
}

func TestGitHubReporter(t *testing.T) {
	env, stdout, _ := newTestEnv()
	drive(t, NewGitHubReporter(env))

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"::error file=tests/b.spec.ts,line=5,col=9,title=tests/b.spec.ts%3A4%3A1 › loads::expected 1 to be 2%0A%0A    at tests/b.spec.ts:5:9",
		lines[0])
	assert.Equal(t, "::notice title=Test results::1 passed, 1 failed", lines[1])
}

func TestGitHubReporter_FlakyAndGlobalError(t *testing.T) {
	env, stdout, _ := newTestEnv()
	cfg, root, tests := twoTestSuite()

	r := NewGitHubReporter(env)
	require.NoError(t, r.OnBegin(cfg, root))
	require.NoError(t, r.OnTestEnd(tests[1], &suite.TestResult{Status: suite.StatusPassed, Retry: 1}))
	require.NoError(t, r.OnError(&suite.TestError{Message: "100% broken"}))

	out := stdout.String()
	assert.Contains(t, out, "::warning file=tests/b.spec.ts,line=4,col=1,")
	assert.Contains(t, out, "::error::100%25 broken\n")
}

func TestEscapeProperty(t *testing.T) {
	assert.Equal(t, "a%3Ab%2Cc%0Ad%25", escapeProperty("a:b,c\nd%"))
	assert.Equal(t, "a:b,c%0Ad%25", escapeData("a:b,c\nd%"))
}

func TestNullReporter(t *testing.T) {
	env, stdout, stderr := newTestEnv()
	r, err := NullFromArg(nil, env)
	require.NoError(t, err)

	drive(t, r)
	assert.False(t, reporter.PrintsToStdio(r))
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestHTMLReporter(t *testing.T) {
	env, stdout, _ := newTestEnv()
	env.OutputDir = t.TempDir()

	r, err := HTMLFromArg(nil, env)
	require.NoError(t, err)
	assert.False(t, reporter.PrintsToStdio(r))

	html := r.(*HTMLReporter)
	assert.Equal(t, filepath.Join(env.OutputDir, DefaultHTMLFolder, "index.html"), html.ReportPath())

	drive(t, r)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(html.ReportPath())
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "<title>hitreport</title>")
	assert.Contains(t, page, "2 total · 1 passed · 1 failed · 0 skipped")
	assert.Contains(t, page, "suite › works")
	assert.Contains(t, page, "expected 1 to be 2")
	assert.Contains(t, page, "run run-1")
}

func TestHTMLReporter_OutputFolder(t *testing.T) {
	env, _, _ := newTestEnv()
	dir := t.TempDir()

	r, err := HTMLFromArg(map[string]any{"outputFolder": filepath.Join(dir, "custom")}, env)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "index.html"), r.(*HTMLReporter).ReportPath())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{time.Second, "1.0s"},
		{2500 * time.Millisecond, "2.5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestRelativePath(t *testing.T) {
	assert.Equal(t, "tests/a.ts", relativePath("/repo", "/repo/tests/a.ts"))
	assert.Equal(t, "tests/a.ts", relativePath("/repo", "tests/a.ts"))
	assert.Equal(t, "/other/a.ts", relativePath("", "/other/a.ts"))
}
