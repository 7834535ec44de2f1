package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/hitreport/packages/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `
projects:
  - name: chromium
    files:
      - path: tests/a.spec.ts
        tests:
          - title: works
            describe: [suite]
            line: 10
            column: 3
            result:
              status: passed
              duration: 12ms
files:
  - path: tests/b.spec.ts
    tests:
      - title: loads
        line: 4
        column: 1
        result:
          status: failed
          duration: 20ms
          errors:
            - message: expected 1 to be 2
`

const passingManifest = `
files:
  - path: tests/ok.spec.ts
    tests:
      - title: ok
        line: 1
        column: 1
        result:
          status: passed
`

// execute runs the CLI with fresh flag values and a clean environment
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeEnv(t, nil, args...)
}

// executeEnv is execute with extra environment variables
func executeEnv(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()

	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "JENKINS_HOME", "BUILDKITE", "TF_BUILD", "CIRCLECI", "TRAVIS", "HITREPORT_REPORTER"} {
		t.Setenv(key, "")
	}
	for key, val := range env {
		t.Setenv(key, val)
	}

	reporterFlag = ""
	configFlag = ""
	noColorFlag = true
	outputDirFlag = ""
	logLevelFlag = "warn"
	logFormatFlag = "console"
	bailFlag = false
	watchFlag = false
	databaseFlag = ""
	limitFlag = 10
	runFlag = ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeManifest(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir, path
}

func TestListCommand(t *testing.T) {
	_, path := writeManifest(t, manifest)

	stdout, _, err := execute(t, "list", path, "--reporter", "dot")
	require.NoError(t, err)

	expected := "Listing tests:\n" +
		"  [chromium] › tests/a.spec.ts:10:3 › suite works\n" +
		"  tests/b.spec.ts:4:1 › loads\n" +
		"Total: 2 tests in 2 files\n"
	assert.Equal(t, expected, stdout)
}

func TestReplayCommand_Failure(t *testing.T) {
	_, path := writeManifest(t, manifest)

	stdout, _, err := execute(t, "replay", path, "--reporter", "list")
	require.Error(t, err)
	assert.Equal(t, ExitTestFailure, exitCode(err))

	assert.Contains(t, stdout, "Running 2 tests")
	assert.Contains(t, stdout, "1 passed, 1 failed, 2 total")
}

func TestReplayCommand_Success(t *testing.T) {
	_, path := writeManifest(t, passingManifest)

	_, _, err := execute(t, "replay", path)
	assert.NoError(t, err)
}

func TestReplayCommand_StdoutFileReporters(t *testing.T) {
	dir, path := writeManifest(t, manifest)

	stdout, _, err := execute(t, "replay", path, "--reporter", "json,junit", "--output-dir", dir)
	require.Error(t, err)
	assert.Equal(t, ExitTestFailure, exitCode(err))

	// json and junit print to stdout themselves, so no fallback is added
	assert.Contains(t, stdout, `"unexpected": 1`)
	assert.Contains(t, stdout, "<testsuites")
	assert.NotContains(t, stdout, "[1/2]")
}

func TestReplayCommand_ConfigFile(t *testing.T) {
	dir, path := writeManifest(t, manifest)
	config := `{"reporter": [["json", {"outputFile": "out/report.json"}], ["history"]], "outputDir": "reports"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitreport.json"), []byte(config), 0644))

	stdout, _, err := execute(t, "replay", path)
	assert.Equal(t, ExitTestFailure, exitCode(err))

	// neither reporter prints, so the line reporter is added without failure details
	assert.Contains(t, stdout, "[2/2] tests/b.spec.ts:4:1 › loads\n")
	assert.NotContains(t, stdout, "expected 1 to be 2")

	data, err := os.ReadFile(filepath.Join(dir, "out", "report.json"))
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Len(t, report["tests"], 2)

	_, err = os.Stat(filepath.Join(dir, "reports", history.DefaultDatabase))
	assert.NoError(t, err)
}

func TestReplayCommand_EnvironmentOverride(t *testing.T) {
	_, path := writeManifest(t, passingManifest)

	stdout, _, err := executeEnv(t, map[string]string{"HITREPORT_REPORTER": "github"}, "replay", path, "--reporter", "null")
	require.NoError(t, err)

	// null does not print; github does, so no fallback is inserted
	assert.Equal(t, "::notice title=Test results::1 passed\n", stdout)
}

func TestReplayCommand_DotEnv(t *testing.T) {
	dir, path := writeManifest(t, passingManifest)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HITREPORT_REPORTER=github\n"), 0644))

	stdout, _, err := execute(t, "replay", path, "--reporter", "null")
	require.NoError(t, err)
	assert.Equal(t, "::notice title=Test results::1 passed\n", stdout)
}

func TestReplayCommand_PrometheusReporter(t *testing.T) {
	dir, path := writeManifest(t, manifest)

	_, _, err := execute(t, "replay", path, "--reporter", "prometheus", "--output-dir", dir)
	assert.Equal(t, ExitTestFailure, exitCode(err))

	data, err := os.ReadFile(filepath.Join(dir, "hitreport.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `hitreport_tests_total{status="failed"} 1`)
}

func TestReplayCommand_CIFallback(t *testing.T) {
	_, path := writeManifest(t, passingManifest)

	stdout, _, err := executeEnv(t, map[string]string{"CI": "true"}, "replay", path, "--reporter", "null")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Running 1 test\n\n·\n")
}

func TestReplayCommand_UnknownReporter(t *testing.T) {
	_, path := writeManifest(t, manifest)

	stdout, _, err := execute(t, "replay", path, "--reporter", "list,nope")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Contains(t, err.Error(), `cannot load reporter "nope"`)
	assert.Empty(t, stdout)
}

func TestReplayCommand_InvalidConfig(t *testing.T) {
	dir, path := writeManifest(t, manifest)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hitreport.json"), []byte(`{"reporter": 42}`), 0644))

	_, _, err := execute(t, "replay", path)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestReplayCommand_MissingManifest(t *testing.T) {
	_, _, err := execute(t, "replay", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitManifestError, exitCode(err))
}

func TestHistoryCommand(t *testing.T) {
	dir, path := writeManifest(t, manifest)

	_, _, err := execute(t, "replay", path, "--reporter", "list,history")
	require.Error(t, err)

	// the history reporter defaulted to <rootDir>/hitreport-history.db
	stdout, _, err := execute(t, "history", "--database", filepath.Join(dir, history.DefaultDatabase))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "RUN")
	assert.Contains(t, lines[1], "failed")

	stdout, _, err = execute(t, "history", "--database", filepath.Join(dir, "empty.db"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestReportersCommand(t *testing.T) {
	stdout, _, err := execute(t, "reporters")
	require.NoError(t, err)

	for _, name := range []string{"list", "line", "dot", "json", "junit", "null", "github", "html"} {
		assert.Contains(t, stdout, name)
	}
	for _, name := range []string{"history", "prometheus", "datadog", "slack", "teams"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "custom")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hitreport version dev")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitUsageError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, ExitConfigError, exitCode(withExitCode(ExitConfigError, errors.New("bad"))))
	assert.Nil(t, withExitCode(ExitConfigError, nil))
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())
}
