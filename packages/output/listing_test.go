package output

import (
	"bytes"
	"testing"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoTestSuite builds the suite used across reporter tests: one chromium test
// inside a describe block and one test without a project.
func twoTestSuite() (*config.FullConfig, *suite.Suite, []*suite.Test) {
	cfg := &config.FullConfig{RootDir: "/repo", RunID: "run-1", Version: "test"}
	root := suite.NewRoot()

	project := root.AddSuite(suite.KindProject, "chromium")
	fileA := project.AddSuite(suite.KindFile, "tests/a.spec.ts")
	describe := fileA.AddSuite(suite.KindDescribe, "suite")
	works := describe.AddTest("works", suite.Location{File: "/repo/tests/a.spec.ts", Line: 10, Column: 3})

	fileB := root.AddSuite(suite.KindFile, "tests/b.spec.ts")
	loads := fileB.AddTest("loads", suite.Location{File: "/repo/tests/b.spec.ts", Line: 4, Column: 1})

	return cfg, root, []*suite.Test{works, loads}
}

func newTestEnv() (reporter.Env, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return reporter.Env{Stdout: &stdout, Stderr: &stderr, NoColor: true}, &stdout, &stderr
}

func TestListingReporter_OnBegin(t *testing.T) {
	env, stdout, stderr := newTestEnv()
	cfg, root, _ := twoTestSuite()

	r := NewListingReporter(env)
	require.NoError(t, r.OnBegin(cfg, root))

	expected := "Listing tests:\n" +
		"  [chromium] › tests/a.spec.ts:10:3 › suite works\n" +
		"  tests/b.spec.ts:4:1 › loads\n" +
		"Total: 2 tests in 2 files\n"
	assert.Equal(t, expected, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestListingReporter_Singular(t *testing.T) {
	env, stdout, _ := newTestEnv()
	root := suite.NewRoot()
	file := root.AddSuite(suite.KindFile, "only.spec.ts")
	file.AddTest("alone", suite.Location{File: "only.spec.ts", Line: 1, Column: 1})

	r := NewListingReporter(env)
	require.NoError(t, r.OnBegin(&config.FullConfig{}, root))

	assert.Contains(t, stdout.String(), "Total: 1 test in 1 file\n")
}

func TestListingReporter_CountsDistinctFiles(t *testing.T) {
	env, stdout, _ := newTestEnv()
	root := suite.NewRoot()
	file := root.AddSuite(suite.KindFile, "a.spec.ts")
	file.AddTest("one", suite.Location{File: "a.spec.ts", Line: 1, Column: 1})
	file.AddTest("two", suite.Location{File: "a.spec.ts", Line: 5, Column: 1})
	file.AddTest("three", suite.Location{File: "a.spec.ts", Line: 9, Column: 1})

	r := NewListingReporter(env)
	require.NoError(t, r.OnBegin(&config.FullConfig{}, root))

	assert.Contains(t, stdout.String(), "Total: 3 tests in 1 file\n")
}

func TestListingReporter_EmptySuite(t *testing.T) {
	env, stdout, _ := newTestEnv()

	r := NewListingReporter(env)
	require.NoError(t, r.OnBegin(&config.FullConfig{}, suite.NewRoot()))

	assert.Equal(t, "Listing tests:\nTotal: 0 tests in 0 files\n", stdout.String())
}

func TestListingReporter_OnError(t *testing.T) {
	env, stdout, stderr := newTestEnv()
	cfg, root, _ := twoTestSuite()

	r := NewListingReporter(env)
	require.NoError(t, r.OnBegin(cfg, root))
	stdout.Reset()

	err := r.OnError(&suite.TestError{
		Message:  "SyntaxError: unexpected token",
		Location: &suite.Location{File: "/repo/tests/a.spec.ts", Line: 2, Column: 7},
	})
	require.NoError(t, err)

	assert.Equal(t, "\nSyntaxError: unexpected token\n\n    at tests/a.spec.ts:2:7\n", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestListingReporter_OtherHooksSilent(t *testing.T) {
	env, stdout, stderr := newTestEnv()
	_, _, tests := twoTestSuite()

	r := NewListingReporter(env)
	require.NoError(t, r.OnTestBegin(tests[0]))
	require.NoError(t, r.OnTestEnd(tests[0], &suite.TestResult{Status: suite.StatusPassed}))
	require.NoError(t, r.OnEnd(&suite.FullResult{Status: suite.StatusPassed}))

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
	assert.True(t, reporter.PrintsToStdio(r))
}
