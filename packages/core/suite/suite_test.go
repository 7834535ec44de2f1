package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTest_TitlePath(t *testing.T) {
	root := NewRoot()
	project := root.AddSuite(KindProject, "chromium")
	file := project.AddSuite(KindFile, "tests/a.spec.ts")
	describe := file.AddSuite(KindDescribe, "suite")
	test := describe.AddTest("works", Location{File: "tests/a.spec.ts", Line: 10, Column: 3})

	assert.Equal(t, []string{"", "chromium", "suite", "works"}, test.TitlePath())
	assert.Equal(t, "chromium", test.ProjectName())
	assert.Equal(t, []string{"suite", "works"}, test.Titles())
}

func TestTest_TitlePath_NoProject(t *testing.T) {
	root := NewRoot()
	file := root.AddSuite(KindFile, "tests/b.spec.ts")
	test := file.AddTest("loads", Location{File: "tests/b.spec.ts", Line: 4, Column: 1})

	assert.Equal(t, []string{"", "", "loads"}, test.TitlePath())
	assert.Empty(t, test.ProjectName())
}

func TestSuite_AllTests(t *testing.T) {
	root := NewRoot()
	a := root.AddSuite(KindFile, "a.spec.ts")
	a.AddTest("one", Location{File: "a.spec.ts", Line: 1})
	inner := a.AddSuite(KindDescribe, "group")
	inner.AddTest("two", Location{File: "a.spec.ts", Line: 2})
	b := root.AddSuite(KindFile, "b.spec.ts")
	b.AddTest("three", Location{File: "b.spec.ts", Line: 3})

	tests := root.AllTests()
	require.Len(t, tests, 3)
	assert.Equal(t, "one", tests[0].Title)
	assert.Equal(t, "two", tests[1].Title)
	assert.Equal(t, "three", tests[2].Title)
}

func TestSuite_Project(t *testing.T) {
	root := NewRoot()
	project := root.AddSuite(KindProject, "firefox")
	file := project.AddSuite(KindFile, "x.spec.ts")

	assert.Same(t, project, file.Project())
	assert.Nil(t, root.Project())
}

func TestStatus_OK(t *testing.T) {
	tests := []struct {
		status Status
		ok     bool
	}{
		{StatusPassed, true},
		{StatusSkipped, true},
		{StatusFailed, false},
		{StatusTimedOut, false},
		{StatusInterrupted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.status.OK())
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusFailed, ParseStatus("failed"))
	assert.Equal(t, StatusTimedOut, ParseStatus("timedOut"))
	assert.Equal(t, StatusPassed, ParseStatus(""))
	assert.Equal(t, StatusPassed, ParseStatus("unknown"))
}
