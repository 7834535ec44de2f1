package output

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents a test suite (one per file and project)
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Hostname  string          `xml:"hostname,attr,omitempty"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
	SystemErr string        `xml:"system-err,omitempty"`
}

// JUnitFailure represents a test failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents a skipped test
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitOptions configures the JUnit reporter
type JUnitOptions struct {
	OutputFile string `json:"outputFile"`
	SuiteName  string `json:"suiteName"`
}

// JUnitReporter formats results as JUnit XML, written at the end of the run
type JUnitReporter struct {
	reporter.Base
	env    reporter.Env
	opts   JUnitOptions
	config *config.FullConfig
	suites []*JUnitTestSuite
	byKey  map[string]*JUnitTestSuite
	errors int
}

// NewJUnitReporter creates a JUnit reporter
func NewJUnitReporter(env reporter.Env, opts JUnitOptions) *JUnitReporter {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if opts.SuiteName == "" {
		opts.SuiteName = "hitreport"
	}
	return &JUnitReporter{
		env:   env,
		opts:  opts,
		byKey: make(map[string]*JUnitTestSuite),
	}
}

// JUnitFromArg builds a JUnit reporter from {"outputFile": string, "suiteName": string}
func JUnitFromArg(arg any, env reporter.Env) (reporter.Reporter, error) {
	parsed, err := parseArg(arg)
	if err != nil {
		return nil, err
	}
	return NewJUnitReporter(env, JUnitOptions{
		OutputFile: parsed.Get("outputFile").String(),
		SuiteName:  parsed.Get("suiteName").String(),
	}), nil
}

func (r *JUnitReporter) Name() string {
	return "junit"
}

// PrintsToStdio is false when the report goes to a file
func (r *JUnitReporter) PrintsToStdio() bool {
	return r.opts.OutputFile == ""
}

func (r *JUnitReporter) OnBegin(cfg *config.FullConfig, _ *suite.Suite) error {
	r.config = cfg
	return nil
}

func (r *JUnitReporter) suiteFor(t *suite.Test) *JUnitTestSuite {
	file := relativePath(rootDir(r.config), t.Location.File)
	project := t.ProjectName()
	key := project + "\x00" + file

	if s, ok := r.byKey[key]; ok {
		return s
	}
	s := &JUnitTestSuite{Name: file, Hostname: project}
	r.byKey[key] = s
	r.suites = append(r.suites, s)
	return s
}

func (r *JUnitReporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	s := r.suiteFor(t)
	tc := JUnitTestCase{
		Name:      strings.Join(t.Titles(), " › "),
		ClassName: s.Name,
		Time:      result.Duration.Seconds(),
		SystemOut: strings.Join(result.Stdout, ""),
		SystemErr: strings.Join(result.Stderr, ""),
	}

	switch result.Status {
	case suite.StatusSkipped:
		s.Skipped++
		tc.Skipped = &JUnitSkipped{}
	case suite.StatusPassed:
	default:
		s.Failures++
		var content strings.Builder
		for _, e := range result.Errors {
			fmt.Fprintf(&content, "%s\n", formatError(r.config, e, newPalette(true)))
		}
		message := fmt.Sprintf("%s:%d:%d %s", s.Name, t.Location.Line, t.Location.Column, t.Title)
		tc.Failure = &JUnitFailure{
			Message: message,
			Type:    string(result.Status),
			Content: content.String(),
		}
	}

	s.Tests++
	s.Time += tc.Time
	s.TestCases = append(s.TestCases, tc)
	return nil
}

func (r *JUnitReporter) OnError(*suite.TestError) error {
	r.errors++
	return nil
}

// OnEnd writes the accumulated JUnit XML output
func (r *JUnitReporter) OnEnd(result *suite.FullResult) error {
	root := JUnitTestSuites{
		Name:      r.opts.SuiteName,
		Errors:    r.errors,
		Time:      result.Duration.Seconds(),
		Timestamp: result.StartTime.Format(time.RFC3339),
	}
	for _, s := range r.suites {
		root.Tests += s.Tests
		root.Failures += s.Failures
		root.Skipped += s.Skipped
		root.TestSuites = append(root.TestSuites, *s)
	}

	w, closeFn, err := openOutput(resolvePath(rootDir(r.config), r.opts.OutputFile), r.env.Stdout)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(root); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
