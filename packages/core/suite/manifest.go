package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest describes a suite and optionally the results of a recorded run.
// JSON manifests are accepted too since YAML is a superset of JSON.
type Manifest struct {
	RootDir  string            `yaml:"rootDir,omitempty"`
	Projects []ManifestProject `yaml:"projects,omitempty"`
	Files    []ManifestFile    `yaml:"files,omitempty"`
	Errors   []ManifestError   `yaml:"errors,omitempty"`
}

// ManifestProject groups files under a named project
type ManifestProject struct {
	Name  string         `yaml:"name"`
	Files []ManifestFile `yaml:"files"`
}

// ManifestFile lists the tests of a single source file
type ManifestFile struct {
	Path  string         `yaml:"path"`
	Tests []ManifestTest `yaml:"tests"`
}

// ManifestTest is a single test entry
type ManifestTest struct {
	Title    string          `yaml:"title"`
	Describe []string        `yaml:"describe,omitempty"`
	Line     int             `yaml:"line"`
	Column   int             `yaml:"column"`
	Result   *ManifestResult `yaml:"result,omitempty"`
}

// ManifestResult is a recorded test outcome
type ManifestResult struct {
	Status   string          `yaml:"status"`
	Duration string          `yaml:"duration,omitempty"`
	Retry    int             `yaml:"retry,omitempty"`
	Errors   []ManifestError `yaml:"errors,omitempty"`
	Stdout   []string        `yaml:"stdout,omitempty"`
	Stderr   []string        `yaml:"stderr,omitempty"`
}

// ManifestError is a recorded error
type ManifestError struct {
	Message string `yaml:"message"`
	Stack   string `yaml:"stack,omitempty"`
	File    string `yaml:"file,omitempty"`
	Line    int    `yaml:"line,omitempty"`
	Column  int    `yaml:"column,omitempty"`
}

// Run is a built suite plus the recorded results found in the manifest
type Run struct {
	RootDir string
	Suite   *Suite
	Records []Record
	Errors  []*TestError
}

// LoadManifest reads and parses a manifest file. A relative or empty rootDir
// is resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if m.RootDir == "" {
		m.RootDir = dir
	} else if !filepath.IsAbs(m.RootDir) {
		m.RootDir = filepath.Join(dir, m.RootDir)
	}
	return m, nil
}

// ParseManifest parses manifest content
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Build creates the suite tree and the recorded results
func (m *Manifest) Build() (*Run, error) {
	run := &Run{RootDir: m.RootDir, Suite: NewRoot()}

	for _, p := range m.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("project without a name")
		}
		project := run.Suite.AddSuite(KindProject, p.Name)
		for _, f := range p.Files {
			if err := m.buildFile(run, project, f); err != nil {
				return nil, err
			}
		}
	}

	for _, f := range m.Files {
		if err := m.buildFile(run, run.Suite, f); err != nil {
			return nil, err
		}
	}

	for _, e := range m.Errors {
		run.Errors = append(run.Errors, m.testError(e))
	}

	return run, nil
}

func (m *Manifest) buildFile(run *Run, parent *Suite, f ManifestFile) error {
	if f.Path == "" {
		return fmt.Errorf("file entry without a path")
	}
	file := parent.AddSuite(KindFile, f.Path)
	abs := m.resolve(f.Path)
	file.Location = &Location{File: abs}

	for _, mt := range f.Tests {
		if mt.Title == "" {
			return fmt.Errorf("%s: test without a title", f.Path)
		}

		owner := file
		for _, title := range mt.Describe {
			next := owner.Child(KindDescribe, title)
			if next == nil {
				next = owner.AddSuite(KindDescribe, title)
				next.Location = &Location{File: abs}
			}
			owner = next
		}

		test := owner.AddTest(mt.Title, Location{File: abs, Line: mt.Line, Column: mt.Column})
		if mt.Result == nil {
			continue
		}

		result, err := m.testResult(mt.Result)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", f.Path, mt.Title, err)
		}
		run.Records = append(run.Records, Record{Test: test, Result: result})
	}
	return nil
}

func (m *Manifest) testResult(r *ManifestResult) (*TestResult, error) {
	result := &TestResult{
		Status: ParseStatus(r.Status),
		Retry:  r.Retry,
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	}
	if r.Duration != "" {
		d, err := time.ParseDuration(r.Duration)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", r.Duration, err)
		}
		result.Duration = d
	}
	for _, e := range r.Errors {
		result.Errors = append(result.Errors, m.testError(e))
	}
	return result, nil
}

func (m *Manifest) testError(e ManifestError) *TestError {
	te := &TestError{Message: e.Message, Stack: e.Stack}
	if e.File != "" {
		te.Location = &Location{File: m.resolve(e.File), Line: e.Line, Column: e.Column}
	}
	return te
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.RootDir == "" {
		return path
	}
	return filepath.Join(m.RootDir, path)
}
