package suite

import (
	"fmt"
	"strings"
)

// Kind identifies the role of a suite in the tree
type Kind string

const (
	KindRoot     Kind = "root"
	KindProject  Kind = "project"
	KindFile     Kind = "file"
	KindDescribe Kind = "describe"
)

// Location points at a line and column in a source file
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Suite is a node in the test tree
type Suite struct {
	Title    string
	Kind     Kind
	Location *Location
	Parent   *Suite
	Suites   []*Suite
	Tests    []*Test
}

// NewRoot creates an empty root suite
func NewRoot() *Suite {
	return &Suite{Kind: KindRoot}
}

// AddSuite appends a child suite and returns it
func (s *Suite) AddSuite(kind Kind, title string) *Suite {
	child := &Suite{Title: title, Kind: kind, Parent: s}
	s.Suites = append(s.Suites, child)
	return child
}

// Child returns the first direct child with the given kind and title
func (s *Suite) Child(kind Kind, title string) *Suite {
	for _, c := range s.Suites {
		if c.Kind == kind && c.Title == title {
			return c
		}
	}
	return nil
}

// AddTest appends a test to the suite
func (s *Suite) AddTest(title string, loc Location) *Test {
	t := &Test{Title: title, Location: loc, Parent: s}
	t.ID = fmt.Sprintf("%s@%s", strings.Join(t.TitlePath(), " › "), loc)
	s.Tests = append(s.Tests, t)
	return t
}

// AllTests flattens the tree depth-first. A suite's own tests come before the
// tests of its child suites.
func (s *Suite) AllTests() []*Test {
	var tests []*Test
	s.collect(&tests)
	return tests
}

func (s *Suite) collect(out *[]*Test) {
	*out = append(*out, s.Tests...)
	for _, c := range s.Suites {
		c.collect(out)
	}
}

// Project returns the enclosing project suite, or nil
func (s *Suite) Project() *Suite {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == KindProject {
			return cur
		}
	}
	return nil
}

// Test is a single test case
type Test struct {
	ID       string
	Title    string
	Location Location
	Parent   *Suite
}

// TitlePath returns root, project, describe titles and the test title.
// The first two segments are always present; an empty project segment means
// the test does not belong to a project.
func (t *Test) TitlePath() []string {
	var chain []*Suite
	for cur := t.Parent; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}

	path := []string{"", ""}
	for i := len(chain) - 1; i >= 0; i-- {
		switch s := chain[i]; s.Kind {
		case KindRoot:
			path[0] = s.Title
		case KindProject:
			path[1] = s.Title
		case KindDescribe:
			path = append(path, s.Title)
		}
	}
	return append(path, t.Title)
}

// ProjectName returns the name of the project the test belongs to
func (t *Test) ProjectName() string {
	return t.TitlePath()[1]
}

// Titles returns the descriptive titles: describe blocks and the test title
func (t *Test) Titles() []string {
	return t.TitlePath()[2:]
}
