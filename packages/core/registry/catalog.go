package registry

import (
	"github.com/abdul-hamid-achik/hitreport/packages/output"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// BuiltIn names a reporter shipped with hitreport
type BuiltIn string

const (
	BuiltInList   BuiltIn = "list"
	BuiltInLine   BuiltIn = "line"
	BuiltInDot    BuiltIn = "dot"
	BuiltInJSON   BuiltIn = "json"
	BuiltInJUnit  BuiltIn = "junit"
	BuiltInNull   BuiltIn = "null"
	BuiltInGitHub BuiltIn = "github"
	BuiltInHTML   BuiltIn = "html"
)

var catalog = map[BuiltIn]reporter.Constructor{
	BuiltInList:   output.ListFromArg,
	BuiltInLine:   output.LineFromArg,
	BuiltInDot:    output.DotFromArg,
	BuiltInJSON:   output.JSONFromArg,
	BuiltInJUnit:  output.JUnitFromArg,
	BuiltInNull:   output.NullFromArg,
	BuiltInGitHub: output.GitHubFromArg,
	BuiltInHTML:   output.HTMLFromArg,
}

// BuiltIns returns every built-in reporter name in a stable order
func BuiltIns() []BuiltIn {
	return []BuiltIn{
		BuiltInList,
		BuiltInLine,
		BuiltInDot,
		BuiltInJSON,
		BuiltInJUnit,
		BuiltInNull,
		BuiltInGitHub,
		BuiltInHTML,
	}
}

// IsBuiltIn reports whether name belongs to the catalog
func IsBuiltIn(name string) bool {
	_, ok := catalog[BuiltIn(name)]
	return ok
}

// Lookup returns the constructor for a built-in name. In list mode the
// progress reporters (dot, line, list) all become the listing reporter.
func Lookup(name string, listMode bool) (reporter.Constructor, bool) {
	b := BuiltIn(name)
	ctor, ok := catalog[b]
	if !ok {
		return nil, false
	}
	if listMode {
		switch b {
		case BuiltInDot, BuiltInLine, BuiltInList:
			return output.ListingFromArg, true
		}
	}
	return ctor, true
}
