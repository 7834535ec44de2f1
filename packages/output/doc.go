// Package output provides the built-in reporters.
//
// Supported reporters:
//   - list: One line per finished test with status and duration
//   - line: Compact progress, rewritten in place on terminals
//   - dot: One character per test, CI-log friendly
//   - json: Machine-readable JSON report
//   - junit: JUnit XML format for CI integration
//   - html: Self-contained HTML report written to a folder
//   - github: GitHub Actions annotations
//   - null: Discards everything
//
// The listing reporter replaces list, line and dot when tests are only
// enumerated. Each reporter implements reporter.Reporter; the XxxFromArg
// functions build one from its opaque configuration argument.
package output
