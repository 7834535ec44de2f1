// Package history provides a reporter that keeps every run in a SQLite
// database so results can be compared across runs.
//
// It is not built in: it is registered with a loader under the name
// "history" and configured like any other reporter:
//
//	"reporter": [["list"], ["history", {"database": "reports/history.db"}]]
package history
