// Package reporter defines the contract every reporter satisfies and the
// multiplexer that presents many reporters as one.
//
// Hooks are delivered in a fixed order by the runner: OnBegin once, then
// OnTestBegin/OnTestEnd per test (with OnStdOut/OnStdErr in between for
// reporters implementing OutputReporter), OnError for errors outside tests,
// and OnEnd once. Embed Base to get no-op implementations of the hooks a
// reporter does not care about.
package reporter
