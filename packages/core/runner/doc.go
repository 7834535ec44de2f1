// Package runner drives a reporter through the lifecycle of a run.
//
// It does not execute tests. In list mode it announces the suite and ends
// the run; in replay mode it feeds recorded results from a suite manifest
// through the reporter as if they were happening live:
//   - OnBegin with the resolved config and suite
//   - global errors via OnError
//   - per test: OnTestBegin, captured output, OnTestEnd
//   - OnEnd with the aggregated status
//
// Reporter failures never abort a run; they are collected on RunResult.
package runner
