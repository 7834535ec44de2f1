// Package cmd implements the hitreport CLI commands using Cobra.
//
// Available commands:
//   - list: Announce the tests of a suite manifest without running them
//   - replay: Feed recorded results from a manifest through the reporters
//   - reporters: Show the built-in and registered reporters
//   - history: Show runs stored by the history reporter
//   - version: Show hitreport version information
//
// Reporters come from the config file, the --reporter flag and the
// HITREPORT_REPORTER environment variable, in that order of precedence
// (the environment variable adds one reporter rather than replacing).
package cmd
