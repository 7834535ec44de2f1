// Package registry turns reporter descriptors into live reporters.
//
// Built-in names are served by the catalog. Any other name is a locator
// handed to a Loader: an in-process Registry, a Go plugin on disk, or a chain
// of both. After resolution the stdio fallback policy guarantees that at
// least one reporter prints progress, and Build wraps the result in a
// reporter.Multiplexer.
package registry
