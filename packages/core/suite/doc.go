// Package suite holds the read-only test model that reporters consume.
//
// It provides:
//   - The suite tree (root, project, file and describe suites) and its tests
//   - Test results, errors and the final run result
//   - Loading a suite manifest from YAML or JSON and building the tree from it
//
// Title paths follow the layout reporters expect: root, project, describe
// blocks, then the test title. File suites group tests but do not add a
// segment to the title path.
package suite
