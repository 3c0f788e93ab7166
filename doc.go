// Package wisdom indexes a project's declared names and routes so that
// freshly written code can be checked against what actually exists.
//
// # Pipeline
//
// A scan runs in one pass:
//
//  1. Walk: list candidate files under depth, count and size limits,
//     skipping hidden, tooling, ignored and backup-looking directories.
//     Directory entries are visited in sorted order, so the result is
//     reproducible.
//
//  2. Extract: each file's extension picks a strategy. JavaScript and
//     TypeScript are parsed with tree-sitter; Python, Go and Rust are
//     matched line by line; HTML, Vue and Svelte feed their inline script
//     blocks back through the parser; extensions mapped in the project
//     config run a Risor script.
//
//  3. Fold: every file's symbols, routes and page are added to a
//     [Registry] in traversal order. The first sighting of a
//     (category, name) fixes its location; later sightings only count.
//
// # Usage
//
// The core entry points are pure functions:
//
//	res := wisdom.Scan("path/to/project", wisdom.ScanOptions{})
//	report := wisdom.CheckNames([]string{"greet", "grete"}, res.Registry)
//	unknown := wisdom.ValidateRoutes([]string{"/api/users/42"}, res.Registry)
//
// An [Engine] adds project configuration, logging and a SQLite store so
// that the registry survives between the scan and later checks:
//
//	e, err := wisdom.New("", "path/to/project")
//	if err != nil { ... }
//	defer e.Close()
//
//	_, err = e.Scan()
//	report, err := e.CheckDiff(diffBytes)
//
// # Checks
//
//   - [CheckNames] splits names into known entries, fuzzy suggestions
//     (edit distance within max(2, 30% of the name length)) and unknowns.
//   - [ValidateRoutes] returns the paths that match no declared route,
//     parameter pattern, collection prefix or opaque mount.
//   - [CheckDiff] runs both over just the lines a unified diff adds.
//
// # Failure model
//
// [Scan] never fails. Unreadable, oversized or unparsable files are dropped
// and listed in [ScanResult.Reports]. The checks return empty results when
// there is nothing to check; the engine reports [ErrNoRegistry] when no
// scan has been stored yet.
package wisdom
