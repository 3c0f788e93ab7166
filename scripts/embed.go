// Package scripts bundles Risor extraction scripts for languages that have
// no built-in extractor. They are written into a project by "wisdom init
// --scripts" and can be edited there.
package scripts

import (
	"embed"
	"sort"
)

// FS holds the bundled scripts under extract/.
//
//go:embed extract/*.risor
var FS embed.FS

// Extensions maps each file extension a bundled script handles to its path
// inside FS.
var Extensions = map[string]string{
	".java": "extract/java.risor",
	".rb":   "extract/ruby.risor",
	".php":  "extract/php.risor",
	".c":    "extract/c.risor",
	".h":    "extract/c.risor",
	".cc":   "extract/cpp.risor",
	".cpp":  "extract/cpp.risor",
	".cxx":  "extract/cpp.risor",
	".hpp":  "extract/cpp.risor",
}

// Paths returns the distinct script paths, sorted.
func Paths() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range Extensions {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
