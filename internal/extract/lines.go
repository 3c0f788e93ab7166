package extract

import (
	"regexp"
	"strings"

	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// Legacy export idioms are plain assignments in the tree, so they are
// recognized on raw lines.
var (
	exportsPropRe = regexp.MustCompile(`^\s*(?:module\.)?exports\.([A-Za-z_$][\w$]*)\s*=(?:[^=]|$)`)
	exportsBulkRe = regexp.MustCompile(`^\s*module\.exports\s*=\s*\{`)
	identRe       = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

	routeRe = regexp.MustCompile("\\b([A-Za-z_$][\\w$]*)\\.(get|post|put|delete|patch)\\(\\s*['\"`](/[^'\"`]*)['\"`]")
	mountRe = regexp.MustCompile("\\b([A-Za-z_$][\\w$]*)\\.use\\(\\s*['\"`](/[^'\"`]*)['\"`]")
)

// routerLike reports whether an identifier names a server-side router
// rather than an HTTP client.
func routerLike(name string) bool {
	n := strings.ToLower(name)
	switch n {
	case "app", "router", "server", "routes", "route":
		return true
	}
	return strings.HasSuffix(n, "router") || strings.HasSuffix(n, "app")
}

// ScanLines records legacy export assignments and literal route
// declarations found on the raw lines of src.
func ScanLines(src, apiPrefix string, res *Result) {
	lines := strings.Split(src, "\n")
	bulkDone := false
	for i, line := range lines {
		n := i + 1

		if m := exportsPropRe.FindStringSubmatch(line); m != nil {
			res.add(registry.Exports, m[1], n)
		}
		if !bulkDone {
			if loc := exportsBulkRe.FindStringIndex(line); loc != nil {
				bulkDone = true
				rest := line[loc[1]:] + "\n" + strings.Join(lines[i+1:], "\n")
				for _, key := range objectKeys(rest) {
					res.add(registry.Exports, key, n)
				}
			}
		}

		for _, m := range routeRe.FindAllStringSubmatch(line, -1) {
			if !routerLike(m[1]) || strings.Contains(m[3], "${") {
				continue
			}
			res.Routes = append(res.Routes, Route{Method: strings.ToUpper(m[2]), Path: m[3], Line: n})
		}
		for _, m := range mountRe.FindAllStringSubmatch(line, -1) {
			if !routerLike(m[1]) || !underPrefix(m[2], apiPrefix) {
				continue
			}
			res.Routes = append(res.Routes, Route{Method: registry.MountMethod, Path: m[2], Line: n})
		}
	}
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}

// objectKeys reads an object literal body (the text after its opening brace)
// up to the matching close brace and returns the keys of its top-level
// entries.
func objectKeys(body string) []string {
	var (
		parts []string
		cur   strings.Builder
		depth int
		quote byte
	)
scan:
	for i := 0; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(body) {
				i++
				cur.WriteByte(body[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			if depth == 0 {
				break scan
			}
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, cur.String())
				cur.Reset()
				continue
			}
		}
		cur.WriteByte(c)
	}
	parts = append(parts, cur.String())

	var keys []string
	for _, p := range parts {
		if k := entryKey(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func entryKey(entry string) string {
	e := strings.TrimSpace(stripComments(entry))
	if e == "" || strings.HasPrefix(e, "...") {
		return ""
	}
	if i := strings.IndexAny(e, ":("); i >= 0 {
		e = e[:i]
	}
	e = strings.TrimSpace(e)
	e = strings.TrimPrefix(e, "async ")
	e = strings.TrimPrefix(e, "get ")
	e = strings.TrimPrefix(e, "set ")
	e = strings.Trim(strings.TrimSpace(e), `'"`)
	if !identRe.MatchString(e) {
		return ""
	}
	return e
}

func stripComments(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
