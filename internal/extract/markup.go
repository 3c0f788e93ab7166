package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
	"github.com/InfiniQuest-App/wisdom-store/internal/syntax"
)

// Node kinds of the HTML grammar.
const (
	kindElement       = "element"
	kindScriptElement = "script_element"
	kindStartTag      = "start_tag"
	kindTagName       = "tag_name"
	kindAttribute     = "attribute"
	kindAttrName      = "attribute_name"
	kindAttrValue     = "attribute_value"
	kindQuotedValue   = "quoted_attribute_value"
	kindRawText       = "raw_text"
	kindText          = "text"
)

// scriptTypes are the type attribute values that still denote script code.
var scriptTypes = map[string]bool{
	"":                       true,
	"module":                 true,
	"text/javascript":        true,
	"application/javascript": true,
	"text/babel":             true,
	"text/jsx":               true,
	"text/typescript":        true,
}

func (e *Extractor) fromMarkup(ctx context.Context, file string, src []byte, s lang.Strategy) (Result, error) {
	tree, err := e.parser.Parse(ctx, src, s.Language)
	if err != nil {
		return Result{}, err
	}
	defer tree.Close()

	var (
		res     Result
		title   string
		titled  bool
		scripts []string
	)
	for _, n := range tree.FindAll(kindElement, kindScriptElement) {
		tag, ok := startTag(n)
		if !ok {
			continue
		}
		if n.Kind() == kindElement {
			if !titled && tagName(tag) == "title" {
				title, titled = elementText(n), true
			}
			continue
		}

		attrs := attributes(tag)
		if !scriptTypes[strings.ToLower(attrs["type"])] {
			continue
		}
		if ref, ok := attrs["src"]; ok {
			if ref != "" && !external(ref) {
				scripts = append(scripts, ref)
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		e.inlineScript(ctx, n, scriptDialect(attrs), &res)
	}

	if s.Page() {
		res.Page = &registry.Page{
			Name:    filepath.Base(file),
			File:    file,
			Title:   title,
			Scripts: scripts,
		}
	}
	return res, nil
}

// inlineScript extracts one embedded block, shifting its lines to document
// positions. A block that does not parse falls back to the heuristics.
func (e *Extractor) inlineScript(ctx context.Context, n syntax.Node, dialect string, res *Result) {
	var raw syntax.Node
	for _, c := range n.NamedChildren() {
		if c.Kind() == kindRawText {
			raw = c
			break
		}
	}
	if raw == nil {
		return
	}
	body := []byte(raw.Text())
	offset := raw.Line() - 1

	sub, err := e.fromTree(ctx, body, dialect)
	if err != nil {
		sub = Heuristic(dialect, body, e.apiPrefix)
		sub.Degraded = true
	}
	res.merge(sub, offset)
}

func scriptDialect(attrs map[string]string) string {
	switch strings.ToLower(attrs["lang"]) {
	case "ts", "typescript":
		return lang.TypeScript
	case "tsx":
		return lang.TSX
	}
	if strings.EqualFold(attrs["type"], "text/typescript") {
		return lang.TypeScript
	}
	return lang.JavaScript
}

// external reports absolute and protocol-relative URLs.
func external(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	i := strings.Index(ref, "://")
	return i > 0 && !strings.ContainsAny(ref[:i], "/?#")
}

func startTag(n syntax.Node) (syntax.Node, bool) {
	for _, c := range n.NamedChildren() {
		if c.Kind() == kindStartTag {
			return c, true
		}
	}
	return nil, false
}

func tagName(tag syntax.Node) string {
	for _, c := range tag.NamedChildren() {
		if c.Kind() == kindTagName {
			return strings.ToLower(c.Text())
		}
	}
	return ""
}

// attributes maps lower-cased attribute names to unquoted values. A bare
// attribute maps to "".
func attributes(tag syntax.Node) map[string]string {
	out := make(map[string]string)
	for _, a := range tag.NamedChildren() {
		if a.Kind() != kindAttribute {
			continue
		}
		var name, value string
		for _, c := range a.NamedChildren() {
			switch c.Kind() {
			case kindAttrName:
				name = strings.ToLower(c.Text())
			case kindAttrValue:
				value = c.Text()
			case kindQuotedValue:
				value = strings.Trim(c.Text(), `"'`)
			}
		}
		if name != "" {
			if _, seen := out[name]; !seen {
				out[name] = strings.TrimSpace(value)
			}
		}
	}
	return out
}

func elementText(n syntax.Node) string {
	var parts []string
	for _, c := range n.NamedChildren() {
		if c.Kind() == kindText {
			parts = append(parts, c.Text())
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
