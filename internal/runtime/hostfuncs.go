package runtime

import (
	"context"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/risor-io/risor/object"
	sitter "github.com/smacker/go-tree-sitter"
)

// sourceStore remembers the source bytes and grammar behind every tree a
// script parsed. smacker/go-tree-sitter has no Node.Tree(), so entries are
// keyed by the root node pointer and found again by walking Parent().
type sourceStore struct {
	mu      sync.RWMutex
	entries map[uintptr]parsed
}

type parsed struct {
	src  []byte
	lang *sitter.Language
}

func newSourceStore() *sourceStore {
	return &sourceStore{entries: make(map[uintptr]parsed)}
}

func (s *sourceStore) put(tree *sitter.Tree, src []byte, lang *sitter.Language) {
	key := uintptr(unsafe.Pointer(tree.RootNode()))
	s.mu.Lock()
	s.entries[key] = parsed{src: src, lang: lang}
	s.mu.Unlock()
}

func (s *sourceStore) lookup(node *sitter.Node) (parsed, bool) {
	for node.Parent() != nil {
		node = node.Parent()
	}
	key := uintptr(unsafe.Pointer(node))
	s.mu.RLock()
	p, ok := s.entries[key]
	s.mu.RUnlock()
	return p, ok
}

func stringArg(fn string, obj object.Object, what string) (string, *object.Error) {
	str, ok := obj.(*object.String)
	if !ok {
		return "", object.Errorf("%s: %s must be a string, got %s", fn, what, obj.Type())
	}
	return str.Value(), nil
}

func nodeArg(fn string, obj object.Object) (*sitter.Node, *object.Error) {
	proxy, ok := obj.(*object.Proxy)
	if !ok {
		return nil, object.Errorf("%s: expected proxy (Node), got %s", fn, obj.Type())
	}
	node, ok := proxy.Interface().(*sitter.Node)
	if !ok {
		return nil, object.Errorf("%s: expected *sitter.Node, got %T", fn, proxy.Interface())
	}
	return node, nil
}

// makeParseSrcFn creates "parse_src".
//
// parse_src(source, language) → *sitter.Tree
func makeParseSrcFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("parse_src", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("parse_src", 2, len(args))
		}
		src, errObj := stringArg("parse_src", args[0], "source")
		if errObj != nil {
			return errObj
		}
		langName, errObj := stringArg("parse_src", args[1], "language")
		if errObj != nil {
			return errObj
		}

		lang, found := ParserForLanguage(langName)
		if !found {
			return object.Errorf("parse_src: unsupported language %q", langName)
		}
		parser := sitter.NewParser()
		defer parser.Close()
		parser.SetLanguage(lang)

		data := []byte(src)
		tree, err := parser.ParseCtx(ctx, nil, data)
		if err != nil {
			return object.Errorf("parse_src: tree-sitter parse failed: %v", err)
		}
		ss.put(tree, data, lang)

		proxy, err := object.NewProxy(tree)
		if err != nil {
			return object.Errorf("parse_src: proxy error: %v", err)
		}
		return proxy
	})
}

// makeNodeTextFn creates "node_text". Risor's proxy cannot hand a string to
// node.Content([]byte), so the source is looked up here.
//
// node_text(node) → string
func makeNodeTextFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("node_text", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("node_text", 1, len(args))
		}
		node, errObj := nodeArg("node_text", args[0])
		if errObj != nil {
			return errObj
		}
		p, found := ss.lookup(node)
		if !found {
			return object.Errorf("node_text: no source found for node's tree")
		}
		return object.NewString(node.Content(p.src))
	})
}

// makeNodeLineFn creates "node_line", the 1-based start line of a node.
//
// node_line(node) → int
func makeNodeLineFn() *object.Builtin {
	return object.NewBuiltin("node_line", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("node_line", 1, len(args))
		}
		node, errObj := nodeArg("node_line", args[0])
		if errObj != nil {
			return errObj
		}
		return object.NewInt(int64(node.StartPoint().Row) + 1)
	})
}

// makeQueryFn creates "query". Each match is a map from capture name to
// proxied Node.
//
// query(pattern, node) → []map[string]Node
func makeQueryFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("query", 2, len(args))
		}
		pattern, errObj := stringArg("query", args[0], "pattern")
		if errObj != nil {
			return errObj
		}
		node, errObj := nodeArg("query", args[1])
		if errObj != nil {
			return errObj
		}
		p, found := ss.lookup(node)
		if !found {
			return object.Errorf("query: no tree found for node")
		}

		q, err := sitter.NewQuery([]byte(pattern), p.lang)
		if err != nil {
			return object.Errorf("query: invalid pattern: %v", err)
		}
		defer q.Close()

		cursor := sitter.NewQueryCursor()
		defer cursor.Close()
		cursor.Exec(q, node)

		results := []object.Object{}
		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			match = cursor.FilterPredicates(match, p.src)

			captures := make(map[string]object.Object, len(match.Captures))
			for _, c := range match.Captures {
				name := q.CaptureNameForId(c.Index)
				proxy, err := object.NewProxy(c.Node)
				if err != nil {
					return object.Errorf("query: proxy error for capture %q: %v", name, err)
				}
				captures[name] = proxy
			}
			results = append(results, object.NewMap(captures))
		}
		return object.NewList(results)
	})
}

// makeNodeChildFn creates "node_child", a ChildByFieldName that returns
// Risor nil rather than a proxied Go nil pointer.
//
// node_child(node, field) → Node or nil
func makeNodeChildFn() *object.Builtin {
	return object.NewBuiltin("node_child", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("node_child", 2, len(args))
		}
		node, errObj := nodeArg("node_child", args[0])
		if errObj != nil {
			return errObj
		}
		field, errObj := stringArg("node_child", args[1], "field")
		if errObj != nil {
			return errObj
		}
		child := node.ChildByFieldName(field)
		if child == nil {
			return object.Nil
		}
		p, err := object.NewProxy(child)
		if err != nil {
			return object.Errorf("node_child: proxy error: %v", err)
		}
		return p
	})
}

// logObject gives scripts log.Info/Warn/Error, tagged with the script.
type logObject struct {
	logger *slog.Logger
	script string
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "script", l.script)
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "script", l.script)
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "script", l.script)
}
