package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/InfiniQuest-App/wisdom-store/internal/extract"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
)

// collector accumulates what one script run reports.
type collector struct {
	res extract.Result
}

// addSymbolFn creates "add_symbol". Both call forms are accepted:
//
//	add_symbol(category, name, line)
//	add_symbol({"category": ..., "name": ..., "line": ...})
//
// Routes and pages have their own paths in and are rejected here.
func (c *collector) addSymbolFn() *object.Builtin {
	return object.NewBuiltin("add_symbol", func(ctx context.Context, args ...object.Object) object.Object {
		var catName, name string
		var line int
		switch len(args) {
		case 1:
			m, err := extractMap(args[0])
			if err != nil {
				return object.Errorf("add_symbol: %v", err)
			}
			catName, name, line = getString(m, "category"), getString(m, "name"), getInt(m, "line")
		case 3:
			var err error
			if catName, err = toString(args[0]); err != nil {
				return object.Errorf("add_symbol: category: %v", err)
			}
			if name, err = toString(args[1]); err != nil {
				return object.Errorf("add_symbol: name: %v", err)
			}
			n, err := toInt64(args[2])
			if err != nil {
				return object.Errorf("add_symbol: line: %v", err)
			}
			line = int(n)
		default:
			return object.Errorf("add_symbol: expected 1 or 3 arguments, got %d", len(args))
		}

		cat, ok := registry.ParseCategory(catName)
		if !ok || cat == registry.Routes || cat == registry.Pages {
			return object.Errorf("add_symbol: unsupported category %q", catName)
		}
		if name == "" {
			return object.Errorf("add_symbol: empty name")
		}
		c.res.Symbols = append(c.res.Symbols, extract.Symbol{Category: cat, Name: name, Line: line})
		return object.Nil
	})
}

// addRouteFn creates "add_route". The method is upper-cased; "mount"
// records a prefix mount.
//
//	add_route(method, path, line)
func (c *collector) addRouteFn() *object.Builtin {
	return object.NewBuiltin("add_route", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 3 {
			return object.NewArgsError("add_route", 3, len(args))
		}
		method, err := toString(args[0])
		if err != nil {
			return object.Errorf("add_route: method: %v", err)
		}
		path, err := toString(args[1])
		if err != nil {
			return object.Errorf("add_route: path: %v", err)
		}
		line, err := toInt64(args[2])
		if err != nil {
			return object.Errorf("add_route: line: %v", err)
		}
		if !strings.HasPrefix(path, "/") {
			return object.Errorf("add_route: path %q must start with /", path)
		}
		c.res.Routes = append(c.res.Routes, extract.Route{
			Method: strings.ToUpper(method),
			Path:   path,
			Line:   int(line),
		})
		return object.Nil
	})
}

func extractMap(obj object.Object) (map[string]object.Object, error) {
	m, ok := obj.(*object.Map)
	if !ok {
		return nil, fmt.Errorf("expected map, got %s", obj.Type())
	}
	return m.Value(), nil
}

func getString(m map[string]object.Object, key string) string {
	if s, ok := m[key].(*object.String); ok {
		return s.Value()
	}
	return ""
}

func getInt(m map[string]object.Object, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	n, err := toInt64(v)
	if err != nil {
		return 0
	}
	return int(n)
}

func toInt64(obj object.Object) (int64, error) {
	switch v := obj.(type) {
	case *object.Int:
		return v.Value(), nil
	case *object.Float:
		return int64(v.Value()), nil
	}
	return 0, fmt.Errorf("expected int, got %s", obj.Type())
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}
