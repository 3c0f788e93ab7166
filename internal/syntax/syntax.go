// Package syntax defines the narrow syntax-tree query capability the
// extractors consume: kind-based node search, named-field access and line
// positions. The tree-sitter binding in this package is the production
// implementation; extractors only depend on the interfaces.
package syntax

import (
	"context"
	"errors"
)

// ErrSyntax reports a source that did not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// ErrUnsupported reports a dialect with no grammar.
var ErrUnsupported = errors.New("unsupported dialect")

// Node is a single syntax node.
type Node interface {
	// Kind is the grammar's node type, e.g. "function_declaration".
	Kind() string
	// Field returns the child stored under a grammar field name.
	Field(name string) (Node, bool)
	// Line is the 1-based line the node starts on.
	Line() int
	// Text is the node's source text.
	Text() string
	Parent() (Node, bool)
	NamedChildren() []Node
}

// Tree is a parsed source file.
type Tree interface {
	Root() Node
	// FindAll returns every node whose kind is one of kinds, in document
	// order.
	FindAll(kinds ...string) []Node
	Close()
}

// Parser turns source into a Tree for a dialect (a language tag from the
// lang package).
type Parser interface {
	Parse(ctx context.Context, src []byte, dialect string) (Tree, error)
}
