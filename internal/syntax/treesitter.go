package syntax

import (
	"context"
	"fmt"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
)

// grammars maps dialects to tree-sitter languages. Lazily initialized.
var (
	grammars     map[string]*sitter.Language
	grammarsOnce sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		grammars = map[string]*sitter.Language{
			lang.JavaScript: javascript.GetLanguage(),
			lang.TypeScript: typescript.GetLanguage(),
			lang.TSX:        tsx.GetLanguage(),
			lang.HTML:       html.GetLanguage(),
			// Single-file components are HTML-shaped at the top level.
			lang.Vue:    html.GetLanguage(),
			lang.Svelte: html.GetLanguage(),
		}
	})
}

// GrammarFor returns the tree-sitter language for a dialect.
func GrammarFor(dialect string) (*sitter.Language, bool) {
	initGrammars()
	g, ok := grammars[dialect]
	return g, ok
}

// Dialects lists the dialects GrammarFor knows, sorted.
func Dialects() []string {
	initGrammars()
	out := make([]string, 0, len(grammars))
	for d := range grammars {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// TreeSitter is a Parser backed by tree-sitter. It keeps one parser per
// dialect and is not safe for concurrent use.
type TreeSitter struct {
	parsers map[string]*sitter.Parser
}

// NewTreeSitter creates a tree-sitter backed Parser.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{parsers: make(map[string]*sitter.Parser)}
}

// Close releases the underlying parsers.
func (ts *TreeSitter) Close() {
	for _, p := range ts.parsers {
		p.Close()
	}
	ts.parsers = map[string]*sitter.Parser{}
}

// lenient dialects keep trees with recoverable errors; browsers accept far
// sloppier markup than the grammar does.
var lenient = map[string]bool{lang.HTML: true, lang.Vue: true, lang.Svelte: true}

// Parse parses src. For script dialects a tree containing ERROR or MISSING
// nodes is reported as ErrSyntax and no tree is returned.
func (ts *TreeSitter) Parse(ctx context.Context, src []byte, dialect string) (Tree, error) {
	p, ok := ts.parsers[dialect]
	if !ok {
		g, found := GrammarFor(dialect)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnsupported, dialect)
		}
		p = sitter.NewParser()
		p.SetLanguage(g)
		ts.parsers[dialect] = p
	}

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("%w: empty tree", ErrSyntax)
	}
	if root.HasError() && !lenient[dialect] {
		line := firstErrorLine(root)
		tree.Close()
		return nil, fmt.Errorf("%w near line %d", ErrSyntax, line)
	}
	return &tsTree{tree: tree, src: src}, nil
}

func firstErrorLine(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && c.HasError() {
			return firstErrorLine(c)
		}
	}
	return int(n.StartPoint().Row) + 1
}

type tsTree struct {
	tree *sitter.Tree
	src  []byte
}

func (t *tsTree) Root() Node {
	return &tsNode{n: t.tree.RootNode(), src: t.src}
}

func (t *tsTree) Close() {
	t.tree.Close()
}

func (t *tsTree) FindAll(kinds ...string) []Node {
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []Node
	stack := []*sitter.Node{t.tree.RootNode()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if want[n.Type()] {
			out = append(out, &tsNode{n: n, src: t.src})
		}
		// Push in reverse so children pop in document order.
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			if c := n.NamedChild(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
	return out
}

type tsNode struct {
	n   *sitter.Node
	src []byte
}

func (n *tsNode) Kind() string { return n.n.Type() }

func (n *tsNode) Line() int { return int(n.n.StartPoint().Row) + 1 }

func (n *tsNode) Text() string { return n.n.Content(n.src) }

func (n *tsNode) Field(name string) (Node, bool) {
	c := n.n.ChildByFieldName(name)
	if c == nil {
		return nil, false
	}
	return &tsNode{n: c, src: n.src}, true
}

func (n *tsNode) Parent() (Node, bool) {
	p := n.n.Parent()
	if p == nil {
		return nil, false
	}
	return &tsNode{n: p, src: n.src}, true
}

func (n *tsNode) NamedChildren() []Node {
	count := int(n.n.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.n.NamedChild(i); c != nil {
			out = append(out, &tsNode{n: c, src: n.src})
		}
	}
	return out
}
