package extract

import (
	"context"

	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
	"github.com/InfiniQuest-App/wisdom-store/internal/syntax"
)

// Node kinds of the JavaScript/TypeScript grammars.
const (
	kindFunctionDecl     = "function_declaration"
	kindGeneratorDecl    = "generator_function_declaration"
	kindFunctionSig      = "function_signature"
	kindVariableDecl     = "variable_declarator"
	kindClassDecl        = "class_declaration"
	kindAbstractClass    = "abstract_class_declaration"
	kindInterfaceDecl    = "interface_declaration"
	kindTypeAlias        = "type_alias_declaration"
	kindEnumDecl         = "enum_declaration"
	kindMethodDef        = "method_definition"
	kindClassBody        = "class_body"
	kindExportStatement  = "export_statement"
	kindExportClause     = "export_clause"
	kindExportSpecifier  = "export_specifier"
	kindLexicalDecl      = "lexical_declaration"
	kindVariableStmt     = "variable_declaration"
	kindIdentifier       = "identifier"
	kindComputedProperty = "computed_property_name"
)

// functionValues are initializer kinds that make a declarator a function.
var functionValues = map[string]bool{
	"arrow_function":      true,
	"function":            true,
	"function_expression": true,
	"generator_function":  true,
}

func typed(dialect string) bool {
	return dialect == lang.TypeScript || dialect == lang.TSX
}

func (e *Extractor) fromTree(ctx context.Context, src []byte, dialect string) (Result, error) {
	tree, err := e.parser.Parse(ctx, src, dialect)
	if err != nil {
		return Result{}, err
	}
	defer tree.Close()

	var res Result
	declarations(tree, dialect, &res)
	ScanLines(string(src), e.apiPrefix, &res)
	return res, nil
}

// declarations applies every tree rule independently; a name may be recorded
// by more than one rule.
func declarations(tree syntax.Tree, dialect string, res *Result) {
	kinds := []string{
		kindFunctionDecl, kindGeneratorDecl, kindVariableDecl,
		kindClassDecl, kindMethodDef, kindExportStatement,
	}
	if typed(dialect) {
		kinds = append(kinds, kindFunctionSig, kindAbstractClass,
			kindInterfaceDecl, kindTypeAlias, kindEnumDecl)
	}

	for _, n := range tree.FindAll(kinds...) {
		switch n.Kind() {
		case kindFunctionDecl, kindGeneratorDecl, kindFunctionSig:
			addNamed(res, registry.Functions, n)
		case kindVariableDecl:
			declarator(res, n)
		case kindClassDecl, kindAbstractClass, kindInterfaceDecl, kindTypeAlias, kindEnumDecl:
			addNamed(res, registry.Types, n)
		case kindMethodDef:
			method(res, n)
		case kindExportStatement:
			exportStatement(res, n)
		}
	}
}

func addNamed(res *Result, cat registry.Category, n syntax.Node) {
	if name, ok := n.Field("name"); ok {
		res.add(cat, name.Text(), name.Line())
	}
}

func declarator(res *Result, n syntax.Node) {
	name, ok := n.Field("name")
	if !ok || name.Kind() != kindIdentifier {
		return // destructuring patterns are not indexed
	}
	if v, ok := n.Field("value"); ok && functionValues[v.Kind()] {
		res.add(registry.Functions, name.Text(), name.Line())
		return
	}
	res.add(registry.Variables, name.Text(), name.Line())
}

func method(res *Result, n syntax.Node) {
	parent, ok := n.Parent()
	if !ok || parent.Kind() != kindClassBody {
		return
	}
	name, ok := n.Field("name")
	if !ok || name.Kind() == kindComputedProperty {
		return
	}
	if name.Text() == "constructor" {
		return
	}
	res.add(registry.Functions, name.Text(), name.Line())
}

func exportStatement(res *Result, n syntax.Node) {
	if decl, ok := n.Field("declaration"); ok {
		switch decl.Kind() {
		case kindLexicalDecl, kindVariableStmt:
			for _, c := range decl.NamedChildren() {
				if c.Kind() != kindVariableDecl {
					continue
				}
				if name, ok := c.Field("name"); ok && name.Kind() == kindIdentifier {
					res.add(registry.Exports, name.Text(), name.Line())
				}
			}
		default:
			addNamed(res, registry.Exports, decl)
		}
		return
	}

	if v, ok := n.Field("value"); ok {
		if v.Kind() == kindIdentifier {
			res.add(registry.Exports, v.Text(), v.Line())
		}
		return
	}

	for _, c := range n.NamedChildren() {
		if c.Kind() != kindExportClause {
			continue
		}
		for _, spec := range c.NamedChildren() {
			if spec.Kind() != kindExportSpecifier {
				continue
			}
			// The alias is the name importers see.
			if alias, ok := spec.Field("alias"); ok {
				res.add(registry.Exports, alias.Text(), alias.Line())
			} else if name, ok := spec.Field("name"); ok {
				res.add(registry.Exports, name.Text(), name.Line())
			}
		}
	}
}
