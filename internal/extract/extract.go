// Package extract turns one source file into symbol, route and page events.
// Extractors never touch the registry; the scan folds each file's Result in
// traversal order.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
	"github.com/InfiniQuest-App/wisdom-store/internal/syntax"
)

// DefaultAPIPrefix is the path prefix a mount declaration must start with to
// be recorded.
const DefaultAPIPrefix = "/api"

// ErrNoScriptRunner is returned for script strategies when no runner is
// configured.
var ErrNoScriptRunner = errors.New("no script runner configured")

// Symbol is one observed declaration.
type Symbol struct {
	Category registry.Category `json:"category"`
	Name     string            `json:"name"`
	Line     int               `json:"line"`
}

// Route is one observed route or mount declaration.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Line   int    `json:"line"`
}

// Result is everything one file contributed.
type Result struct {
	Symbols []Symbol
	Routes  []Route
	Page    *registry.Page

	// Degraded is set when part of the file was handled by a lower-fidelity
	// path, e.g. an embedded script that fell back to heuristics.
	Degraded bool
}

func (r *Result) add(cat registry.Category, name string, line int) {
	if name == "" {
		return
	}
	r.Symbols = append(r.Symbols, Symbol{Category: cat, Name: name, Line: line})
}

// merge appends other's events with offset added to every line.
func (r *Result) merge(other Result, offset int) {
	for _, s := range other.Symbols {
		s.Line += offset
		r.Symbols = append(r.Symbols, s)
	}
	for _, rt := range other.Routes {
		rt.Line += offset
		r.Routes = append(r.Routes, rt)
	}
	r.Degraded = r.Degraded || other.Degraded
}

// Apply folds the result into reg, attributing every event to file.
func (r Result) Apply(reg *registry.Registry, file string) {
	for _, s := range r.Symbols {
		reg.AddSymbol(s.Category, s.Name, file, s.Line)
	}
	for _, rt := range r.Routes {
		reg.AddRoute(registry.Route{Method: rt.Method, Path: rt.Path, File: file, Line: rt.Line})
	}
	if r.Page != nil {
		reg.AddPage(*r.Page)
	}
}

// ScriptRunner executes a project extraction script against one file.
type ScriptRunner interface {
	RunExtraction(ctx context.Context, scriptPath, file string, src []byte) (Result, error)
}

// Extractor dispatches a file to the extractor its strategy names.
type Extractor struct {
	parser    syntax.Parser
	scripts   ScriptRunner
	apiPrefix string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithScriptRunner enables the script strategy.
func WithScriptRunner(r ScriptRunner) Option {
	return func(e *Extractor) {
		e.scripts = r
	}
}

// WithAPIPrefix overrides the prefix that mount declarations must carry.
func WithAPIPrefix(prefix string) Option {
	return func(e *Extractor) {
		if prefix != "" {
			e.apiPrefix = prefix
		}
	}
}

// New creates an Extractor that parses through p.
func New(p syntax.Parser, opts ...Option) *Extractor {
	e := &Extractor{parser: p, apiPrefix: DefaultAPIPrefix}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the strategy's extractor over src. file is the
// project-relative path. An error means the file contributes nothing.
func (e *Extractor) Extract(ctx context.Context, s lang.Strategy, file string, src []byte) (Result, error) {
	switch s.Kind {
	case lang.Tree:
		return e.fromTree(ctx, src, s.Language)
	case lang.Heuristic:
		return Heuristic(s.Language, src, e.apiPrefix), nil
	case lang.Markup:
		return e.fromMarkup(ctx, file, src, s)
	case lang.Script:
		if e.scripts == nil {
			return Result{}, ErrNoScriptRunner
		}
		res, err := e.scripts.RunExtraction(ctx, s.ScriptPath, file, src)
		if err != nil {
			return Result{}, fmt.Errorf("script %s: %w", s.ScriptPath, err)
		}
		return res, nil
	}
	return Result{}, nil
}
