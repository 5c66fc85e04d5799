// Package parser owns the tree-sitter parsers used for import extraction.
// Parsers are constructed lazily per language and cached, because grammar
// setup is the expensive part and one parser per language is enough.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrUnsupportedLanguage is returned when no grammar exists for a language.
// Callers skip import extraction for such files but still count them in stats.
var ErrUnsupportedLanguage = errors.New("no grammar for language")

// ErrParseFailed is returned when tree-sitter could not produce a tree at
// all. Syntactically invalid input is not a parse failure: tree-sitter
// returns a best-effort tree containing error nodes.
var ErrParseFailed = errors.New("parse produced no tree")

// Pool hands out cached parsers keyed by lowercase language name.
type Pool struct {
	mu      sync.Mutex
	parsers map[string]*tree_sitter.Parser
}

// NewPool returns an empty pool. Parsers are created on first use.
func NewPool() *Pool {
	return &Pool{parsers: make(map[string]*tree_sitter.Parser)}
}

// Parse parses raw file bytes with the grammar for the given language and
// returns the syntax tree. The caller must Close the returned tree.
func (p *Pool) Parse(language string, content []byte) (*tree_sitter.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	parser, err := p.parserFor(strings.ToLower(language))
	if err != nil {
		return nil, err
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, language)
	}
	return tree, nil
}

// Supported reports whether the pool can parse the given language.
func (p *Pool) Supported(language string) bool {
	return grammarFor(strings.ToLower(language)) != nil
}

// Close releases every cached parser.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, parser := range p.parsers {
		parser.Close()
		delete(p.parsers, key)
	}
}

// parserFor returns the cached parser for a language key, constructing it on
// first use. Caller holds p.mu.
func (p *Pool) parserFor(key string) (*tree_sitter.Parser, error) {
	if parser, ok := p.parsers[key]; ok {
		return parser, nil
	}

	grammar := grammarFor(key)
	if grammar == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, key)
	}

	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(grammar); err != nil {
		parser.Close()
		return nil, fmt.Errorf("set language %s: %w", key, err)
	}

	p.parsers[key] = parser
	return parser, nil
}

func grammarFor(key string) *tree_sitter.Language {
	switch key {
	case "python":
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	case "javascript":
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	case "typescript":
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case "tsx":
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	default:
		return nil
	}
}
