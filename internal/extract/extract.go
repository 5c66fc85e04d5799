// Package extract walks tree-sitter syntax trees and collects the raw
// import strings of a source file.
package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"codeatlas/internal/parser"
)

// An ImportRef is a raw import string captured from a syntax tree, plus
// whether it is syntactically relative. Refs are transient: they exist only
// between extraction and graph building.
type ImportRef struct {
	Name     string
	Relative bool
}

// Extractor turns file bytes into import references using a parser pool.
type Extractor struct {
	pool *parser.Pool
}

// NewExtractor returns an extractor backed by the given pool.
func NewExtractor(pool *parser.Pool) *Extractor {
	return &Extractor{pool: pool}
}

// Extract parses content with the grammar for language and returns the
// file's imports, deduplicated, in first-seen order. Syntactically invalid
// input is handled best-effort: the walk visits error subtrees too, so any
// recognizable import still counts. parser.ErrUnsupportedLanguage is
// returned for languages without a grammar; callers treat that as "no
// imports", not as a scan failure.
func (e *Extractor) Extract(language string, content []byte) ([]ImportRef, error) {
	tree, err := e.pool.Parse(language, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	key := strings.ToLower(language)
	kinds := importKinds[key]

	var refs []ImportRef
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		refs = append(refs, ImportRef{Name: name, Relative: isRelative(key, name)})
	}

	// Explicit stack instead of recursion: pathological inputs can nest
	// arbitrarily deep and must not blow the goroutine stack.
	stack := []*tree_sitter.Node{tree.RootNode()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		if kinds[node.Kind()] {
			switch key {
			case "python":
				collectPython(node, content, add)
			default:
				collectJS(node, content, add)
			}
		}

		for i := node.ChildCount(); i > 0; i-- {
			stack = append(stack, node.Child(i-1))
		}
	}

	return refs, nil
}

// collectPython handles import_statement and import_from_statement nodes.
// Only the module path matters; imported names and aliases are discarded.
func collectPython(node *tree_sitter.Node, content []byte, add func(string)) {
	switch node.Kind() {
	case "import_statement":
		// "import a.b" and "import a.b as c" both contribute "a.b".
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "dotted_name":
				add(child.Utf8Text(content))
			case "aliased_import":
				if name := child.ChildByFieldName("name"); name != nil {
					add(name.Utf8Text(content))
				}
			}
		}
	case "import_from_statement":
		// "from a.b import x" contributes "a.b"; "from . import x"
		// contributes "."; relative prefixes keep their dots.
		if module := node.ChildByFieldName("module_name"); module != nil {
			add(module.Utf8Text(content))
		}
	}
}

// collectJS handles ES module imports, re-exports with a source, and
// CommonJS require() calls.
func collectJS(node *tree_sitter.Node, content []byte, add func(string)) {
	switch node.Kind() {
	case "import_statement", "export_statement":
		// export statements only count when they re-export from a source.
		if source := node.ChildByFieldName("source"); source != nil {
			add(unquote(source.Utf8Text(content)))
		}
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "identifier" || fn.Utf8Text(content) != "require" {
			return
		}
		args := node.ChildByFieldName("arguments")
		if args == nil {
			return
		}
		for i := uint(0); i < args.NamedChildCount(); i++ {
			if arg := args.NamedChild(i); arg.Kind() == "string" {
				add(unquote(arg.Utf8Text(content)))
				return
			}
		}
	}
}

func unquote(s string) string {
	return strings.Trim(s, "'\"`")
}

func isRelative(language, name string) bool {
	if language == "python" {
		return strings.HasPrefix(name, ".")
	}
	return strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") || name == "." || name == ".."
}
