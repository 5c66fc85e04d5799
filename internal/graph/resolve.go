package graph

import (
	"path"
	"strings"
)

// jsExtensions is the probe order for extensionless JS/TS specifiers.
var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"}

// resolvePython resolves a Python import against the registered nodes.
//
// Relative imports ascend one parent directory per leading dot beyond the
// first, then append the remaining dotted segments. Absolute imports map
// dotted form to a path and, failing that, fall back to a module-name scan:
// an exact module match wins over a dotted-suffix match, and within each
// pass the first node in sorted-path order wins. That precedence is fixed;
// ambiguity is never an error.
func (g *DependencyGraph) resolvePython(source, name string) (string, bool) {
	if strings.HasPrefix(name, ".") {
		dots := 0
		for dots < len(name) && name[dots] == '.' {
			dots++
		}
		rest := name[dots:]

		dir := path.Dir(source)
		for i := 1; i < dots; i++ {
			dir = path.Dir(dir)
		}

		base := dir
		if rest != "" {
			base = path.Join(dir, strings.ReplaceAll(rest, ".", "/"))
		}
		return g.firstPythonCandidate(base, rest != "")
	}

	base := path.Join(strings.Split(name, ".")...)
	if target, ok := g.firstPythonCandidate(base, true); ok {
		return target, true
	}

	// Fallback: exact module-name match, then dotted-suffix match.
	for _, p := range g.paths {
		if g.nodes[p].Module == name {
			return p, true
		}
	}
	suffix := "." + name
	for _, p := range g.paths {
		if strings.HasSuffix(g.nodes[p].Module, suffix) {
			return p, true
		}
	}
	return "", false
}

// firstPythonCandidate probes module-file forms before package forms.
// asModule is false for bare-relative imports ("from . import x"), where
// only the package __init__ forms make sense.
func (g *DependencyGraph) firstPythonCandidate(base string, asModule bool) (string, bool) {
	var candidates []string
	if asModule && base != "." && base != "" {
		candidates = append(candidates, base+".py", base+".pyi")
	}
	candidates = append(candidates,
		path.Join(base, "__init__.py"),
		path.Join(base, "__init__.pyi"),
	)
	for _, c := range candidates {
		if _, ok := g.nodes[c]; ok {
			return c, true
		}
	}
	return "", false
}

// resolveJS resolves a JS/TS/TSX specifier. Bare specifiers (no leading
// "." or "/") are always package dependencies and stay external. Relative
// specifiers are normalized against the importing file's directory;
// rooted specifiers against the repo root.
func (g *DependencyGraph) resolveJS(source, name string) (string, bool) {
	var resolved string
	switch {
	case strings.HasPrefix(name, "."):
		resolved = path.Join(path.Dir(source), name)
	case strings.HasPrefix(name, "/"):
		resolved = path.Clean(strings.TrimPrefix(name, "/"))
	default:
		return "", false
	}
	if resolved == "" || strings.HasPrefix(resolved, "..") {
		return "", false
	}

	for _, ext := range jsExtensions {
		if _, ok := g.nodes[resolved+ext]; ok {
			return resolved + ext, true
		}
	}
	for _, ext := range jsExtensions {
		index := path.Join(resolved, "index"+ext)
		if _, ok := g.nodes[index]; ok {
			return index, true
		}
	}
	// Specifier may already carry its extension.
	if _, ok := g.nodes[resolved]; ok {
		return resolved, true
	}
	return "", false
}
