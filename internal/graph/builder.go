package graph

import (
	"path"
	"sort"
	"strings"

	"codeatlas/internal/extract"
)

// family is the closed set of language families the builder resolves
// imports for. Everything else registers as a node but resolves nothing.
type family int

const (
	familyNone family = iota
	familyPython
	familyJS
)

func familyOf(language string) family {
	switch strings.ToLower(language) {
	case "python":
		return familyPython
	case "javascript", "typescript", "tsx":
		return familyJS
	default:
		return familyNone
	}
}

// Build constructs a dependency graph from scanned files and their raw
// imports. The build is strictly two-phase: every file is registered as a
// node before any import is resolved, so forward references resolve no
// matter what order the scanner produced files in. The result is
// independent of input iteration order.
func Build(files []SourceFile, imports map[string][]extract.ImportRef) *DependencyGraph {
	g := &DependencyGraph{
		nodes: make(map[string]*Node, len(files)),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
	}

	// Phase 1: registration.
	for _, f := range files {
		if _, ok := g.nodes[f.Path]; ok {
			continue
		}
		g.nodes[f.Path] = &Node{
			Path:         f.Path,
			Module:       moduleName(f.Path, f.Language),
			Language:     f.Language,
			ExternalDeps: []string{},
		}
		g.paths = append(g.paths, f.Path)
	}
	sort.Strings(g.paths)

	// Phase 2: resolution, in sorted-path order for reproducibility.
	for _, src := range g.paths {
		node := g.nodes[src]
		for _, ref := range imports[src] {
			target, ok := g.resolve(node, ref.Name)
			if !ok {
				node.addExternal(ref.Name)
				continue
			}
			g.edges = append(g.edges, Edge{
				Source:   src,
				Target:   target,
				Import:   ref.Name,
				Relative: ref.Relative,
			})
		}
	}

	sort.Slice(g.edges, func(i, j int) bool {
		a, b := g.edges[i], g.edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Import < b.Import
	})

	for _, e := range g.edges {
		g.out[e.Source] = append(g.out[e.Source], e.Target)
		g.in[e.Target] = append(g.in[e.Target], e.Source)
	}
	for k, v := range g.out {
		g.out[k] = sortedUnique(v)
	}
	for k, v := range g.in {
		g.in[k] = sortedUnique(v)
	}

	return g
}

// resolve maps a raw import to a registered node path, or reports false to
// record it as an external dependency. Resolution never errors: an
// unresolved import is data, not a failure.
func (g *DependencyGraph) resolve(source *Node, name string) (string, bool) {
	switch familyOf(source.Language) {
	case familyPython:
		return g.resolvePython(source.Path, name)
	case familyJS:
		return g.resolveJS(source.Path, name)
	default:
		return "", false
	}
}

// moduleName derives the display module name for a file path.
// Python files become dotted paths with "__init__" collapsing into the
// package directory; everything else keeps its slash path, extension
// stripped.
func moduleName(filePath, language string) string {
	stripped := strings.TrimSuffix(filePath, path.Ext(filePath))
	if familyOf(language) != familyPython {
		return stripped
	}
	dotted := strings.ReplaceAll(stripped, "/", ".")
	if dotted == "__init__" {
		// Package marker at the repo root names the repo itself.
		return ""
	}
	return strings.TrimSuffix(dotted, ".__init__")
}
