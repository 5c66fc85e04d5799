// Package graph builds and analyzes file-level dependency graphs.
package graph

import "sort"

// Node represents one source file in the dependency graph, keyed by its
// canonical repo-relative path.
type Node struct {
	Path         string   `json:"path"`
	Module       string   `json:"module_name"`
	Language     string   `json:"language"`
	ExternalDeps []string `json:"external_deps"`

	externalSeen map[string]bool
}

// Edge represents one resolved import between two files. Edges only ever
// target registered nodes.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Import   string `json:"import"`
	Relative bool   `json:"is_relative"`
}

// SourceFile is the builder's view of a scanned file.
type SourceFile struct {
	Path     string
	Language string
}

// DependencyGraph owns the node and edge sets of one scan. It is immutable
// once built and safe for unlimited concurrent reads; a re-scan produces a
// new graph rather than updating this one.
type DependencyGraph struct {
	nodes map[string]*Node
	paths []string // node paths, sorted
	edges []Edge
	out   map[string][]string // deduplicated, sorted adjacency
	in    map[string][]string
}

// NodeCount returns the number of nodes.
func (g *DependencyGraph) NodeCount() int { return len(g.paths) }

// EdgeCount returns the number of edges.
func (g *DependencyGraph) EdgeCount() int { return len(g.edges) }

// Node looks up a node by its repo-relative path.
func (g *DependencyGraph) Node(path string) (*Node, bool) {
	n, ok := g.nodes[path]
	return n, ok
}

// Paths returns every node path in sorted order.
func (g *DependencyGraph) Paths() []string {
	out := make([]string, len(g.paths))
	copy(out, g.paths)
	return out
}

// Nodes returns every node, sorted by path.
func (g *DependencyGraph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.paths))
	for _, p := range g.paths {
		out = append(out, g.nodes[p])
	}
	return out
}

// Edges returns every edge, sorted by (source, target, import).
func (g *DependencyGraph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Successors returns the distinct targets the node imports, sorted.
func (g *DependencyGraph) Successors(path string) []string {
	return append([]string(nil), g.out[path]...)
}

// Predecessors returns the distinct sources importing the node, sorted.
func (g *DependencyGraph) Predecessors(path string) []string {
	return append([]string(nil), g.in[path]...)
}

// OutDegree counts the node's outgoing edges.
func (g *DependencyGraph) OutDegree(path string) int {
	n := 0
	for _, e := range g.edges {
		if e.Source == path {
			n++
		}
	}
	return n
}

// InDegree counts the node's incoming edges.
func (g *DependencyGraph) InDegree(path string) int {
	n := 0
	for _, e := range g.edges {
		if e.Target == path {
			n++
		}
	}
	return n
}

func (n *Node) addExternal(name string) {
	if n.externalSeen == nil {
		n.externalSeen = make(map[string]bool)
	}
	if n.externalSeen[name] {
		return
	}
	n.externalSeen[name] = true
	n.ExternalDeps = append(n.ExternalDeps, name)
}

func sortedUnique(values []string) []string {
	sort.Strings(values)
	out := values[:0]
	var prev string
	for i, v := range values {
		if i == 0 || v != prev {
			out = append(out, v)
		}
		prev = v
	}
	return out
}
