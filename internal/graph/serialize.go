package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeDict is the serialized form of a node, enriched with per-node
// metrics.
type NodeDict struct {
	Path         string   `json:"path"`
	Module       string   `json:"module_name"`
	Language     string   `json:"language"`
	InDegree     int      `json:"in_degree"`
	OutDegree    int      `json:"out_degree"`
	Depth        int      `json:"depth"`
	IsLeaf       bool     `json:"is_leaf"`
	IsRoot       bool     `json:"is_root"`
	ExternalDeps []string `json:"external_deps"`
}

// GraphStats aggregates graph-wide metrics.
type GraphStats struct {
	NodeCount    int     `json:"node_count"`
	EdgeCount    int     `json:"edge_count"`
	CycleCount   int     `json:"cycle_count"`
	MaxDepth     int     `json:"max_depth"`
	AvgOutDegree float64 `json:"avg_out_degree"`
}

// Dict is the full serialized graph.
type Dict struct {
	Nodes  []NodeDict `json:"nodes"`
	Edges  []Edge     `json:"edges"`
	Cycles [][]string `json:"cycles"`
	Stats  GraphStats `json:"stats"`
}

// ToDict serializes the graph with per-node metrics and aggregate stats.
func (g *DependencyGraph) ToDict() Dict {
	depths := g.Depths()
	cycles := g.Cycles()

	dict := Dict{
		Nodes:  make([]NodeDict, 0, len(g.paths)),
		Edges:  g.Edges(),
		Cycles: cycles,
	}
	if dict.Cycles == nil {
		dict.Cycles = [][]string{}
	}

	maxDepth := 0
	for _, p := range g.paths {
		node := g.nodes[p]
		depth := depths[p]
		if depth > maxDepth {
			maxDepth = depth
		}
		dict.Nodes = append(dict.Nodes, NodeDict{
			Path:         node.Path,
			Module:       node.Module,
			Language:     node.Language,
			InDegree:     g.InDegree(p),
			OutDegree:    g.OutDegree(p),
			Depth:        depth,
			IsLeaf:       len(g.out[p]) == 0,
			IsRoot:       len(g.in[p]) == 0,
			ExternalDeps: append([]string{}, node.ExternalDeps...),
		})
	}

	avg := 0.0
	if len(g.paths) > 0 {
		avg = float64(len(g.edges)) / float64(len(g.paths))
	}
	dict.Stats = GraphStats{
		NodeCount:    len(g.paths),
		EdgeCount:    len(g.edges),
		CycleCount:   len(cycles),
		MaxDepth:     maxDepth,
		AvgOutDegree: avg,
	}
	return dict
}

// ToJSON serializes the graph to JSON, structurally identical to ToDict.
func (g *DependencyGraph) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(g.ToDict(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return data, nil
}

// ToDOT renders the graph in Graphviz DOT form. Roots and leaves get
// distinct colors; intermediate nodes are shaded by depth.
func (g *DependencyGraph) ToDOT() string {
	depths := g.Depths()

	var b strings.Builder
	b.WriteString("digraph DependencyGraph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")

	for _, p := range g.paths {
		fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q];\n", p, p, g.dotColor(p, depths[p]))
	}
	for _, e := range g.edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Import)
	}

	b.WriteString("}")
	return b.String()
}

func (g *DependencyGraph) dotColor(path string, depth int) string {
	switch {
	case len(g.in[path]) == 0:
		return "#aecbfa" // root
	case len(g.out[path]) == 0:
		return "#c8e6c9" // leaf
	default:
		// Deeper intermediates get darker shades.
		shade := 92 - depth*6
		if shade < 50 {
			shade = 50
		}
		return fmt.Sprintf("grey%d", shade)
	}
}
