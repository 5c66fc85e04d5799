package diagram

import (
	"fmt"
	"strings"

	"codeatlas/internal/graph"
)

// renderFlat emits one node per file, one edge per distinct import pair,
// and one style line per node. Cycle members get the highlight color and
// cycle edges render dashed with a label.
func (r *Renderer) renderFlat(g *graph.DependencyGraph) Payload {
	ids := newIDTable()
	cycleNodes, cycleEdges := cycleSets(g)

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", r.opts.Direction)

	for _, p := range g.Paths() {
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", ids.id(p), p)
	}

	seen := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		pair := [2]string{e.Source, e.Target}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		if cycleEdges[pair] {
			fmt.Fprintf(&b, "    %s -.->|cycle| %s\n", ids.id(e.Source), ids.id(e.Target))
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", ids.id(e.Source), ids.id(e.Target))
		}
	}

	for _, n := range g.Nodes() {
		color := languageColor(n.Language)
		if cycleNodes[n.Path] {
			color = cycleColor
		}
		fmt.Fprintf(&b, "    style %s fill:%s\n", ids.id(n.Path), color)
	}

	meta := map[string]any{
		"strategy":   string(StrategyFlat),
		"direction":  r.opts.Direction,
		"node_count": g.NodeCount(),
		"edge_count": g.EdgeCount(),
		"nodes":      ids.nodeMap(),
	}
	return r.payload("dependency_flat", "Dependency graph", b.String(), meta)
}
