package diagram

import (
	"fmt"
	"sort"
	"strings"

	"codeatlas/internal/graph"
)

// GroupedEdge records one edge of a grouped diagram and whether it
// crosses a top-level directory boundary.
type GroupedEdge struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	CrossGroup bool   `json:"cross_group"`
}

// renderGrouped buckets nodes into subgraphs by top-level directory.
// Edges still connect the underlying file nodes; cross-group edges are
// flagged in the metadata.
func (r *Renderer) renderGrouped(g *graph.DependencyGraph) Payload {
	ids := newIDTable()
	cycleNodes, _ := cycleSets(g)

	groups := make(map[string][]*graph.Node)
	for _, n := range g.Nodes() {
		top := topLevelDir(n.Path)
		groups[top] = append(groups[top], n)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", r.opts.Direction)

	for _, name := range names {
		members := groups[name]
		label := fmt.Sprintf("%s (%s)", name, pluralityLanguage(members))
		fmt.Fprintf(&b, "    subgraph %s[\"%s\"]\n", ids.id("group/"+name), label)
		for _, n := range members {
			fmt.Fprintf(&b, "        %s[\"%s\"]\n", ids.id(n.Path), n.Path)
		}
		fmt.Fprintln(&b, "    end")
	}

	var edges []GroupedEdge
	seen := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		pair := [2]string{e.Source, e.Target}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		fmt.Fprintf(&b, "    %s --> %s\n", ids.id(e.Source), ids.id(e.Target))
		edges = append(edges, GroupedEdge{
			Source:     e.Source,
			Target:     e.Target,
			CrossGroup: topLevelDir(e.Source) != topLevelDir(e.Target),
		})
	}

	for _, n := range g.Nodes() {
		color := languageColor(n.Language)
		if cycleNodes[n.Path] {
			color = cycleColor
		}
		fmt.Fprintf(&b, "    style %s fill:%s\n", ids.id(n.Path), color)
	}

	meta := map[string]any{
		"strategy":   string(StrategyGrouped),
		"direction":  r.opts.Direction,
		"node_count": g.NodeCount(),
		"edge_count": g.EdgeCount(),
		"groups":     names,
		"edges":      edges,
		"nodes":      ids.nodeMap(),
	}
	return r.payload("dependency_grouped", "Dependency graph by directory", b.String(), meta)
}

// topLevelDir returns the first path segment, or "." for root files.
func topLevelDir(path string) string {
	if i := strings.Index(path, "/"); i >= 0 {
		return path[:i]
	}
	return "."
}

// pluralityLanguage picks the most common language among the members,
// ties broken alphabetically.
func pluralityLanguage(members []*graph.Node) string {
	counts := make(map[string]int)
	for _, n := range members {
		counts[n.Language]++
	}
	best, bestCount := "", 0
	for language, count := range counts {
		if count > bestCount || (count == bestCount && language < best) {
			best, bestCount = language, count
		}
	}
	return best
}
