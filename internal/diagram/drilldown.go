package diagram

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"codeatlas/internal/graph"
)

// maxGroupSamples caps the sample file names shown in a collapsed
// directory node's label.
const maxGroupSamples = 10

// renderDrilldown shows files within Depth directory levels under
// BasePath individually and collapses anything deeper into one synthetic
// node per directory at the cutoff level. Edges follow their endpoints'
// representatives; edges that collapse onto a single node are dropped.
func (r *Renderer) renderDrilldown(g *graph.DependencyGraph) Payload {
	ids := newIDTable()
	base := strings.Trim(r.opts.BasePath, "/")
	if base == "." {
		base = ""
	}
	depth := r.opts.Depth

	// Representative per node: the node itself, or its collapse directory.
	rep := make(map[string]string, g.NodeCount())
	grouped := make(map[string][]string)
	for _, p := range g.Paths() {
		rel, under := relTo(base, p)
		if !under {
			rep[p] = p
			continue
		}
		segments := strings.Split(rel, "/")
		if len(segments)-1 >= depth {
			dir := path.Join(base, strings.Join(segments[:depth], "/"))
			rep[p] = dir
			grouped[dir] = append(grouped[dir], p)
		} else {
			rep[p] = p
		}
	}

	dirs := make([]string, 0, len(grouped))
	for dir := range grouped {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", r.opts.Direction)

	for _, p := range g.Paths() {
		if rep[p] == p {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", ids.id(p), p)
		}
	}
	for _, dir := range dirs {
		files := grouped[dir]
		label := fmt.Sprintf("%s/ (%d files)", path.Base(dir), len(files))
		for i, f := range files {
			if i == maxGroupSamples {
				break
			}
			label += "<br/>" + path.Base(f)
		}
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", ids.id(dir), label)
	}

	seen := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		src, dst := rep[e.Source], rep[e.Target]
		if src == dst {
			// Self-loop created by collapsing, or a real self-import.
			continue
		}
		pair := [2]string{src, dst}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		fmt.Fprintf(&b, "    %s --> %s\n", ids.id(src), ids.id(dst))
	}

	for _, n := range g.Nodes() {
		if rep[n.Path] != n.Path {
			continue
		}
		fmt.Fprintf(&b, "    style %s fill:%s\n", ids.id(n.Path), languageColor(n.Language))
	}
	for _, dir := range dirs {
		fmt.Fprintf(&b, "    style %s fill:#c5b3e6\n", ids.id(dir))
	}

	meta := map[string]any{
		"strategy":    string(StrategyDrilldown),
		"direction":   r.opts.Direction,
		"base_path":   base,
		"depth":       depth,
		"node_count":  g.NodeCount(),
		"edge_count":  g.EdgeCount(),
		"directories": allDirectories(g),
		"nodes":       ids.nodeMap(),
	}
	title := "Dependency graph drill-down"
	if base != "" {
		title += ": " + base
	}
	return r.payload("dependency_drilldown", title, b.String(), meta)
}

// relTo returns p relative to base, and whether p lies under base.
// An empty base means the repo root, under which everything lies.
func relTo(base, p string) (string, bool) {
	if base == "" {
		return p, true
	}
	prefix := base + "/"
	if strings.HasPrefix(p, prefix) {
		return strings.TrimPrefix(p, prefix), true
	}
	return "", false
}

// allDirectories lists every ancestor directory of every node path,
// sorted, for client-side drill-down navigation.
func allDirectories(g *graph.DependencyGraph) []string {
	set := make(map[string]bool)
	for _, p := range g.Paths() {
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			set[dir] = true
		}
	}
	out := make([]string, 0, len(set))
	for dir := range set {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}
