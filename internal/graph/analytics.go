package graph

import "sort"

// maxCycles bounds cycle enumeration on pathological graphs. The bound is
// generous enough that hitting it is itself a finding.
const maxCycles = 1000

// Ranking pairs a node path with a degree count.
type Ranking struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Ego describes one node's immediate neighborhood. A lookup miss returns
// Found=false rather than an error.
type Ego struct {
	Found     bool       `json:"found"`
	Path      string     `json:"path"`
	Imports   []string   `json:"imports"`
	Importers []string   `json:"importers"`
	InCycle   bool       `json:"in_cycle"`
	Cycles    [][]string `json:"cycles,omitempty"`
}

// Cycles enumerates the simple cycles of the graph. Each cycle is returned
// as an ordered node list with the first node repeated at the end, starts
// at its lexicographically smallest member, and appears exactly once, so
// the cycle list is reproducible across runs. A self-importing file is a
// length-1 cycle.
func (g *DependencyGraph) Cycles() [][]string {
	order := make(map[string]int, len(g.paths))
	for i, p := range g.paths {
		order[p] = i
	}

	var cycles [][]string
	onPath := make(map[string]bool)
	var stack []string

	var walk func(start, current string)
	walk = func(start, current string) {
		if len(cycles) >= maxCycles {
			return
		}
		onPath[current] = true
		stack = append(stack, current)

		for _, next := range g.out[current] {
			if next == start {
				cycle := make([]string, len(stack)+1)
				copy(cycle, stack)
				cycle[len(stack)] = start
				cycles = append(cycles, cycle)
				if len(cycles) >= maxCycles {
					break
				}
				continue
			}
			// Restricting the walk to nodes after the start node makes
			// the smallest member of each cycle its unique start, which
			// is what deduplicates rotations.
			if order[next] > order[start] && !onPath[next] {
				walk(start, next)
			}
		}

		stack = stack[:len(stack)-1]
		onPath[current] = false
	}

	for _, start := range g.paths {
		walk(start, start)
		if len(cycles) >= maxCycles {
			break
		}
	}
	return cycles
}

// HasCycle reports whether any cycle exists, without enumerating them.
func (g *DependencyGraph) HasCycle() bool {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(g.paths))

	var visit func(string) bool
	visit = func(n string) bool {
		color[n] = grey
		for _, next := range g.out[n] {
			switch color[next] {
			case grey:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[n] = black
		return false
	}

	for _, p := range g.paths {
		if color[p] == white && visit(p) {
			return true
		}
	}
	return false
}

// Depths computes the dependency depth of every node: 0 for leaves, else
// one more than the deepest successor. Acyclic graphs use memoized
// reverse-topological evaluation. Graphs with cycles fall back to a
// per-node walk in which an edge back into the current path contributes no
// further depth; this deliberately underestimates depth inside cycles
// instead of diverging, and that policy is fixed.
func (g *DependencyGraph) Depths() map[string]int {
	depths := make(map[string]int, len(g.paths))

	if !g.HasCycle() {
		memo := make(map[string]int, len(g.paths))
		var visit func(string) int
		visit = func(n string) int {
			if d, ok := memo[n]; ok {
				return d
			}
			best := 0
			for _, next := range g.out[n] {
				if d := 1 + visit(next); d > best {
					best = d
				}
			}
			memo[n] = best
			return best
		}
		for _, p := range g.paths {
			depths[p] = visit(p)
		}
		return depths
	}

	for _, p := range g.paths {
		depths[p] = g.depthFrom(p)
	}
	return depths
}

// Depth returns one node's depth, with ok=false for unknown paths.
func (g *DependencyGraph) Depth(path string) (int, bool) {
	if _, ok := g.nodes[path]; !ok {
		return 0, false
	}
	return g.Depths()[path], true
}

func (g *DependencyGraph) depthFrom(start string) int {
	onPath := make(map[string]bool)
	var walk func(string) int
	walk = func(n string) int {
		onPath[n] = true
		best := 0
		for _, next := range g.out[n] {
			if onPath[next] {
				continue
			}
			if d := 1 + walk(next); d > best {
				best = d
			}
		}
		onPath[n] = false
		return best
	}
	return walk(start)
}

// Leaves returns the sorted set of nodes with no outgoing edges.
func (g *DependencyGraph) Leaves() []string {
	var out []string
	for _, p := range g.paths {
		if len(g.out[p]) == 0 {
			out = append(out, p)
		}
	}
	return out
}

// Roots returns the sorted set of nodes with no incoming edges.
func (g *DependencyGraph) Roots() []string {
	var out []string
	for _, p := range g.paths {
		if len(g.in[p]) == 0 {
			out = append(out, p)
		}
	}
	return out
}

// MostImported ranks nodes by in-degree, ties broken by path order.
// n <= 0 returns the full ranking.
func (g *DependencyGraph) MostImported(n int) []Ranking {
	return g.rank(n, g.InDegree)
}

// MostDependencies ranks nodes by out-degree, ties broken by path order.
// n <= 0 returns the full ranking.
func (g *DependencyGraph) MostDependencies(n int) []Ranking {
	return g.rank(n, g.OutDegree)
}

func (g *DependencyGraph) rank(n int, degree func(string) int) []Ranking {
	ranks := make([]Ranking, 0, len(g.paths))
	for _, p := range g.paths {
		ranks = append(ranks, Ranking{Path: p, Count: degree(p)})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Count != ranks[j].Count {
			return ranks[i].Count > ranks[j].Count
		}
		return ranks[i].Path < ranks[j].Path
	})
	if n > 0 && n < len(ranks) {
		ranks = ranks[:n]
	}
	return ranks
}

// EgoGraph returns the direct imports and importers of one node and the
// cycles it participates in.
func (g *DependencyGraph) EgoGraph(path string) Ego {
	if _, ok := g.nodes[path]; !ok {
		return Ego{Found: false, Path: path}
	}

	ego := Ego{
		Found:     true,
		Path:      path,
		Imports:   g.Successors(path),
		Importers: g.Predecessors(path),
	}
	for _, cycle := range g.Cycles() {
		for _, member := range cycle[:len(cycle)-1] {
			if member == path {
				ego.InCycle = true
				ego.Cycles = append(ego.Cycles, cycle)
				break
			}
		}
	}
	return ego
}
