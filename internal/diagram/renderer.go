// Package diagram renders dependency graphs and directory trees as
// Mermaid flowchart markup.
package diagram

import (
	"fmt"
	"strings"

	"codeatlas/internal/graph"
	"codeatlas/util"
)

// DefaultGroupThreshold is the node count above which auto strategy
// selection switches from flat to grouped rendering.
const DefaultGroupThreshold = 50

// Payload is one rendered diagram. Ephemeral; persistence is the
// store's concern.
type Payload struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Markup   string         `json:"markup"`
	Metadata map[string]any `json:"metadata"`
}

// Strategy selects how a dependency graph is laid out.
type Strategy string

const (
	StrategyAuto      Strategy = "auto"
	StrategyFlat      Strategy = "flat"
	StrategyGrouped   Strategy = "grouped"
	StrategyDrilldown Strategy = "drilldown"
)

// Options configures a Renderer. Zero values fall back to sane defaults
// in NewRenderer.
type Options struct {
	Project        string
	Direction      string // LR or TD
	Strategy       Strategy
	GroupThreshold int

	// Drill-down only.
	BasePath string
	Depth    int
}

// Renderer turns a built dependency graph into diagram payloads. It is
// stateless across calls and safe for concurrent use.
type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	if opts.Direction != "LR" && opts.Direction != "TD" {
		opts.Direction = "LR"
	}
	if opts.GroupThreshold <= 0 {
		opts.GroupThreshold = DefaultGroupThreshold
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyAuto
	}
	if opts.Depth <= 0 {
		opts.Depth = 1
	}
	return &Renderer{opts: opts}
}

// Render produces a diagram for the graph under the configured strategy.
// Auto picks grouped above the threshold, flat otherwise; drill-down is
// only used when asked for explicitly. Rendering never fails, including
// on the empty graph.
func (r *Renderer) Render(g *graph.DependencyGraph) Payload {
	strategy := r.opts.Strategy
	if strategy == StrategyAuto {
		if g.NodeCount() > r.opts.GroupThreshold {
			strategy = StrategyGrouped
		} else {
			strategy = StrategyFlat
		}
	}

	switch strategy {
	case StrategyGrouped:
		return r.renderGrouped(g)
	case StrategyDrilldown:
		return r.renderDrilldown(g)
	default:
		return r.renderFlat(g)
	}
}

func (r *Renderer) payload(kind, title, markup string, meta map[string]any) Payload {
	return Payload{
		ID:       util.PayloadID(r.opts.Project, kind, title),
		Type:     kind,
		Title:    title,
		Markup:   markup,
		Metadata: meta,
	}
}

// idTable assigns sanitized Mermaid node IDs and remembers the mapping
// back to original paths for the payload metadata.
type idTable struct {
	next   int
	byKey  map[string]string
	toPath map[string]string
}

func newIDTable() *idTable {
	return &idTable{
		byKey:  make(map[string]string),
		toPath: make(map[string]string),
	}
}

func (t *idTable) id(key string) string {
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := sanitizeID(key)
	if id == "" {
		t.next++
		id = fmt.Sprintf("n%d", t.next)
	}
	t.byKey[key] = id
	t.toPath[id] = key
	return id
}

// nodeMap returns sanitized ID to original path.
func (t *idTable) nodeMap() map[string]string {
	out := make(map[string]string, len(t.toPath))
	for id, p := range t.toPath {
		out[id] = p
	}
	return out
}

// sanitizeID makes a path safe as a Mermaid node ID: separators and dots
// become underscores, anything else outside [A-Za-z0-9_] is dropped, and
// a leading digit gets a letter prefix. May return "" for pathological
// input; the idTable substitutes a placeholder then.
func sanitizeID(key string) string {
	var b strings.Builder
	for _, c := range key {
		switch {
		case c == '/' || c == '\\' || c == '.':
			b.WriteByte('_')
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		}
	}
	s := b.String()
	if s == "" {
		return ""
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "n" + s
	}
	return s
}

// languageColor returns the fill color for a node of the given language.
func languageColor(language string) string {
	switch strings.ToLower(language) {
	case "python":
		return "#3572A5"
	case "javascript":
		return "#f1e05a"
	case "typescript", "tsx":
		return "#3178c6"
	default:
		return "#cccccc"
	}
}

const cycleColor = "#ff6b6b"

// cycleSets collects the nodes and directed edges participating in any
// detected cycle, so renderers can highlight both.
func cycleSets(g *graph.DependencyGraph) (map[string]bool, map[[2]string]bool) {
	nodes := make(map[string]bool)
	edges := make(map[[2]string]bool)
	for _, cycle := range g.Cycles() {
		for i := 0; i < len(cycle)-1; i++ {
			nodes[cycle[i]] = true
			edges[[2]string{cycle[i], cycle[i+1]}] = true
		}
	}
	return nodes, edges
}
