package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/extract"
	"codeatlas/internal/graph"
)

func linearGraph(t *testing.T) *graph.DependencyGraph {
	t.Helper()
	files := []graph.SourceFile{
		{Path: "main.py", Language: "Python"},
		{Path: "utils.py", Language: "Python"},
		{Path: "helpers.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"main.py":  {{Name: "utils"}},
		"utils.py": {{Name: "helpers"}},
	}
	return graph.Build(files, imports)
}

func TestRenderFlatLinear(t *testing.T) {
	r := NewRenderer(Options{Direction: "TD", Strategy: StrategyFlat})
	p := r.Render(linearGraph(t))

	assert.True(t, strings.HasPrefix(p.Markup, "graph TD\n"))
	assert.Equal(t, 2, strings.Count(p.Markup, "-->"))
	assert.Equal(t, 3, strings.Count(p.Markup, "style "))
	assert.NotContains(t, p.Markup, "-.->")

	assert.Equal(t, "dependency_flat", p.Type)
	assert.NotEmpty(t, p.ID)

	nodes, ok := p.Metadata["nodes"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "main.py", nodes["main_py"])
}

func TestRenderFlatCycleStyling(t *testing.T) {
	files := []graph.SourceFile{
		{Path: "a.py", Language: "Python"},
		{Path: "b.py", Language: "Python"},
		{Path: "c.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"a.py": {{Name: "b"}, {Name: "c"}},
		"b.py": {{Name: "a"}},
	}
	g := graph.Build(files, imports)

	p := NewRenderer(Options{Strategy: StrategyFlat}).Render(g)

	assert.Contains(t, p.Markup, "a_py -.->|cycle| b_py")
	assert.Contains(t, p.Markup, "b_py -.->|cycle| a_py")
	assert.Contains(t, p.Markup, "a_py --> c_py")
	assert.Contains(t, p.Markup, "style a_py fill:"+cycleColor)
	assert.Contains(t, p.Markup, "style c_py fill:#3572A5")
}

func TestRenderFlatEmptyGraph(t *testing.T) {
	p := NewRenderer(Options{Strategy: StrategyFlat}).Render(graph.Build(nil, nil))
	assert.Equal(t, "graph LR\n", p.Markup)
}

func TestRenderAutoStrategy(t *testing.T) {
	var files []graph.SourceFile
	for _, p := range []string{"a/x.py", "a/y.py", "b/z.py"} {
		files = append(files, graph.SourceFile{Path: p, Language: "Python"})
	}
	g := graph.Build(files, nil)

	small := NewRenderer(Options{GroupThreshold: 50}).Render(g)
	assert.Equal(t, "dependency_flat", small.Type)

	forced := NewRenderer(Options{GroupThreshold: 2}).Render(g)
	assert.Equal(t, "dependency_grouped", forced.Type)
}

func TestRenderGrouped(t *testing.T) {
	files := []graph.SourceFile{
		{Path: "api/server.py", Language: "Python"},
		{Path: "api/routes.py", Language: "Python"},
		{Path: "web/app.ts", Language: "TypeScript"},
		{Path: "setup.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"api/server.py": {{Name: ".routes", Relative: true}},
	}
	g := graph.Build(files, imports)

	p := NewRenderer(Options{Strategy: StrategyGrouped, Direction: "LR"}).Render(g)

	assert.True(t, strings.HasPrefix(p.Markup, "graph LR\n"))
	assert.Contains(t, p.Markup, `subgraph group_api["api (Python)"]`)
	assert.Contains(t, p.Markup, `subgraph group_web["web (TypeScript)"]`)
	assert.Contains(t, p.Markup, `subgraph group__[". (Python)"]`)
	assert.Equal(t, 3, strings.Count(p.Markup, "    end\n"))
	assert.Contains(t, p.Markup, "api_server_py --> api_routes_py")

	edges, ok := p.Metadata["edges"].([]GroupedEdge)
	require.True(t, ok)
	require.Len(t, edges, 1)
	assert.False(t, edges[0].CrossGroup)
}

func TestRenderGroupedCrossGroupEdge(t *testing.T) {
	files := []graph.SourceFile{
		{Path: "web/app.ts", Language: "TypeScript"},
		{Path: "shared/util.ts", Language: "TypeScript"},
	}
	imports := map[string][]extract.ImportRef{
		"web/app.ts": {{Name: "../shared/util", Relative: true}},
	}
	g := graph.Build(files, imports)

	p := NewRenderer(Options{Strategy: StrategyGrouped}).Render(g)

	edges := p.Metadata["edges"].([]GroupedEdge)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].CrossGroup)
}

func TestRenderDrilldown(t *testing.T) {
	files := []graph.SourceFile{
		{Path: "main.py", Language: "Python"},
		{Path: "pkg/a.py", Language: "Python"},
		{Path: "pkg/b.py", Language: "Python"},
		{Path: "lib/c.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"main.py":  {{Name: "pkg.a"}, {Name: "lib.c"}},
		"pkg/a.py": {{Name: "pkg.b"}},
	}
	g := graph.Build(files, imports)

	p := NewRenderer(Options{Strategy: StrategyDrilldown, Depth: 1}).Render(g)

	// Root-level file stays individual; pkg and lib collapse.
	assert.Contains(t, p.Markup, `main_py["main.py"]`)
	assert.Contains(t, p.Markup, `pkg["pkg/ (2 files)<br/>a.py<br/>b.py"]`)
	assert.Contains(t, p.Markup, `lib["lib/ (1 files)<br/>c.py"]`)
	assert.Contains(t, p.Markup, "main_py --> pkg")
	assert.Contains(t, p.Markup, "main_py --> lib")
	// The pkg/a.py -> pkg/b.py edge collapses to a self-loop and is dropped.
	assert.NotContains(t, p.Markup, "pkg --> pkg")

	dirs, ok := p.Metadata["directories"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"lib", "pkg"}, dirs)
}

func TestRenderDrilldownBasePath(t *testing.T) {
	files := []graph.SourceFile{
		{Path: "src/app.py", Language: "Python"},
		{Path: "src/sub/deep.py", Language: "Python"},
		{Path: "other/x.py", Language: "Python"},
	}
	g := graph.Build(files, nil)

	p := NewRenderer(Options{Strategy: StrategyDrilldown, BasePath: "src", Depth: 1}).Render(g)

	// Outside the base path nodes stay individual, as do files directly
	// under it; only deeper files collapse.
	assert.Contains(t, p.Markup, `other_x_py["other/x.py"]`)
	assert.Contains(t, p.Markup, `src_app_py["src/app.py"]`)
	assert.Contains(t, p.Markup, `src_sub["sub/ (1 files)<br/>deep.py"]`)
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "src_app_ts", sanitizeID("src/app.ts"))
	assert.Equal(t, "n3_config_py", sanitizeID("3/config.py"))
	assert.Equal(t, "ab", sanitizeID("a б b"))
	assert.Equal(t, "", sanitizeID("!!!"))

	ids := newIDTable()
	assert.Equal(t, "n1", ids.id("!!!"))
	assert.Equal(t, "n2", ids.id("???"))
	assert.Equal(t, "n1", ids.id("!!!"))
}

func TestPayloadIDDeterministic(t *testing.T) {
	g := linearGraph(t)
	a := NewRenderer(Options{Project: "demo", Strategy: StrategyFlat}).Render(g)
	b := NewRenderer(Options{Project: "demo", Strategy: StrategyFlat}).Render(g)
	c := NewRenderer(Options{Project: "other", Strategy: StrategyFlat}).Render(g)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}
