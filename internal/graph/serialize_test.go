package graph

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/extract"
)

func TestToDict(t *testing.T) {
	files := []SourceFile{
		{Path: "a.py", Language: "Python"},
		{Path: "b.py", Language: "Python"},
		{Path: "c.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"a.py": {{Name: "b"}, {Name: "requests"}},
		"b.py": {{Name: "c"}},
	}

	dict := Build(files, imports).ToDict()

	require.Len(t, dict.Nodes, 3)
	a := dict.Nodes[0]
	assert.Equal(t, "a.py", a.Path)
	assert.Equal(t, "a", a.Module)
	assert.Equal(t, 0, a.InDegree)
	assert.Equal(t, 1, a.OutDegree)
	assert.Equal(t, 2, a.Depth)
	assert.True(t, a.IsRoot)
	assert.False(t, a.IsLeaf)
	assert.Equal(t, []string{"requests"}, a.ExternalDeps)

	c := dict.Nodes[2]
	assert.True(t, c.IsLeaf)
	assert.False(t, c.IsRoot)
	assert.Empty(t, c.ExternalDeps)

	assert.Equal(t, 3, dict.Stats.NodeCount)
	assert.Equal(t, 2, dict.Stats.EdgeCount)
	assert.Equal(t, 0, dict.Stats.CycleCount)
	assert.Equal(t, 2, dict.Stats.MaxDepth)
	assert.InDelta(t, 2.0/3.0, dict.Stats.AvgOutDegree, 1e-9)
	assert.NotNil(t, dict.Cycles)
}

func TestToDictCycleCount(t *testing.T) {
	files := []SourceFile{
		{Path: "a.py", Language: "Python"},
		{Path: "b.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"a.py": {{Name: "b"}},
		"b.py": {{Name: "a"}},
	}

	dict := Build(files, imports).ToDict()

	assert.Equal(t, 1, dict.Stats.CycleCount)
	require.Len(t, dict.Cycles, 1)
	assert.Equal(t, []string{"a.py", "b.py", "a.py"}, dict.Cycles[0])
}

func TestToJSONRoundTrip(t *testing.T) {
	files := []SourceFile{
		{Path: "a.py", Language: "Python"},
		{Path: "b.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"a.py": {{Name: "b"}},
	}
	g := Build(files, imports)

	data, err := g.ToJSON()
	require.NoError(t, err)

	var decoded Dict
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, g.ToDict(), decoded)
}

func TestToDOTShape(t *testing.T) {
	files := []SourceFile{
		{Path: "a.py", Language: "Python"},
		{Path: "b.py", Language: "Python"},
		{Path: "c.py", Language: "Python"},
	}
	imports := map[string][]extract.ImportRef{
		"a.py": {{Name: "b"}},
		"b.py": {{Name: "c"}},
	}

	dot := Build(files, imports).ToDOT()

	assert.True(t, strings.HasPrefix(dot, "digraph DependencyGraph {"))
	assert.True(t, strings.HasSuffix(dot, "}"))
	assert.Contains(t, dot, `"a.py" -> "b.py" [label="b"];`)
	assert.Contains(t, dot, `"b.py" -> "c.py" [label="c"];`)

	// Root and leaf styling differ from intermediates.
	assert.Contains(t, dot, `"a.py" [label="a.py", fillcolor="#aecbfa"];`)
	assert.Contains(t, dot, `"c.py" [label="c.py", fillcolor="#c8e6c9"];`)
	assert.Contains(t, dot, `"b.py" [label="b.py", fillcolor="grey86"];`)
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := Build(nil, nil).ToDOT()
	assert.True(t, strings.HasPrefix(dot, "digraph DependencyGraph {"))
	assert.True(t, strings.HasSuffix(dot, "}"))
}
