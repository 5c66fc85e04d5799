package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsPruneDependencyDirs(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root, false, nil)
	require.NoError(t, err)

	assert.True(t, m.Match(filepath.Join(root, "node_modules"), true))
	assert.True(t, m.Match(filepath.Join(root, ".git"), true))
	assert.True(t, m.Match(filepath.Join(root, "src", "__pycache__"), true))
	assert.True(t, m.Match(filepath.Join(root, "module.pyc"), false))

	assert.False(t, m.Match(filepath.Join(root, "src"), true))
	assert.False(t, m.Match(filepath.Join(root, "src", "main.py"), false))
}

func TestGitignoreLoading(t *testing.T) {
	root := t.TempDir()
	content := "# build output\nsecret/\n*.log\n!keep.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(content), 0o644))

	m, err := NewMatcher(root, true, nil)
	require.NoError(t, err)

	assert.True(t, m.Match(filepath.Join(root, "secret"), true))
	assert.True(t, m.Match(filepath.Join(root, "debug.log"), false))
	assert.False(t, m.Match(filepath.Join(root, "keep.log"), false), "negated pattern")

	// Same repo scanned without .gitignore honoring.
	m, err = NewMatcher(root, false, nil)
	require.NoError(t, err)
	assert.False(t, m.Match(filepath.Join(root, "secret"), true))
}

func TestCallerPatterns(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root, false, []string{"generated/", "*.pb.py"})
	require.NoError(t, err)

	assert.True(t, m.Match(filepath.Join(root, "generated"), true))
	assert.True(t, m.Match(filepath.Join(root, "api", "service.pb.py"), false))
	assert.False(t, m.Match(filepath.Join(root, "api", "service.py"), false))
}

func TestDirectoryOnlyPatternsRequireDir(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root, false, []string{"docs/"})
	require.NoError(t, err)

	assert.True(t, m.Match(filepath.Join(root, "docs"), true))
	assert.False(t, m.Match(filepath.Join(root, "docs"), false), "plain file named docs")
}

func TestPathOutsideRootMatchedAsIs(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root, false, []string{"elsewhere*"})
	require.NoError(t, err)

	assert.True(t, m.Match("elsewhere/thing.py", false))
	assert.False(t, m.Match("/tmp/unrelated.py", false))
}
