// Package ignore prunes repository traversal with gitignore-style patterns.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// defaultPatterns is the fixed deny-list applied to every scan before the
// repository's own .gitignore and any caller-supplied patterns.
var defaultPatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"node_modules/",
	"bower_components/",
	"__pycache__/",
	".venv/",
	"venv/",
	".tox/",
	".mypy_cache/",
	".pytest_cache/",
	".ruff_cache/",
	"*.egg-info/",
	"dist/",
	"build/",
	"target/",
	"out/",
	".next/",
	".nuxt/",
	"coverage/",
	".cache/",
	".idea/",
	".vscode/",
	"*.pyc",
	"*.pyo",
	"*.class",
	"*.o",
	"*.min.js",
	".DS_Store",
	"Thumbs.db",
}

// Matcher answers whether a path should be excluded from a scan. Matching
// uses gitignore semantics: * and ** globbing, trailing / for directories,
// leading ! for negation.
type Matcher struct {
	root     string
	patterns *gitignore.GitIgnore
}

// NewMatcher compiles the default deny-list, the repository's .gitignore
// (when useGitignore is set and the file exists) and any extra patterns,
// in that order. Later patterns win, matching gitignore precedence.
func NewMatcher(root string, useGitignore bool, extra []string) (*Matcher, error) {
	lines := append([]string{}, defaultPatterns...)

	if useGitignore {
		data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
		if err == nil {
			lines = append(lines, strings.Split(string(data), "\n")...)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	lines = append(lines, extra...)

	return &Matcher{
		root:     root,
		patterns: gitignore.CompileIgnoreLines(lines...),
	}, nil
}

// Match reports whether the path is ignored. isDir appends a synthetic
// trailing slash so directory-only patterns match. The scanner calls this on
// every directory before descending, which prunes whole subtrees instead of
// filtering files after the fact.
func (m *Matcher) Match(path string, isDir bool) bool {
	candidate := m.relative(path)
	if candidate == "" || candidate == "." {
		return false
	}
	if isDir && !strings.HasSuffix(candidate, "/") {
		candidate += "/"
	}
	return m.patterns.MatchesPath(candidate)
}

// relative converts a candidate to a POSIX path relative to the repo root.
// Paths outside the root are matched as-is.
func (m *Matcher) relative(path string) string {
	rel, err := filepath.Rel(m.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
