package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"main.py", "Python", true},
		{"stubs/types.pyi", "Python", true},
		{"index.js", "JavaScript", true},
		{"app.jsx", "JavaScript", true},
		{"mod.mjs", "JavaScript", true},
		{"server.ts", "TypeScript", true},
		{"component.tsx", "TSX", true},
		{"MAIN.PY", "Python", true}, // case-insensitive
		{"pkg/util.go", "Go", true},
		{"Build.java", "Java", true},
		{"lib.rs", "Rust", true},
		{"readme.md", "Markdown", true},
		{"Makefile", "", false},
		{"archive.tar.gz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := d.Detect(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseableSubsetOfKnown(t *testing.T) {
	d := NewDetector()

	for _, language := range []string{"Python", "JavaScript", "TypeScript", "TSX"} {
		assert.True(t, d.Parseable(language), "%s should be parseable", language)
		assert.True(t, d.Known(language), "%s should be known", language)
	}

	// Recognized for statistics only.
	for _, language := range []string{"Go", "Java", "Rust", "Ruby"} {
		assert.True(t, d.Known(language), "%s should be known", language)
		assert.False(t, d.Parseable(language), "%s should not be parseable", language)
	}

	assert.False(t, d.Known("Brainfuck"))
	assert.False(t, d.Parseable("Brainfuck"))
}
