package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSupportedLanguages(t *testing.T) {
	pool := NewPool()
	defer pool.Close()

	tests := []struct {
		language string
		source   string
	}{
		{"Python", "import os\n"},
		{"JavaScript", "import fs from 'fs';\n"},
		{"TypeScript", "import { x } from './x';\n"},
		{"TSX", "import React from 'react';\nconst a = <div/>;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			tree, err := pool.Parse(tt.language, []byte(tt.source))
			require.NoError(t, err)
			defer tree.Close()
			assert.NotNil(t, tree.RootNode())
			assert.False(t, tree.RootNode().HasError())
		})
	}
}

func TestParseInvalidSourceStillYieldsTree(t *testing.T) {
	pool := NewPool()
	defer pool.Close()

	tree, err := pool.Parse("python", []byte("def broken(:\n    import os\n"))
	require.NoError(t, err, "invalid syntax must not be a parse failure")
	defer tree.Close()

	root := tree.RootNode()
	require.NotNil(t, root)
	assert.True(t, root.HasError(), "tree should contain error nodes")
}

func TestUnsupportedLanguage(t *testing.T) {
	pool := NewPool()
	defer pool.Close()

	_, err := pool.Parse("Go", []byte("package main"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.False(t, pool.Supported("Go"))
	assert.True(t, pool.Supported("tsx"))
}
