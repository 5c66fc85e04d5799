package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/parser"
)

func names(refs []ImportRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func TestPythonImports(t *testing.T) {
	e := NewExtractor(parser.NewPool())

	source := `
import os
import utils.helpers
import numpy as np
from collections import OrderedDict
from app.models import User, Post
from . import siblings
from ..pkg import thing
import os  # duplicate, must be dropped

def lazy():
    import json
`
	refs, err := e.Extract("Python", []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"os", "utils.helpers", "numpy", "collections", "app.models", ".", "..pkg", "json"}, names(refs))

	byName := make(map[string]ImportRef)
	for _, r := range refs {
		byName[r.Name] = r
	}
	assert.True(t, byName["."].Relative)
	assert.True(t, byName["..pkg"].Relative)
	assert.False(t, byName["utils.helpers"].Relative)
}

func TestJavaScriptImports(t *testing.T) {
	e := NewExtractor(parser.NewPool())

	source := `
import fs from 'fs';
import { helper } from "./utils";
import * as config from '../config';
export { thing } from './things';
export const local = 1;
const db = require('pg');
const legacy = require("./legacy");
const again = require('pg'); // duplicate
`
	refs, err := e.Extract("JavaScript", []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"fs", "./utils", "../config", "./things", "pg", "./legacy"}, names(refs))

	byName := make(map[string]ImportRef)
	for _, r := range refs {
		byName[r.Name] = r
	}
	assert.True(t, byName["./utils"].Relative)
	assert.True(t, byName["../config"].Relative)
	assert.False(t, byName["fs"].Relative)
}

func TestTypeScriptAndTSX(t *testing.T) {
	e := NewExtractor(parser.NewPool())

	refs, err := e.Extract("TypeScript", []byte(`import type { T } from './types';`))
	require.NoError(t, err)
	assert.Equal(t, []string{"./types"}, names(refs))

	refs, err = e.Extract("TSX", []byte("import React from 'react';\nexport const App = () => <div/>;\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"react"}, names(refs))
}

func TestErrorTolerantExtraction(t *testing.T) {
	e := NewExtractor(parser.NewPool())

	// Broken syntax before and after the import: the walk still visits
	// error subtrees and picks up whatever is recognizable.
	source := "def broken(:\nimport os\nclass Also(:\n"
	refs, err := e.Extract("Python", []byte(source))
	require.NoError(t, err)
	assert.Contains(t, names(refs), "os")
}

func TestUnsupportedLanguage(t *testing.T) {
	e := NewExtractor(parser.NewPool())

	_, err := e.Extract("Go", []byte("package main"))
	assert.ErrorIs(t, err, parser.ErrUnsupportedLanguage)
}
