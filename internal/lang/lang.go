// Package lang maps file extensions to language names and tracks which
// languages have a tree-sitter grammar available for import extraction.
package lang

import (
	"path/filepath"
	"strings"
)

// Detector resolves a file path to a language name. It is immutable after
// construction and safe for concurrent use.
type Detector struct {
	byExtension map[string]string
	parseable   map[string]bool
}

// NewDetector builds a detector with the static extension table.
func NewDetector() *Detector {
	return &Detector{
		byExtension: map[string]string{
			".py":    "Python",
			".pyi":   "Python",
			".js":    "JavaScript",
			".jsx":   "JavaScript",
			".mjs":   "JavaScript",
			".cjs":   "JavaScript",
			".ts":    "TypeScript",
			".mts":   "TypeScript",
			".cts":   "TypeScript",
			".tsx":   "TSX", // deliberately not "TypeScript": TSX uses its own grammar
			".go":    "Go",
			".java":  "Java",
			".kt":    "Kotlin",
			".rs":    "Rust",
			".rb":    "Ruby",
			".php":   "PHP",
			".c":     "C",
			".h":     "C",
			".cc":    "C++",
			".cpp":   "C++",
			".cxx":   "C++",
			".hpp":   "C++",
			".cs":    "C#",
			".swift": "Swift",
			".scala": "Scala",
			".lua":   "Lua",
			".zig":   "Zig",
			".sh":    "Shell",
			".bash":  "Shell",
			".pl":    "Perl",
			".r":     "R",
			".html":  "HTML",
			".css":   "CSS",
			".scss":  "SCSS",
			".vue":   "Vue",
			".svelte": "Svelte",
			".sql":   "SQL",
			".json":  "JSON",
			".yaml":  "YAML",
			".yml":   "YAML",
			".toml":  "TOML",
			".md":    "Markdown",
		},
		parseable: map[string]bool{
			"python":     true,
			"javascript": true,
			"typescript": true,
			"tsx":        true,
		},
	}
}

// Detect returns the language for a file path by extension, case-insensitive.
// The second return is false when the extension is not in the table.
func (d *Detector) Detect(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := d.byExtension[ext]
	return name, ok
}

// Known reports whether the language has a display name in the table.
func (d *Detector) Known(language string) bool {
	lower := strings.ToLower(language)
	for _, name := range d.byExtension {
		if strings.ToLower(name) == lower {
			return true
		}
	}
	return false
}

// Parseable reports whether a grammar is available for the language. Many
// known languages are counted in statistics but never parsed for imports.
func (d *Detector) Parseable(language string) bool {
	return d.parseable[strings.ToLower(language)]
}
