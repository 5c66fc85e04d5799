package diagram

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"codeatlas/util"
)

const (
	treeMaxSubdirs = 10
	treeMaxFiles   = 5
)

// TreeRenderer renders the raw filesystem tree under a repository root,
// independent of any dependency graph. Directories render as [label]
// nodes, files as (label) nodes.
type TreeRenderer struct {
	root      string
	maxDepth  int
	direction string
	project   string
}

func NewTreeRenderer(root, project string, maxDepth int, direction string) *TreeRenderer {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	if direction != "LR" && direction != "TD" {
		direction = "TD"
	}
	return &TreeRenderer{
		root:      root,
		maxDepth:  maxDepth,
		direction: direction,
		project:   project,
	}
}

// Render walks the tree up to the configured depth. Dot-prefixed entries
// are skipped; each directory shows at most the first 10 subdirectories
// and 5 files, with a synthetic overflow node when truncated. An
// unreadable root is an error; unreadable subdirectories are skipped.
func (t *TreeRenderer) Render() (Payload, error) {
	abs, err := filepath.Abs(t.root)
	if err != nil {
		return Payload{}, fmt.Errorf("resolve root: %w", err)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return Payload{}, fmt.Errorf("read root: %w", err)
	}

	ids := newIDTable()
	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", t.direction)

	rootID := ids.id(".")
	fmt.Fprintf(&b, "    %s[\"%s\"]\n", rootID, filepath.Base(abs))
	t.walk(&b, ids, abs, ".", rootID, 0)

	meta := map[string]any{
		"root":      abs,
		"max_depth": t.maxDepth,
		"nodes":     ids.nodeMap(),
	}
	p := Payload{
		ID:       util.PayloadID(t.project, "directory_tree", abs),
		Type:     "directory_tree",
		Title:    "Directory tree: " + filepath.Base(abs),
		Markup:   b.String(),
		Metadata: meta,
	}
	return p, nil
}

func (t *TreeRenderer) walk(b *strings.Builder, ids *idTable, dir, rel, parentID string, depth int) {
	if depth >= t.maxDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var subdirs, files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			subdirs = append(subdirs, name)
		} else {
			files = append(files, name)
		}
	}

	shownDirs := subdirs
	if len(shownDirs) > treeMaxSubdirs {
		shownDirs = shownDirs[:treeMaxSubdirs]
	}
	for _, name := range shownDirs {
		childRel := path.Join(rel, name)
		id := ids.id(childRel)
		fmt.Fprintf(b, "    %s[\"%s\"]\n", id, name)
		fmt.Fprintf(b, "    %s --> %s\n", parentID, id)
		t.walk(b, ids, filepath.Join(dir, name), childRel, id, depth+1)
	}
	if n := len(subdirs) - len(shownDirs); n > 0 {
		id := ids.id(path.Join(rel, "...more-dirs"))
		fmt.Fprintf(b, "    %s[\"... +%d more\"]\n", id, n)
		fmt.Fprintf(b, "    %s --> %s\n", parentID, id)
	}

	shownFiles := files
	if len(shownFiles) > treeMaxFiles {
		shownFiles = shownFiles[:treeMaxFiles]
	}
	for _, name := range shownFiles {
		id := ids.id(path.Join(rel, name))
		fmt.Fprintf(b, "    %s(\"%s\")\n", id, name)
		fmt.Fprintf(b, "    %s --> %s\n", parentID, id)
	}
	if n := len(files) - len(shownFiles); n > 0 {
		id := ids.id(path.Join(rel, "...more-files"))
		fmt.Fprintf(b, "    %s(\"... +%d more\")\n", id, n)
		fmt.Fprintf(b, "    %s --> %s\n", parentID, id)
	}
}
