// Package server exposes the scan, graph and diagram engine over MCP.
package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codeatlas/internal/config"
	"codeatlas/internal/graph"
	"codeatlas/internal/scanner"
	"codeatlas/internal/store"
)

const serverVersion = "0.2.0"

const systemPrompt = `# CodeAtlas MCP Server

CodeAtlas builds a file-level dependency graph of a repository by parsing
import statements (Python, JavaScript, TypeScript, TSX) and renders it as
Mermaid diagrams.

## Workflow

1. Call ` + "`scan`" + ` once to walk the repository and collect statistics.
2. Call ` + "`dependency_graph`" + ` for the full graph as JSON (nodes, edges,
   cycles, per-node metrics).
3. Call ` + "`diagram`" + ` for Mermaid markup. Use strategy "flat" for small
   repositories, "grouped" for an overview by top-level directory, or
   "drilldown" with base_path/depth to zoom into one subtree.
4. Call ` + "`ego_graph`" + ` with a file path to inspect one file's direct
   imports, importers and cycle membership.
5. Call ` + "`directory_tree`" + ` for a filesystem overview independent of the
   dependency graph.

Results are cached per scan; pass force=true to scan again after the
repository changes. Unresolved imports are reported as external
dependencies, never as errors.`

// Server wires the engine behind an MCP stdio server. The scan result and
// graph are cached after the first scan; tools reuse them until a forced
// re-scan.
type Server struct {
	mcpServer *mcp.Server
	logger    *log.Logger
	cfg       config.Config
	root      string
	store     *store.Store // nil disables persistence

	mu     sync.RWMutex
	result *scanner.Result
	graph  *graph.DependencyGraph
}

// New builds a server for the repository at root. st may be nil; the
// diagram tools then skip persistence.
func New(root string, cfg config.Config, st *store.Store, logger *log.Logger) *Server {
	s := &Server{
		logger: logger,
		cfg:    cfg,
		root:   root,
		store:  st,
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "codeatlas",
		Version: serverVersion,
	}, nil)
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio", "root", s.root, "project", s.cfg.Project)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// scan walks the repository, builds the graph and replaces the cache.
func (s *Server) scan(ctx context.Context) (*scanner.Result, *graph.DependencyGraph, error) {
	sc, err := scanner.New(scanner.Config{
		Root:           s.root,
		MaxFileSize:    s.cfg.MaxFileSize,
		UseGitignore:   s.cfg.UseGitignore,
		IgnorePatterns: s.cfg.IgnorePatterns,
		Workers:        s.cfg.Workers,
	}, s.logger)
	if err != nil {
		return nil, nil, err
	}
	defer sc.Close()

	result, err := sc.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	files := make([]graph.SourceFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, graph.SourceFile{Path: f.Path, Language: f.Language})
	}
	g := graph.Build(files, result.Imports)

	s.mu.Lock()
	s.result = result
	s.graph = g
	s.mu.Unlock()

	s.logger.Info("scan complete",
		"run_id", result.RunID,
		"files", result.Stats.Files,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())
	return result, g, nil
}

// ensureGraph returns the cached scan result and graph, scanning first if
// no scan has happened yet.
func (s *Server) ensureGraph(ctx context.Context) (*scanner.Result, *graph.DependencyGraph, error) {
	s.mu.RLock()
	result, g := s.result, s.graph
	s.mu.RUnlock()
	if g != nil {
		return result, g, nil
	}
	return s.scan(ctx)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}
