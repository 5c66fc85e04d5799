package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codeatlas/internal/diagram"
	"codeatlas/internal/scanner"
)

// Arguments structs

type ScanArgs struct {
	Force bool `json:"force" jsonschema:"description:Re-scan even if a cached scan exists"`
}

type DependencyGraphArgs struct{}

type DiagramArgs struct {
	Direction      string `json:"direction" jsonschema:"description:Flowchart direction, LR or TD"`
	Strategy       string `json:"strategy" jsonschema:"description:Layout strategy: auto, flat, grouped or drilldown"`
	GroupThreshold int    `json:"group_threshold" jsonschema:"description:Node count above which auto strategy switches to grouped"`
	BasePath       string `json:"base_path" jsonschema:"description:Drill-down only: subtree to expand"`
	Depth          int    `json:"depth" jsonschema:"description:Drill-down only: directory levels shown individually under base_path"`
	Persist        bool   `json:"persist" jsonschema:"description:Store the rendered payload keyed by project and diagram type"`
}

type DirectoryTreeArgs struct {
	MaxDepth int  `json:"max_depth" jsonschema:"description:Maximum directory depth to render"`
	Persist  bool `json:"persist" jsonschema:"description:Store the rendered payload keyed by project and diagram type"`
}

type EgoGraphArgs struct {
	Path string `json:"path" jsonschema:"required,description:Repo-relative path of the file to inspect"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "scan",
		Description: "Scans the repository and returns aggregate statistics",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ScanArgs) (*mcp.CallToolResult, any, error) {
		var err error
		result := s.cachedResult()
		if result == nil || args.Force {
			result, _, err = s.scan(ctx)
			if err != nil {
				return errorResult("Scan failed: %v", err), nil, nil
			}
		}

		out := map[string]any{
			"run_id": result.RunID,
			"root":   s.root,
			"stats":  result.Stats,
		}
		jsonBytes, _ := json.MarshalIndent(out, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dependency_graph",
		Description: "Returns the full dependency graph as JSON with nodes, edges, cycles and metrics",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DependencyGraphArgs) (*mcp.CallToolResult, any, error) {
		_, g, err := s.ensureGraph(ctx)
		if err != nil {
			return errorResult("Scan failed: %v", err), nil, nil
		}

		jsonBytes, err := g.ToJSON()
		if err != nil {
			return errorResult("Serialization failed: %v", err), nil, nil
		}
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "diagram",
		Description: "Renders the dependency graph as Mermaid flowchart markup",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DiagramArgs) (*mcp.CallToolResult, any, error) {
		_, g, err := s.ensureGraph(ctx)
		if err != nil {
			return errorResult("Scan failed: %v", err), nil, nil
		}

		opts := diagram.Options{
			Project:        s.cfg.Project,
			Direction:      args.Direction,
			Strategy:       diagram.Strategy(args.Strategy),
			GroupThreshold: args.GroupThreshold,
			BasePath:       args.BasePath,
			Depth:          args.Depth,
		}
		if opts.Direction == "" {
			opts.Direction = s.cfg.Diagram.Direction
		}
		if opts.Strategy == "" {
			opts.Strategy = diagram.Strategy(s.cfg.Diagram.Strategy)
		}
		if opts.GroupThreshold == 0 {
			opts.GroupThreshold = s.cfg.Diagram.GroupThreshold
		}
		payload := diagram.NewRenderer(opts).Render(g)

		if args.Persist {
			if err := s.persist(ctx, payload); err != nil {
				return errorResult("Persist failed: %v", err), nil, nil
			}
		}

		jsonBytes, _ := json.MarshalIndent(payload, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "directory_tree",
		Description: "Renders the repository's directory tree as Mermaid flowchart markup",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DirectoryTreeArgs) (*mcp.CallToolResult, any, error) {
		maxDepth := args.MaxDepth
		if maxDepth <= 0 {
			maxDepth = s.cfg.Tree.MaxDepth
		}

		payload, err := diagram.NewTreeRenderer(s.root, s.cfg.Project, maxDepth, s.cfg.Diagram.Direction).Render()
		if err != nil {
			return errorResult("Tree render failed: %v", err), nil, nil
		}

		if args.Persist {
			if err := s.persist(ctx, payload); err != nil {
				return errorResult("Persist failed: %v", err), nil, nil
			}
		}

		jsonBytes, _ := json.MarshalIndent(payload, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ego_graph",
		Description: "Returns one file's direct imports, importers and cycle membership",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EgoGraphArgs) (*mcp.CallToolResult, any, error) {
		_, g, err := s.ensureGraph(ctx)
		if err != nil {
			return errorResult("Scan failed: %v", err), nil, nil
		}

		ego := g.EgoGraph(args.Path)
		jsonBytes, _ := json.MarshalIndent(ego, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})
}

func (s *Server) cachedResult() *scanner.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Server) persist(ctx context.Context, p diagram.Payload) error {
	if s.store == nil {
		return errors.New("no store configured")
	}
	return s.store.Put(ctx, s.cfg.Project, p)
}
