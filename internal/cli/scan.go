package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"codeatlas/internal/graph"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a repository and print statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			root := rootArg(args)

			cfg, result, g, err := runScan(cmd.Context(), root, logger)
			if err != nil {
				return err
			}

			out := map[string]any{
				"project":       cfg.Project,
				"run_id":        result.RunID,
				"stats":         result.Stats,
				"nodes":         g.NodeCount(),
				"edges":         g.EdgeCount(),
				"cycles":        len(g.Cycles()),
				"external_deps": countExternal(g),
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput("", append(data, '\n'))
		},
	}
}

func countExternal(g *graph.DependencyGraph) int {
	n := 0
	for _, node := range g.Nodes() {
		n += len(node.ExternalDeps)
	}
	return n
}
