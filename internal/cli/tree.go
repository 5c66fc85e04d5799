package cli

import (
	"github.com/spf13/cobra"

	"codeatlas/internal/config"
	"codeatlas/internal/diagram"
)

func newTreeCmd() *cobra.Command {
	var (
		maxDepth int
		out      string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Render the repository's directory tree as a diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			root := rootArg(args)

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			depth := cfg.Tree.MaxDepth
			if maxDepth > 0 {
				depth = maxDepth
			}

			payload, err := diagram.NewTreeRenderer(root, cfg.Project, depth, cfg.Diagram.Direction).Render()
			if err != nil {
				return err
			}

			if save {
				if err := savePayload(cmd.Context(), cfg.Project, payload); err != nil {
					return err
				}
				logger.Info("diagram stored", "project", cfg.Project, "type", payload.Type)
			}

			return writeOutput(out, []byte(payload.Markup))
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum directory depth to render")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the payload to the local diagram store")

	return cmd
}
