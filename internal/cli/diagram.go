package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"codeatlas/internal/diagram"
	"codeatlas/internal/store"
)

type diagramOpts struct {
	direction      string
	strategy       string
	groupThreshold int
	basePath       string
	depth          int
	format         string // mermaid, dot or json
	out            string
	save           bool
}

func newDiagramCmd() *cobra.Command {
	var opts diagramOpts

	cmd := &cobra.Command{
		Use:   "diagram [path]",
		Short: "Render the dependency graph as a diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			root := rootArg(args)

			cfg, _, g, err := runScan(cmd.Context(), root, logger)
			if err != nil {
				return err
			}

			switch opts.format {
			case "dot":
				return writeOutput(opts.out, []byte(g.ToDOT()+"\n"))
			case "json":
				data, err := g.ToJSON()
				if err != nil {
					return err
				}
				return writeOutput(opts.out, append(data, '\n'))
			case "mermaid":
			default:
				return fmt.Errorf("unknown format %q (want mermaid, dot or json)", opts.format)
			}

			direction := cfg.Diagram.Direction
			if opts.direction != "" {
				direction = opts.direction
			}
			strategy := cfg.Diagram.Strategy
			if opts.strategy != "" {
				strategy = opts.strategy
			}
			threshold := cfg.Diagram.GroupThreshold
			if opts.groupThreshold > 0 {
				threshold = opts.groupThreshold
			}

			payload := diagram.NewRenderer(diagram.Options{
				Project:        cfg.Project,
				Direction:      direction,
				Strategy:       diagram.Strategy(strategy),
				GroupThreshold: threshold,
				BasePath:       opts.basePath,
				Depth:          opts.depth,
			}).Render(g)

			if opts.save {
				if err := savePayload(cmd.Context(), cfg.Project, payload); err != nil {
					return err
				}
				logger.Info("diagram stored", "project", cfg.Project, "type", payload.Type)
			}

			return writeOutput(opts.out, []byte(payload.Markup))
		},
	}

	cmd.Flags().StringVar(&opts.direction, "direction", "", "flowchart direction (LR or TD)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "layout strategy (auto, flat, grouped, drilldown)")
	cmd.Flags().IntVar(&opts.groupThreshold, "group-threshold", 0, "node count above which auto strategy groups by directory")
	cmd.Flags().StringVar(&opts.basePath, "base-path", "", "drill-down: subtree to expand")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "drill-down: directory levels shown individually")
	cmd.Flags().StringVar(&opts.format, "format", "mermaid", "output format (mermaid, dot, json)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the payload to the local diagram store")

	return cmd
}

func savePayload(ctx context.Context, project string, p diagram.Payload) error {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Put(ctx, project, p)
}
