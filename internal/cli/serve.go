package cli

import (
	"github.com/spf13/cobra"

	"codeatlas/internal/config"
	"codeatlas/internal/server"
	"codeatlas/internal/store"
)

func newServeCmd() *cobra.Command {
	var noStore bool

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve the engine as an MCP stdio server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			root := rootArg(args)

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			var st *store.Store
			if !noStore {
				dbPath, err := store.DefaultDBPath()
				if err != nil {
					return err
				}
				st, err = store.Open(dbPath)
				if err != nil {
					return err
				}
				defer st.Close()
			}

			return server.New(root, cfg, st, logger).Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable diagram persistence")

	return cmd
}
