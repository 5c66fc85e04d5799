// Package cli implements the codeatlas command-line interface.
//
// Commands: scan (statistics), diagram (Mermaid/DOT/JSON output of the
// dependency graph), tree (directory tree diagram) and serve (MCP stdio
// server). All commands support --verbose for debug-level logging;
// loggers travel through the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codeatlas/internal/config"
	"codeatlas/internal/graph"
	"codeatlas/internal/scanner"
	"codeatlas/util"
)

// Execute runs the codeatlas CLI until the command finishes or ctx is
// cancelled.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "codeatlas",
		Short:        "CodeAtlas maps repository import dependencies",
		Long:         "CodeAtlas scans a repository, builds a file-level dependency graph from import statements (Python, JavaScript, TypeScript, TSX) and renders it as Mermaid or DOT diagrams.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newScanCmd())
	root.AddCommand(newDiagramCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// rootArg resolves the positional repository path. With no argument the
// enclosing git repository of the working directory is used, falling
// back to the working directory itself.
func rootArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	root, err := util.FindRepoRoot(".")
	if err != nil {
		return "."
	}
	return root
}

// runScan loads the repo config, scans and builds the graph.
func runScan(ctx context.Context, root string, logger *log.Logger) (config.Config, *scanner.Result, *graph.DependencyGraph, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	sc, err := scanner.New(scanner.Config{
		Root:           root,
		MaxFileSize:    cfg.MaxFileSize,
		UseGitignore:   cfg.UseGitignore,
		IgnorePatterns: cfg.IgnorePatterns,
		Workers:        cfg.Workers,
	}, logger)
	if err != nil {
		return cfg, nil, nil, err
	}
	defer sc.Close()

	result, err := sc.Scan(ctx)
	if err != nil {
		return cfg, nil, nil, err
	}

	files := make([]graph.SourceFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, graph.SourceFile{Path: f.Path, Language: f.Language})
	}
	return cfg, result, graph.Build(files, result.Imports), nil
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
