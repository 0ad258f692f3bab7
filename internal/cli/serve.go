package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/phobologic/matsym/internal/index"
	"github.com/phobologic/matsym/internal/mcpserver"
	"github.com/phobologic/matsym/internal/scan"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the symbol queries as MCP tools over stdio",
		Long: `Serve starts an MCP server on stdin/stdout exposing matsym_candidates,
matsym_locate, matsym_occurrences, matsym_structs, matsym_calls, matsym_paths
and matsym_index. Configuration is read from the working directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg, d, err := a.dialect(wd)
			if err != nil {
				return err
			}

			s := mcpserver.New(
				scan.New(d, afero.NewOsFs()),
				index.Options{
					Dialect:     d,
					Ignore:      cfg.Ignore,
					MaxFiles:    cfg.Index.MaxFiles,
					MaxFileSize: cfg.Index.MaxFileSize,
					Logger:      a.logger,
				},
				Version,
				a.logger,
			)
			return s.Serve(cmd.Context())
		},
	}
}
