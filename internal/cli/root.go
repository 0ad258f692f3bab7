// Package cli implements the matsym command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/matsym/internal/config"
	"github.com/phobologic/matsym/internal/lang"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the global flags and output streams shared by all commands.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
	verbose bool
	logger  *log.Logger
}

// NewRootCmd builds a fresh matsym command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: log.New(stderr, "", 0),
	}

	rootCmd := &cobra.Command{
		Use:   "matsym",
		Short: "Lexical symbol analysis for MATLAB and Octave sources",
		Long: `matsym extracts symbols from MATLAB/Octave files without parsing them:
completion candidates, declaration positions, occurrences, struct members,
multi-return calls and addpath directives. It can also build a ranked map of
a whole project and serve the same queries over MCP.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate("matsym {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .matsym.yaml in the project root or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		a.newPathsCmd(),
		a.newTokensCmd(),
		a.newCandidatesCmd(),
		a.newLocateCmd(),
		a.newOccurrencesCmd(),
		a.newStructsCmd(),
		a.newCallsCmd(),
		a.newIndexCmd(),
		a.newServeCmd(),
		a.newInitCmd(),
		a.newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// infof logs only with --verbose.
func (a *app) infof(format string, args ...any) {
	if a.verbose {
		a.logger.Printf(format, args...)
	}
}

// loadConfig reads configuration for a project rooted at root.
func (a *app) loadConfig(root string) (*config.Config, error) {
	opts := []config.Option{config.WithConfigFile(a.cfgFile)}
	if home, err := os.UserHomeDir(); err == nil {
		opts = append(opts, config.WithHomeDir(home))
	}
	cfg, err := config.NewLoader(root, opts...).Load()
	if err != nil {
		return nil, err
	}
	a.infof("dialect: %s", cfg.Dialect)
	return cfg, nil
}

// dialect loads configuration for root and resolves its dialect.
func (a *app) dialect(root string) (*config.Config, *lang.Dialect, error) {
	cfg, err := a.loadConfig(root)
	if err != nil {
		return nil, nil, err
	}
	d := cfg.ResolveDialect()
	if d == nil {
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownDialect, cfg.Dialect)
	}
	return cfg, d, nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of matsym",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(a.stdout, "matsym %s\n", Version)
		},
	}
}
