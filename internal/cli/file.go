package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/phobologic/matsym/internal/model"
	"github.com/phobologic/matsym/internal/scan"
)

// fileRun computes a result for one source file. text renders the result
// for -o text.
type fileRun func(a *scan.Analyzer, file, content string, args []string) (result any, text func(io.Writer), err error)

// newFileCmd builds a command that runs one scan over FILE plus extraArgs.
func (a *app) newFileCmd(use, short string, extraArgs int, run fileRun) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1 + extraArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "text" {
				return fmt.Errorf("invalid output format %q (must be json or text)", output)
			}

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			_, d, err := a.dialect(wd)
			if err != nil {
				return err
			}

			analyzer := scan.New(d, afero.NewOsFs())
			file := args[0]
			content, err := afero.ReadFile(analyzer.Fs(), file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}

			result, text, err := run(analyzer, file, string(content), args[1:])
			if err != nil {
				return err
			}

			if output == "text" {
				text(a.stdout)
				return nil
			}
			data, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			_, _ = fmt.Fprintln(a.stdout, string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or text")
	return cmd
}

func lines(items []string) func(io.Writer) {
	return func(w io.Writer) {
		for _, s := range items {
			_, _ = fmt.Fprintln(w, s)
		}
	}
}

func formatPosition(p model.Position) string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

func (a *app) newPathsCmd() *cobra.Command {
	return a.newFileCmd("paths FILE", "List paths added with addpath", 0,
		func(an *scan.Analyzer, file, content string, _ []string) (any, func(io.Writer), error) {
			paths := nonNil(an.ResolveAddedPaths(content))
			return paths, lines(paths), nil
		})
}

func (a *app) newTokensCmd() *cobra.Command {
	return a.newFileCmd("tokens FILE", "List distinct identifiers in first-seen order", 0,
		func(an *scan.Analyzer, file, content string, _ []string) (any, func(io.Writer), error) {
			ids := nonNil(an.ExtractIdentifiers(content))
			return ids, lines(ids), nil
		})
}

func (a *app) newCandidatesCmd() *cobra.Command {
	return a.newFileCmd("candidates FILE", "List completion candidates from the search path and the file", 0,
		func(an *scan.Analyzer, file, content string, _ []string) (any, func(io.Writer), error) {
			names, err := an.ListCandidates(file, content)
			if err != nil {
				return nil, nil, err
			}
			names = nonNil(names)
			return names, lines(names), nil
		})
}

func (a *app) newLocateCmd() *cobra.Command {
	return a.newFileCmd("locate FILE WORD", "Print the declaration position of WORD as row:column", 1,
		func(an *scan.Analyzer, file, content string, args []string) (any, func(io.Writer), error) {
			pos, ok := an.Locate(content, args[0])
			if !ok {
				return nil, func(io.Writer) {}, nil
			}
			return pos, lines([]string{formatPosition(pos)}), nil
		})
}

func (a *app) newOccurrencesCmd() *cobra.Command {
	return a.newFileCmd("occurrences FILE NAME", "List whole-word occurrences of NAME as row:column", 1,
		func(an *scan.Analyzer, file, content string, args []string) (any, func(io.Writer), error) {
			positions := nonNil(an.FindOccurrences(content, args[0]))
			out := make([]string, len(positions))
			for i, p := range positions {
				out[i] = formatPosition(p)
			}
			return positions, lines(out), nil
		})
}

func (a *app) newStructsCmd() *cobra.Command {
	return a.newFileCmd("structs FILE", "List struct variables and the members accessed on them", 0,
		func(an *scan.Analyzer, file, content string, _ []string) (any, func(io.Writer), error) {
			structs := nonNil(an.BuildCompletions(file, content))
			out := make([]string, len(structs))
			for i, s := range structs {
				out[i] = strings.TrimSpace(s.Name + ": " + strings.Join(s.Members, " "))
			}
			return structs, lines(out), nil
		})
}

func (a *app) newCallsCmd() *cobra.Command {
	return a.newFileCmd("calls FILE", "List multi-return call sites", 0,
		func(an *scan.Analyzer, file, content string, _ []string) (any, func(io.Writer), error) {
			calls := nonNil(an.ExtractMultiReturnCalls(content))
			out := make([]string, len(calls))
			for i, c := range calls {
				out[i] = fmt.Sprintf("[%s] = %s(%s)",
					strings.Join(c.Returns, ", "), c.Name, strings.Join(c.Params, ", "))
			}
			return calls, lines(out), nil
		})
}

// nonNil turns a nil slice into an empty one so it marshals as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
