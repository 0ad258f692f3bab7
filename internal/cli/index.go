package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/matsym/internal/index"
	"github.com/phobologic/matsym/internal/lang"
	"github.com/phobologic/matsym/internal/model"
	"github.com/phobologic/matsym/internal/ranking"
	"github.com/phobologic/matsym/internal/toon"
	"github.com/phobologic/matsym/internal/watcher"
)

const agentHeader = `# Repository Map
# files: function files ranked by PageRank (most referenced first)
# paths: addpath directives per file
# structs: struct variables and the members accessed on them
# calls: multi-return call sites [returns] = name(params)
# dependencies: source mentions the function defined by target
`

type indexFlags struct {
	maxFiles    int
	maxFileSize int64
	cachePath   string
	watch       bool
	file        string
	structName  string
	raw         bool
	progress    bool
	output      string
}

// cacheable reports whether output goes through the cache file. Filtered
// and JSON output never do.
func (f indexFlags) cacheable() bool {
	return f.cachePath != "" && f.file == "" && f.structName == "" && f.output == "toon"
}

func (a *app) writeCache(out string, f indexFlags) {
	if !f.cacheable() {
		return
	}
	if err := os.WriteFile(f.cachePath, []byte(out+"\n"), 0o644); err != nil {
		a.logger.Printf("Warning: failed to write cache %s: %v", f.cachePath, err)
	}
}

func (a *app) newIndexCmd() *cobra.Command {
	var f indexFlags

	cmd := &cobra.Command{
		Use:   "index [ROOT]",
		Short: "Build a ranked map of every source file under ROOT",
		Long: `Index analyzes every source file under ROOT (default: current directory),
builds a dependency graph from the function names each file mentions and
ranks files by PageRank.

Examples:
  # Map the current directory
  matsym index

  # Top 20 files only, cached between runs
  matsym index -n 20 --cache .matsym-cache

  # Files using a struct whose name contains "opts"
  matsym index --struct opts

  # Rebuild whenever a source file changes
  matsym index --watch
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return a.runIndex(cmd, root, f)
		},
	}

	cmd.Flags().IntVarP(&f.maxFiles, "max-files", "n", 0, "maximum number of files to include (0 = config value)")
	cmd.Flags().Int64Var(&f.maxFileSize, "max-file-size", 0, "skip files larger than this many bytes (0 = config value)")
	cmd.Flags().StringVar(&f.cachePath, "cache", "", "cache file path")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "rebuild the map whenever a source file changes")
	cmd.Flags().StringVar(&f.file, "file", "", "only files whose path contains this substring")
	cmd.Flags().StringVar(&f.structName, "struct", "", "only files using a struct whose name contains this substring")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "omit the explanatory header")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output format: toon or json (default from config)")
	return cmd
}

func (a *app) runIndex(cmd *cobra.Command, root string, f indexFlags) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, d, err := a.dialect(root)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("max-files") {
		if f.maxFiles < 0 {
			return fmt.Errorf("max-files cannot be negative")
		}
		cfg.Index.MaxFiles = f.maxFiles
	}
	if cmd.Flags().Changed("max-file-size") {
		if f.maxFileSize <= 0 {
			return fmt.Errorf("max-file-size must be positive")
		}
		cfg.Index.MaxFileSize = f.maxFileSize
	}
	if f.output == "" {
		f.output = cfg.Output
	}
	if f.output != "toon" && f.output != "json" {
		return fmt.Errorf("invalid output format %q (must be toon or json)", f.output)
	}

	opts := index.Options{
		Dialect:     d,
		Ignore:      cfg.Ignore,
		MaxFiles:    cfg.Index.MaxFiles,
		MaxFileSize: cfg.Index.MaxFileSize,
		Logger:      a.logger,
	}
	if f.progress {
		opts.Progress = newProgressReporter(a.stderr)
	}

	if f.cacheable() {
		if paths, err := index.SourcePaths(root, opts); err == nil && len(paths) > 0 &&
			index.CacheIsFresh(f.cachePath, paths) {
			if data, err := os.ReadFile(f.cachePath); err == nil {
				a.infof("using cache %s", f.cachePath)
				a.emit(strings.TrimSuffix(string(data), "\n"), f)
				if !f.watch {
					return nil
				}
				return a.watchIndex(cmd.Context(), root, d, opts, f)
			}
		}
	}

	out, err := a.renderIndex(cmd.Context(), root, opts, f)
	if err != nil {
		return err
	}
	a.writeCache(out, f)
	a.emit(out, f)

	if !f.watch {
		return nil
	}
	return a.watchIndex(cmd.Context(), root, d, opts, f)
}

// renderIndex builds, filters and encodes the repo map.
func (a *app) renderIndex(ctx context.Context, root string, opts index.Options, f indexFlags) (string, error) {
	maxFiles := opts.MaxFiles
	filtered := f.file != "" || f.structName != ""
	if filtered {
		// Select after filtering so -n counts matching files.
		opts.MaxFiles = 0
	}

	rm, err := index.Build(ctx, root, opts)
	if err != nil {
		return "", err
	}
	a.infof("indexed %d file(s), %d dependencies", len(rm.Files), len(rm.Dependencies))

	if f.file != "" {
		rm = ranking.FilterByFile(rm, f.file)
	}
	if f.structName != "" {
		rm = ranking.FilterByStruct(rm, f.structName)
	}
	if filtered {
		rm = ranking.SelectFiles(rm, maxFiles)
	}

	if f.output == "json" {
		return encodeJSON(rm)
	}
	return toon.Encode(rm), nil
}

func encodeJSON(rm *model.RepoMap) (string, error) {
	if rm.Files == nil {
		rm.Files = []model.FileInfo{}
	}
	if rm.Dependencies == nil {
		rm.Dependencies = []model.Dependency{}
	}
	data, err := json.MarshalIndent(rm, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal repo map: %w", err)
	}
	return string(data), nil
}

// emit writes out, preceded by the agent header for TOON unless --raw.
func (a *app) emit(out string, f indexFlags) {
	if f.output == "toon" && !f.raw {
		_, _ = fmt.Fprint(a.stdout, agentHeader+"\n")
	}
	_, _ = fmt.Fprintln(a.stdout, out)
}

// watchIndex re-renders the map on every batch of source changes until ctx
// is cancelled.
func (a *app) watchIndex(ctx context.Context, root string, d *lang.Dialect, opts index.Options, f indexFlags) error {
	w, err := watcher.New(root, d.Extensions, watcher.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	rebuild := func(files []string) {
		a.logger.Printf("%d file(s) changed, rebuilding...", len(files))
		out, err := a.renderIndex(ctx, root, opts, f)
		if err != nil {
			a.logger.Printf("Error: rebuild failed: %v", err)
			return
		}
		a.writeCache(out, f)
		a.emit(out, f)
	}

	if err := w.Start(ctx, rebuild); err != nil {
		return err
	}
	a.logger.Printf("Watching %s for changes (Ctrl+C to stop)...", root)
	<-ctx.Done()
	return nil
}
