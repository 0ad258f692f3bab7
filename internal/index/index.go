// Package index analyzes every source file of a project and assembles a
// ranked RepoMap.
package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/phobologic/matsym/internal/discover"
	"github.com/phobologic/matsym/internal/graph"
	"github.com/phobologic/matsym/internal/lang"
	"github.com/phobologic/matsym/internal/model"
	"github.com/phobologic/matsym/internal/ranking"
	"github.com/phobologic/matsym/internal/scan"
)

// DefaultMaxFileSize is the size above which files are skipped.
const DefaultMaxFileSize = 1_000_000 // 1 MB

var (
	// ErrNoFiles is returned when discovery finds nothing to analyze.
	ErrNoFiles = errors.New("no source files found")

	// ErrNothingAnalyzed is returned when every discovered file failed to load.
	ErrNothingAnalyzed = errors.New("no files could be analyzed")
)

// Progress receives analysis progress. Calls come from a single goroutine.
type Progress interface {
	OnAnalysisStart(totalFiles int)
	OnFileAnalyzed(path string)
}

// Options configures Build.
type Options struct {
	// Dialect defaults to lang.DefaultDialect when nil.
	Dialect     *lang.Dialect
	Ignore      []string
	MaxFiles    int
	MaxFileSize int64
	// Logger receives warnings about skipped files. Nil discards them.
	Logger *log.Logger
	// Progress is optional.
	Progress Progress
}

func (o Options) dialect() *lang.Dialect {
	if o.Dialect == nil {
		return lang.Dialects[lang.DefaultDialect]
	}
	return o.Dialect
}

// Build discovers, analyzes and ranks the source files under root.
func Build(ctx context.Context, root string, opts Options) (*model.RepoMap, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	opts.Dialect = opts.dialect()

	files, err := discover.Files(root, opts.Dialect, opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	files = filterBySize(root, files, opts.MaxFileSize, logger)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w (all exceeded size limit)", ErrNoFiles)
	}

	analyzer := scan.New(opts.Dialect, nil)
	fileInfos, err := analyzeConcurrent(ctx, analyzer, root, files, logger, opts.Progress)
	if err != nil {
		return nil, err
	}
	if len(fileInfos) == 0 {
		return nil, ErrNothingAnalyzed
	}

	deps := graph.BuildGraph(fileInfos)
	graph.Rank(fileInfos, deps)

	rm := &model.RepoMap{
		RepoName:     filepath.Base(root),
		Root:         filepath.Base(root),
		Files:        fileInfos,
		Dependencies: deps,
	}

	return ranking.SelectFiles(rm, opts.MaxFiles), nil
}

// SourcePaths returns the absolute paths of the files Build would analyze.
func SourcePaths(root string, opts Options) ([]string, error) {
	files, err := discover.Files(root, opts.dialect(), opts.Ignore)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(root, f.Path)
	}
	return paths, nil
}

// CacheIsFresh reports whether cachePath is newer than every file in paths.
func CacheIsFresh(cachePath string, paths []string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}

func filterBySize(root string, files []discover.FileEntry, maxSize int64, logger *log.Logger) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > maxSize {
			logger.Printf("Warning: %s: skipped (>%d bytes)", f.Path, maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func analyzeConcurrent(
	ctx context.Context,
	analyzer *scan.Analyzer,
	root string,
	files []discover.FileEntry,
	logger *log.Logger,
	progress Progress,
) ([]model.FileInfo, error) {
	type result struct {
		index int
		info  model.FileInfo
		ok    bool
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range work {
				if ctx.Err() != nil {
					continue
				}
				f := files[idx]
				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					logger.Printf("Warning: failed to read %s: %v", f.Path, err)
					continue
				}
				results <- result{
					index: idx,
					info:  analyzer.Analyze(f.Path, string(source)),
					ok:    true,
				}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	if progress != nil {
		progress.OnAnalysisStart(len(files))
	}

	// Collect results in original order
	indexed := make([]model.FileInfo, len(files))
	valid := make([]bool, len(files))
	for r := range results {
		indexed[r.index] = r.info
		valid[r.index] = r.ok
		if progress != nil {
			progress.OnFileAnalyzed(r.info.Path)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fileInfos []model.FileInfo
	for i, v := range valid {
		if v {
			fileInfos = append(fileInfos, indexed[i])
		}
	}

	return fileInfos, nil
}
