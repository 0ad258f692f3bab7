// Package discover finds dialect source files in a project tree.
package discover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/matsym/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path    string // Relative to project root
	Dialect string
}

var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"build":        {},
	"dist":         {},
	"slprj":        {}, // Simulink project cache
	"codegen":      {},
}

// Matcher reports whether a slash-separated relative path should be ignored.
type Matcher struct {
	patterns []glob.Glob
}

// CompileIgnore compiles glob patterns such as "**/test_*.m" or "private/**".
// A pattern ending in "/**" also matches the directory itself, and a leading
// "**/" also matches files at the root.
func CompileIgnore(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, g)

		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			if g, err := glob.Compile(rest, '/'); err == nil {
				m.patterns = append(m.patterns, g)
			}
		}
	}
	return m, nil
}

// Match reports whether rel matches any pattern.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range m.patterns {
		if g.Match(rel) || g.Match(rel+"/**") {
			return true
		}
	}
	return false
}

// Files discovers source files of dialect d under root, skipping paths
// matched by ignore.
func Files(root string, d *lang.Dialect, ignorePatterns []string) ([]FileEntry, error) {
	userIgnore, err := CompileIgnore(ignorePatterns)
	if err != nil {
		return nil, err
	}

	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err = filepath.WalkDir(root, func(path string, de os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := de.Name()

		if de.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if rel, err := filepath.Rel(root, path); err == nil && userIgnore.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if de.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if userIgnore.Match(rel) || !d.HasExtension(name) {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Dialect: d.Name})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
