package scan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ListCandidates builds the completion candidates for fileName: the bare
// names of source files in the file's own directory and in every directory
// added with addpath, followed by the identifiers found in content.
//
// A directory that cannot be listed fails the whole call.
func (a *Analyzer) ListCandidates(fileName, content string) ([]string, error) {
	dirs, err := a.searchDirs(fileName, content)
	if err != nil {
		return nil, err
	}

	names := newOrderedSet()
	for _, dir := range dirs {
		entries, err := afero.ReadDir(a.fs, dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !a.dialect.HasExtension(e.Name()) {
				continue
			}
			names.add(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}

	names.addAll(a.ExtractIdentifiers(content))
	return names.slice(), nil
}

// searchDirs returns the directory of fileName followed by the addpath
// directories, relative ones resolved against it.
func (a *Analyzer) searchDirs(fileName, content string) ([]string, error) {
	primary, err := filepath.Abs(filepath.Dir(fileName))
	if err != nil {
		return nil, fmt.Errorf("resolving directory of %s: %w", fileName, err)
	}

	dirs := newOrderedSet()
	dirs.add(primary)
	for _, p := range a.ResolveAddedPaths(content) {
		if !filepath.IsAbs(p) {
			p = filepath.Join(primary, p)
		}
		dirs.add(filepath.Clean(p))
	}
	return dirs.slice(), nil
}
