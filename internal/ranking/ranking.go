// Package ranking implements file selection and focused filtering of a RepoMap.
package ranking

import (
	"strings"

	"github.com/phobologic/matsym/internal/model"
)

// SelectFiles returns a new RepoMap with only the top-ranked files.
// If maxFiles is <= 0 or >= len(files), all files are returned.
func SelectFiles(rm *model.RepoMap, maxFiles int) *model.RepoMap {
	if maxFiles <= 0 || maxFiles >= len(rm.Files) {
		return rm
	}

	selected := rm.Files[:maxFiles]
	selectedPaths := make(map[string]struct{}, maxFiles)
	for i := range selected {
		selectedPaths[selected[i].Path] = struct{}{}
	}

	var deps []model.Dependency
	for i := range rm.Dependencies {
		d := &rm.Dependencies[i]
		_, srcOK := selectedPaths[d.Source]
		_, tgtOK := selectedPaths[d.Target]
		if srcOK && tgtOK {
			deps = append(deps, *d)
		}
	}

	return &model.RepoMap{
		RepoName:     rm.RepoName,
		Root:         rm.Root,
		Files:        selected,
		Dependencies: deps,
	}
}

// FilterByStruct returns a new RepoMap containing only files that use a
// struct whose name contains substr (case-insensitive). Each kept file lists
// only the matching structs; dependency edges touching a kept file survive.
func FilterByStruct(rm *model.RepoMap, substr string) *model.RepoMap {
	lower := strings.ToLower(substr)

	matchedFiles := make(map[string]struct{})
	var files []model.FileInfo
	for i := range rm.Files {
		var structs []model.StructCompletion
		for _, sc := range rm.Files[i].Structs {
			if strings.Contains(strings.ToLower(sc.Name), lower) {
				structs = append(structs, sc)
			}
		}
		if len(structs) == 0 {
			continue
		}
		fi := rm.Files[i]
		fi.Structs = structs
		files = append(files, fi)
		matchedFiles[fi.Path] = struct{}{}
	}

	return &model.RepoMap{
		RepoName:     rm.RepoName,
		Root:         rm.Root,
		Files:        files,
		Dependencies: touching(rm.Dependencies, matchedFiles),
	}
}

// FilterByFile returns a new RepoMap containing only files whose path
// contains substr (case-insensitive), with all dependency edges touching
// those files.
func FilterByFile(rm *model.RepoMap, substr string) *model.RepoMap {
	lower := strings.ToLower(substr)

	matchedFiles := make(map[string]struct{})
	var files []model.FileInfo
	for i := range rm.Files {
		if strings.Contains(strings.ToLower(rm.Files[i].Path), lower) {
			matchedFiles[rm.Files[i].Path] = struct{}{}
			files = append(files, rm.Files[i])
		}
	}

	return &model.RepoMap{
		RepoName:     rm.RepoName,
		Root:         rm.Root,
		Files:        files,
		Dependencies: touching(rm.Dependencies, matchedFiles),
	}
}

func touching(all []model.Dependency, paths map[string]struct{}) []model.Dependency {
	var deps []model.Dependency
	for i := range all {
		d := &all[i]
		_, srcOK := paths[d.Source]
		_, tgtOK := paths[d.Target]
		if srcOK || tgtOK {
			deps = append(deps, *d)
		}
	}
	return deps
}
