// Package graph builds a file dependency graph and computes PageRank.
package graph

import (
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phobologic/matsym/internal/model"
)

// FunctionName returns the function a source file defines: its base name
// without extension. Function files are resolved by name on the search path.
func FunctionName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BuildGraph creates dependency edges from identifiers that name another
// file's function. Returns a list of dependencies suitable for the RepoMap.
func BuildGraph(fileInfos []model.FileInfo) []model.Dependency {
	// Build definition index: function name → set of files that define it
	defines := make(map[string]map[string]struct{})
	for i := range fileInfos {
		name := FunctionName(fileInfos[i].Path)
		if defines[name] == nil {
			defines[name] = make(map[string]struct{})
		}
		defines[name][fileInfos[i].Path] = struct{}{}
	}

	// Build edges: source → target → list of symbols
	type edgeKey struct{ src, tgt string }
	edgeSymbols := make(map[edgeKey][]string)

	for i := range fileInfos {
		fi := &fileInfos[i]
		for _, ref := range references(fi) {
			defFiles := defines[ref]
			if defFiles == nil {
				continue
			}
			// Iterate in sorted order for determinism
			for _, defFile := range sortedKeys(defFiles) {
				if defFile == fi.Path {
					continue // no self-edges
				}
				key := edgeKey{fi.Path, defFile}
				if !contains(edgeSymbols[key], ref) {
					edgeSymbols[key] = append(edgeSymbols[key], ref)
				}
			}
		}
	}

	var deps []model.Dependency
	for key, syms := range edgeSymbols {
		deps = append(deps, model.Dependency{
			Source:  key.src,
			Target:  key.tgt,
			Symbols: syms,
		})
	}

	// Sort for deterministic output
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Source != deps[j].Source {
			return deps[i].Source < deps[j].Source
		}
		return deps[i].Target < deps[j].Target
	})

	return deps
}

// references lists the names a file may resolve against other files:
// multi-return call names first, then every identifier.
func references(fi *model.FileInfo) []string {
	refs := make([]string, 0, len(fi.Calls)+len(fi.Identifiers))
	for _, c := range fi.Calls {
		refs = append(refs, c.Name)
	}
	return append(refs, fi.Identifiers...)
}

// Rank applies PageRank to fileInfos and sorts them by rank descending,
// breaking ties by path.
func Rank(fileInfos []model.FileInfo, deps []model.Dependency) {
	if len(fileInfos) == 0 {
		return
	}

	if len(deps) == 0 {
		uniform := 1.0 / float64(len(fileInfos))
		for i := range fileInfos {
			fileInfos[i].Rank = uniform
		}
		sortByRank(fileInfos)
		return
	}

	// Edge from source to target means source references target.
	outEdges := make(map[string][]string) // node → list of targets (with repeats for multi-edges)
	outDegree := make(map[string]int)     // total out-edges per node
	nodes := make(map[string]struct{})

	for i := range fileInfos {
		nodes[fileInfos[i].Path] = struct{}{}
	}

	for _, d := range deps {
		// Each symbol is an edge
		for range d.Symbols {
			outEdges[d.Source] = append(outEdges[d.Source], d.Target)
			outDegree[d.Source]++
		}
	}

	ranks := pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)

	for i := range fileInfos {
		fileInfos[i].Rank = ranks[fileInfos[i].Path]
	}
	sortByRank(fileInfos)
}

func sortByRank(fileInfos []model.FileInfo) {
	sort.SliceStable(fileInfos, func(i, j int) bool {
		if fileInfos[i].Rank != fileInfos[j].Rank {
			return fileInfos[i].Rank > fileInfos[j].Rank
		}
		return fileInfos[i].Path < fileInfos[j].Path
	})
}

func pageRank(
	nodes map[string]struct{},
	outEdges map[string][]string,
	outDegree map[string]int,
	alpha float64,
	maxIter int,
	tol float64,
) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Dangling node contribution (nodes with no outgoing edges)
		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			deg := float64(outDegree[src])
			contrib := alpha * rank[src] / deg
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
