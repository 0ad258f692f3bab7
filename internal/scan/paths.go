package scan

import (
	"strings"
)

// ResolveAddedPaths returns the literal paths of every addpath directive in
// content, in order of appearance. Commented-out directives are ignored.
func (a *Analyzer) ResolveAddedPaths(content string) []string {
	var paths []string
	for _, line := range strings.Split(content, "\n") {
		if a.dialect.IsComment(line) {
			continue
		}
		m := addpathRe.FindStringSubmatch(strings.TrimLeft(line, " \t\r\v\f"))
		if m == nil {
			continue
		}
		if m[1] != "" {
			paths = append(paths, m[1])
		} else {
			paths = append(paths, m[2])
		}
	}
	return paths
}
