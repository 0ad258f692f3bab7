// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/phobologic/matsym/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a RepoMap into TOON format.
func Encode(rm *model.RepoMap) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("repo: %s", encodeValue(rm.RepoName)))
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(rm.Root)))

	var fileRows [][]string
	for i := range rm.Files {
		fi := &rm.Files[i]
		fileRows = append(fileRows, []string{
			filepath.ToSlash(fi.Path),
			fi.Dialect,
			fmt.Sprintf("%.4f", fi.Rank),
		})
	}
	parts = append(parts, formatTabular("files", []string{"path", "dialect", "rank"}, fileRows))

	var pathRows [][]string
	for i := range rm.Files {
		fi := &rm.Files[i]
		for _, p := range fi.AddedPaths {
			pathRows = append(pathRows, []string{filepath.ToSlash(fi.Path), p})
		}
	}
	if len(pathRows) > 0 {
		parts = append(parts, formatTabular("paths", []string{"file", "path"}, pathRows))
	}

	var structRows [][]string
	for i := range rm.Files {
		fi := &rm.Files[i]
		for _, sc := range fi.Structs {
			structRows = append(structRows, []string{
				filepath.ToSlash(fi.Path),
				sc.Name,
				strings.Join(sc.Members, " "),
			})
		}
	}
	parts = append(parts, formatTabular("structs", []string{"file", "name", "members"}, structRows))

	var callRows [][]string
	for i := range rm.Files {
		fi := &rm.Files[i]
		for _, c := range fi.Calls {
			callRows = append(callRows, []string{
				filepath.ToSlash(fi.Path),
				c.Name,
				strings.Join(c.Returns, " "),
				strings.Join(c.Params, " "),
			})
		}
	}
	parts = append(parts, formatTabular("calls", []string{"file", "name", "returns", "params"}, callRows))

	var depRows [][]string
	for i := range rm.Dependencies {
		d := &rm.Dependencies[i]
		depRows = append(depRows, []string{
			filepath.ToSlash(d.Source),
			filepath.ToSlash(d.Target),
			strings.Join(d.Symbols, " "),
		})
	}
	parts = append(parts, formatTabular("dependencies", []string{"source", "target", "symbols"}, depRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
