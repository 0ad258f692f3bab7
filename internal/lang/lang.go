// Package lang provides a dialect registry mapping file extensions to the
// lexical conventions (comment markers, reserved words) of each dialect.
package lang

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Dialect holds the lexical configuration for a supported language dialect.
// Registered dialects are shared and must be treated as read-only.
type Dialect struct {
	Name           string
	Extensions     []string
	CommentMarkers []string
	FunctionMarker string
	Keywords       map[string]struct{}
}

// DefaultDialect is the dialect used when none is configured.
const DefaultDialect = "matlab"

// Dialects maps dialect names to their configuration.
// Populated by init() functions in per-dialect files.
var Dialects = map[string]*Dialect{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, name := range Names() {
			for _, ext := range Dialects[name].Extensions {
				if _, ok := extensionMap[ext]; !ok {
					extensionMap[ext] = name
				}
			}
		}
	})
	return extensionMap
}

// ForExtension returns the dialect name for a file extension, or "" if unsupported.
// When several dialects share an extension the first by name wins.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// Names returns the registered dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Dialects))
	for name := range Dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKeyword reports whether word is a reserved word of the dialect.
func (d *Dialect) IsKeyword(word string) bool {
	_, ok := d.Keywords[word]
	return ok
}

// IsComment reports whether line, ignoring leading whitespace, is a line comment.
func (d *Dialect) IsComment(line string) bool {
	trimmed := strings.TrimLeft(line, " \t\r\v\f")
	for _, marker := range d.CommentMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// HasExtension reports whether name ends in one of the dialect's extensions.
func (d *Dialect) HasExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range d.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// WithKeywords returns a copy of d whose keyword table also contains extra.
// d itself is left untouched.
func (d *Dialect) WithKeywords(extra []string) *Dialect {
	if len(extra) == 0 {
		return d
	}
	cp := *d
	cp.Keywords = make(map[string]struct{}, len(d.Keywords)+len(extra))
	for k := range d.Keywords {
		cp.Keywords[k] = struct{}{}
	}
	for _, k := range extra {
		if k = strings.TrimSpace(k); k != "" {
			cp.Keywords[k] = struct{}{}
		}
	}
	return &cp
}

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
