// Package scan extracts symbolic information from dialect source text with
// regular-expression scans: added search paths, identifiers, completion
// candidates, declaration positions, occurrences, struct members and
// multi-return call sites.
//
// The analysis is approximate by construction. No syntax tree is built and
// no scope or type information is inferred.
package scan

import (
	"regexp"

	"github.com/spf13/afero"

	"github.com/phobologic/matsym/internal/lang"
	"github.com/phobologic/matsym/internal/model"
)

// Analyzer runs the lexical scans for one dialect. It holds no mutable state
// and is safe for concurrent use.
type Analyzer struct {
	dialect    *lang.Dialect
	fs         afero.Fs
	functionRe *regexp.Regexp
}

// New returns an Analyzer for dialect d. fs is used only to list search
// directories when building completion candidates; a nil fs means the OS
// filesystem. A nil d means lang.DefaultDialect.
func New(d *lang.Dialect, fs afero.Fs) *Analyzer {
	if d == nil {
		d = lang.Dialects[lang.DefaultDialect]
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	a := &Analyzer{dialect: d, fs: fs}
	if d.FunctionMarker != "" {
		a.functionRe = wholeWord(d.FunctionMarker)
	}
	return a
}

// Dialect returns the dialect the analyzer was built for.
func (a *Analyzer) Dialect() *lang.Dialect {
	return a.dialect
}

// Fs returns the filesystem the analyzer lists directories from.
func (a *Analyzer) Fs() afero.Fs {
	return a.fs
}

// Analyze runs the content-only scans over one file. path is recorded
// verbatim and also used to exclude the file's own name from struct discovery.
func (a *Analyzer) Analyze(path, content string) model.FileInfo {
	return model.FileInfo{
		Path:        path,
		Dialect:     a.dialect.Name,
		AddedPaths:  a.ResolveAddedPaths(content),
		Identifiers: a.ExtractIdentifiers(content),
		Structs:     a.BuildCompletions(path, content),
		Calls:       a.ExtractMultiReturnCalls(content),
	}
}
