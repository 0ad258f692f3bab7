package scan

import (
	"regexp"
)

var (
	// addpathRe matches an addpath directive at the start of a line whose
	// leading whitespace has already been removed.
	addpathRe = regexp.MustCompile(`^addpath\((?:"([^"]*)"|'([^']*)')\)`)

	// wordRe matches maximal runs of identifier characters.
	wordRe = regexp.MustCompile(`\w+`)

	// structNameRe matches an identifier immediately followed by a dot.
	structNameRe = regexp.MustCompile(`\b([A-Za-z_]\w*)\.`)

	// multiCallRe matches [returns] = name(params). "." does not cross
	// newlines, so matches never span lines.
	multiCallRe = regexp.MustCompile(`\[(.*)\][ \t]*=[ \t]*([A-Za-z_]\w*)\((.*)\)`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// wholeWord matches word bounded by non-identifier characters.
func wholeWord(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
}

// assignment matches word followed by optional whitespace and "=".
func assignment(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\s*=`)
}

// memberAccess matches structName.token, capturing token. structName may
// itself follow a dot, as in cfg.solver.tol. token starts with an identifier
// character and stops at whitespace, separators, operators, quotes and
// closing brackets; an opening parenthesis is kept so that calls can be told
// apart from field accesses.
func memberAccess(structName string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\W)` + regexp.QuoteMeta(structName) +
		`\.([A-Za-z_][^\s.,;:=+\-*/\\^<>&|~'"!)\]{}]*)`)
}
