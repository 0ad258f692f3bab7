package scan

import (
	"strings"
	"unicode/utf8"

	"github.com/phobologic/matsym/internal/model"
)

// Locate finds the declaration of word. The first assignment "word =" wins;
// failing that, word is looked up on the first function declaration line.
//
// For an assignment match the column is the length of the last line of text
// before the match: the match column when the match is mid-line, and the
// length of the preceding line when the match starts its line. Editor
// integrations rely on this, so it is kept as is.
func (a *Analyzer) Locate(content, word string) (model.Position, bool) {
	if word == "" {
		return model.Position{}, false
	}

	if loc := assignment(word).FindStringIndex(content); loc != nil {
		before := content[:loc[0]]
		last := strings.TrimSuffix(before, "\n")
		last = last[strings.LastIndex(last, "\n")+1:]
		last = strings.TrimSuffix(last, "\r")
		return model.Position{
			Row:    strings.Count(before, "\n"),
			Column: utf8.RuneCountInString(last),
		}, true
	}

	if a.functionRe == nil || !a.functionRe.MatchString(content) {
		return model.Position{}, false
	}

	re := wholeWord(word)
	for row, line := range strings.Split(content, "\n") {
		if !a.functionRe.MatchString(line) {
			continue
		}
		loc := re.FindStringIndex(line)
		if loc == nil || loc[0] == 0 {
			return model.Position{}, false
		}
		return model.Position{Row: row, Column: utf8.RuneCountInString(line[:loc[0]])}, true
	}
	return model.Position{}, false
}
