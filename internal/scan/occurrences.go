package scan

import (
	"strings"
	"unicode/utf8"

	"github.com/phobologic/matsym/internal/model"
)

// FindOccurrences returns the position of every whole-word match of name,
// row by row and left to right within a row.
func (a *Analyzer) FindOccurrences(content, name string) []model.Position {
	if name == "" {
		return nil
	}
	re := wholeWord(name)

	var positions []model.Position
	for row, line := range strings.Split(content, "\n") {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			positions = append(positions, model.Position{
				Row:    row,
				Column: utf8.RuneCountInString(line[:loc[0]]),
			})
		}
	}
	return positions
}
