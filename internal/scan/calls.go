package scan

import (
	"strings"

	"github.com/phobologic/matsym/internal/model"
)

// ExtractMultiReturnCalls returns every call of the form [a, b] = f(x, y).
// Single-return calls and calls without parentheses are not recognized.
func (a *Analyzer) ExtractMultiReturnCalls(content string) []model.FunctionCall {
	var calls []model.FunctionCall
	for _, m := range multiCallRe.FindAllStringSubmatch(content, -1) {
		calls = append(calls, model.FunctionCall{
			Name:    m[2],
			Params:  splitList(m[3]),
			Returns: splitList(m[1]),
		})
	}
	return calls
}

// splitList removes all whitespace from s and splits it on commas.
func splitList(s string) []string {
	s = whitespaceRe.ReplaceAllString(s, "")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
