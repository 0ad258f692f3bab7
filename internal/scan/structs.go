package scan

import (
	"path/filepath"
	"strings"

	"github.com/phobologic/matsym/internal/model"
)

// DiscoverStructNames returns every identifier immediately followed by a dot
// in content, in first-seen order. Elementwise operators count too, so x.^2
// yields x. The file's own base name is skipped since it usually comes from
// the function header, not from a struct.
func (a *Analyzer) DiscoverStructNames(fileName, content string) []string {
	self := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))

	names := newOrderedSet()
	for _, m := range structNameRe.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if name == self {
			continue
		}
		names.add(name)
	}
	return names.slice()
}

// FindMembers returns the field names accessed on structName, in first-seen
// order. Accesses followed by a parenthesis are method or function calls and
// are left out.
func (a *Analyzer) FindMembers(content, structName string) []string {
	if structName == "" {
		return nil
	}

	members := newOrderedSet()
	for _, m := range memberAccess(structName).FindAllStringSubmatch(content, -1) {
		if strings.Contains(m[1], "(") {
			continue
		}
		members.add(m[1])
	}
	return members.slice()
}

// BuildCompletions pairs every discovered struct name with its members.
func (a *Analyzer) BuildCompletions(fileName, content string) []model.StructCompletion {
	names := a.DiscoverStructNames(fileName, content)
	if len(names) == 0 {
		return nil
	}
	completions := make([]model.StructCompletion, 0, len(names))
	for _, name := range names {
		completions = append(completions, model.StructCompletion{
			Name:    name,
			Members: a.FindMembers(content, name),
		})
	}
	return completions
}
