package scan

// ExtractIdentifiers returns every distinct identifier-like token in content
// in first-seen order. Runs starting with a digit and reserved words are
// dropped. Every mention counts, not only declarations.
func (a *Analyzer) ExtractIdentifiers(content string) []string {
	set := newOrderedSet()
	for _, word := range wordRe.FindAllString(content, -1) {
		if word[0] >= '0' && word[0] <= '9' {
			continue
		}
		if a.dialect.IsKeyword(word) {
			continue
		}
		set.add(word)
	}
	return set.slice()
}
