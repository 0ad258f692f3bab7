package scan

// orderedSet keeps the first occurrence of each string in insertion order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

// add inserts s and reports whether it was not already present.
func (o *orderedSet) add(s string) bool {
	if _, ok := o.seen[s]; ok {
		return false
	}
	o.seen[s] = struct{}{}
	o.items = append(o.items, s)
	return true
}

func (o *orderedSet) addAll(ss []string) {
	for _, s := range ss {
		o.add(s)
	}
}

// slice returns the members in insertion order, or nil when empty.
func (o *orderedSet) slice() []string {
	return o.items
}
