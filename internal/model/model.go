// Package model defines core data structures for matsym.
package model

// Position is a zero-based line and character offset within a source file.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// StructCompletion lists the members referenced through dotted access on Name.
type StructCompletion struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// FunctionCall is a multi-return call site such as [a, b] = f(x, y).
type FunctionCall struct {
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Returns []string `json:"returns"`
}

// FileInfo holds the lexical analysis of a single source file.
type FileInfo struct {
	Path        string             `json:"path"`
	Dialect     string             `json:"dialect"`
	AddedPaths  []string           `json:"added_paths,omitempty"`
	Identifiers []string           `json:"-"`
	Structs     []StructCompletion `json:"structs,omitempty"`
	Calls       []FunctionCall     `json:"calls,omitempty"`
	Rank        float64            `json:"rank"`
}

// Dependency represents an edge in the dependency graph:
// Source references the function defined by Target.
type Dependency struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Symbols []string `json:"symbols"`
}

// RepoMap is the complete analyzed repository map, ready for serialization.
type RepoMap struct {
	RepoName     string       `json:"repo"`
	Root         string       `json:"root"`
	Files        []FileInfo   `json:"files"`
	Dependencies []Dependency `json:"dependencies"`
}
