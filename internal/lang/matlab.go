package lang

var matlabKeywords = []string{
	"break", "case", "catch", "classdef", "continue", "else", "elseif",
	"end", "for", "function", "global", "if", "otherwise", "parfor",
	"persistent", "return", "spmd", "switch", "try", "while",
}

func init() {
	Dialects["matlab"] = &Dialect{
		Name:           "matlab",
		Extensions:     []string{".m"},
		CommentMarkers: []string{"%"},
		FunctionMarker: "function",
		Keywords:       keywordSet(matlabKeywords...),
	}
}
