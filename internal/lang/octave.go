package lang

// Octave accepts every MATLAB reserved word plus its own block terminators.
var octaveKeywords = []string{
	"do", "until", "endfunction", "endif", "endfor", "endparfor", "endwhile",
	"endswitch", "end_try_catch", "unwind_protect", "unwind_protect_cleanup",
	"end_unwind_protect",
}

func init() {
	Dialects["octave"] = &Dialect{
		Name:           "octave",
		Extensions:     []string{".m"},
		CommentMarkers: []string{"%", "#"},
		FunctionMarker: "function",
		Keywords:       keywordSet(append(append([]string{}, matlabKeywords...), octaveKeywords...)...),
	}
}
