package toon

import (
	"strings"
	"testing"

	"kr.dev/diff"

	"github.com/phobologic/matsym/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "lib/solve.m", "lib/solve.m"},
		{"dotted name", "opts.tol", "opts.tol"},
		{"member list", "tol max_iter", "tol max_iter"},
		{"ignored output", "~", "~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	rm := &model.RepoMap{
		RepoName: "myrepo",
		Root:     "myrepo",
		Files: []model.FileInfo{
			{
				Path:       "main.m",
				Dialect:    "matlab",
				Rank:       0.75,
				AddedPaths: []string{"lib"},
				Structs: []model.StructCompletion{
					{Name: "opts", Members: []string{"tol", "max_iter"}},
				},
				Calls: []model.FunctionCall{
					{Name: "solve", Params: []string{"A", "b"}, Returns: []string{"x", "flag"}},
				},
			},
			{
				Path:    "lib/solve.m",
				Dialect: "matlab",
				Rank:    0.25,
			},
		},
		Dependencies: []model.Dependency{
			{
				Source:  "main.m",
				Target:  "lib/solve.m",
				Symbols: []string{"solve"},
			},
		},
	}

	got := Encode(rm)

	want := []string{
		"repo: myrepo",
		"root: myrepo",
		"files[2]{path,dialect,rank}:",
		"  main.m,matlab,0.7500",
		"  lib/solve.m,matlab,0.2500",
		"paths[1]{file,path}:",
		"  main.m,lib",
		"structs[1]{file,name,members}:",
		"  main.m,opts,tol max_iter",
		"calls[1]{file,name,returns,params}:",
		"  main.m,solve,x flag,A b",
		"dependencies[1]{source,target,symbols}:",
		"  main.m,lib/solve.m,solve",
	}

	diff.Test(t, t.Errorf, got, strings.Join(want, "\n"))
}

func TestEncodeQuotesMembers(t *testing.T) {
	t.Parallel()

	rm := &model.RepoMap{
		RepoName: "r",
		Root:     "r",
		Files: []model.FileInfo{
			{Path: "a.m", Dialect: "matlab", Calls: []model.FunctionCall{
				{Name: "f", Params: []string{"x{1}"}, Returns: []string{"a", "~"}},
			}},
		},
	}

	got := Encode(rm)
	if !strings.Contains(got, `  a.m,f,a ~,"x{1}"`) {
		t.Errorf("expected quoted params cell, got:\n%s", got)
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	rm := &model.RepoMap{
		RepoName: "empty",
		Root:     "empty",
	}

	got := Encode(rm)
	for _, section := range []string{
		"files[0]{path,dialect,rank}:",
		"structs[0]{file,name,members}:",
		"calls[0]{file,name,returns,params}:",
		"dependencies[0]{source,target,symbols}:",
	} {
		if !strings.Contains(got, section) {
			t.Errorf("expected %q section, got:\n%s", section, got)
		}
	}
	if strings.Contains(got, "paths[") {
		t.Errorf("paths section should be omitted when empty, got:\n%s", got)
	}
}
