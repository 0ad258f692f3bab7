package ranking

import (
	"testing"

	"github.com/phobologic/matsym/internal/model"
)

func makeRepoMap() *model.RepoMap {
	return &model.RepoMap{
		RepoName: "test",
		Root:     "test",
		Files: []model.FileInfo{
			{Path: "main.m", Dialect: "matlab", Rank: 0.5, Structs: []model.StructCompletion{
				{Name: "opts", Members: []string{"tol"}},
				{Name: "result", Members: []string{"x"}},
			}},
			{Path: "lib/solve.m", Dialect: "matlab", Rank: 0.3, Structs: []model.StructCompletion{
				{Name: "Opts", Members: []string{"max_iter"}},
			}},
			{Path: "lib/plot_it.m", Dialect: "matlab", Rank: 0.2},
		},
		Dependencies: []model.Dependency{
			{Source: "main.m", Target: "lib/solve.m", Symbols: []string{"solve"}},
			{Source: "main.m", Target: "lib/plot_it.m", Symbols: []string{"plot_it"}},
			{Source: "lib/solve.m", Target: "lib/plot_it.m", Symbols: []string{"plot_it"}},
		},
	}
}

func TestSelectFilesAll(t *testing.T) {
	t.Parallel()

	rm := makeRepoMap()
	got := SelectFiles(rm, 0)
	if got != rm {
		t.Error("maxFiles=0 should return original")
	}

	got = SelectFiles(rm, 5)
	if got != rm {
		t.Error("maxFiles > len should return original")
	}

	got = SelectFiles(rm, 3)
	if got != rm {
		t.Error("maxFiles == len should return original")
	}
}

func TestSelectFilesSubset(t *testing.T) {
	t.Parallel()

	rm := makeRepoMap()
	got := SelectFiles(rm, 2)

	if len(got.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(got.Files))
	}
	if got.Files[0].Path != "main.m" || got.Files[1].Path != "lib/solve.m" {
		t.Errorf("expected main.m, lib/solve.m; got %s, %s", got.Files[0].Path, got.Files[1].Path)
	}

	// Only main.m→lib/solve.m dep should survive (plot_it.m not in selected)
	if len(got.Dependencies) != 1 {
		t.Fatalf("expected 1 dep, got %d", len(got.Dependencies))
	}
	if got.Dependencies[0].Target != "lib/solve.m" {
		t.Errorf("unexpected dep: %+v", got.Dependencies[0])
	}
}

func TestSelectFilesOne(t *testing.T) {
	t.Parallel()

	rm := makeRepoMap()
	got := SelectFiles(rm, 1)

	if len(got.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(got.Files))
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("expected 0 deps, got %d", len(got.Dependencies))
	}
}

func TestFilterByStruct(t *testing.T) {
	t.Parallel()

	rm := makeRepoMap()
	got := FilterByStruct(rm, "OPT")

	if len(got.Files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(got.Files), got.Files)
	}
	if len(got.Files[0].Structs) != 1 || got.Files[0].Structs[0].Name != "opts" {
		t.Errorf("main.m structs should be trimmed to opts: %+v", got.Files[0].Structs)
	}
	if got.Files[1].Structs[0].Name != "Opts" {
		t.Errorf("case-insensitive match failed: %+v", got.Files[1].Structs)
	}
	if len(got.Dependencies) != 3 {
		t.Errorf("expected 3 deps touching matched files, got %d", len(got.Dependencies))
	}

	// The source map must not be modified
	if len(rm.Files[0].Structs) != 2 {
		t.Error("source map modified")
	}
}

func TestFilterByStructNoMatch(t *testing.T) {
	t.Parallel()

	got := FilterByStruct(makeRepoMap(), "nothing")
	if len(got.Files) != 0 || len(got.Dependencies) != 0 {
		t.Errorf("expected empty map, got %+v", got)
	}
}

func TestFilterByFile(t *testing.T) {
	t.Parallel()

	got := FilterByFile(makeRepoMap(), "PLOT")
	if len(got.Files) != 1 || got.Files[0].Path != "lib/plot_it.m" {
		t.Fatalf("unexpected files: %+v", got.Files)
	}
	if len(got.Dependencies) != 2 {
		t.Errorf("expected 2 deps into plot_it.m, got %d", len(got.Dependencies))
	}
}
