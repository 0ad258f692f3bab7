package graph

import (
	"math"
	"slices"
	"testing"

	"github.com/phobologic/matsym/internal/model"
)

func TestFunctionName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"solve.m", "solve"},
		{"lib/plot_all.m", "plot_all"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := FunctionName(tt.path); got != tt.want {
			t.Errorf("FunctionName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBuildGraphCrossFileRef(t *testing.T) {
	t.Parallel()

	fileInfos := []model.FileInfo{
		{Path: "main.m", Identifiers: []string{"x", "helper"}},
		{Path: "lib/helper.m", Identifiers: []string{"y"}},
	}

	deps := BuildGraph(fileInfos)
	if len(deps) != 1 {
		t.Fatalf("expected 1 dep, got %d", len(deps))
	}
	if deps[0].Source != "main.m" || deps[0].Target != "lib/helper.m" {
		t.Errorf("dep: %+v", deps[0])
	}
	if !slices.Equal(deps[0].Symbols, []string{"helper"}) {
		t.Errorf("symbols: %v", deps[0].Symbols)
	}
}

func TestBuildGraphCallNames(t *testing.T) {
	t.Parallel()

	fileInfos := []model.FileInfo{
		{
			Path:        "main.m",
			Identifiers: []string{"a", "b", "stats", "data"},
			Calls:       []model.FunctionCall{{Name: "stats", Params: []string{"data"}, Returns: []string{"a", "b"}}},
		},
		{Path: "stats.m"},
	}

	deps := BuildGraph(fileInfos)
	if len(deps) != 1 || !slices.Equal(deps[0].Symbols, []string{"stats"}) {
		t.Errorf("expected one deduplicated stats edge, got %+v", deps)
	}
}

func TestBuildGraphNoSelfEdge(t *testing.T) {
	t.Parallel()

	fileInfos := []model.FileInfo{
		{Path: "solve.m", Identifiers: []string{"solve", "x"}},
	}

	deps := BuildGraph(fileInfos)
	if len(deps) != 0 {
		t.Errorf("expected 0 deps (no self-edges), got %d", len(deps))
	}
}

func TestBuildGraphNoDefs(t *testing.T) {
	t.Parallel()

	fileInfos := []model.FileInfo{
		{Path: "main.m", Identifiers: []string{"disp", "zeros"}},
	}

	deps := BuildGraph(fileInfos)
	if len(deps) != 0 {
		t.Errorf("expected 0 deps (unresolved ref), got %d", len(deps))
	}
}

func TestBuildGraphSorted(t *testing.T) {
	t.Parallel()

	fileInfos := []model.FileInfo{
		{Path: "z.m", Identifiers: []string{"b", "a"}},
		{Path: "a.m"},
		{Path: "b.m", Identifiers: []string{"a"}},
	}

	deps := BuildGraph(fileInfos)
	if len(deps) != 3 {
		t.Fatalf("expected 3 deps, got %+v", deps)
	}
	order := []string{
		deps[0].Source + "->" + deps[0].Target,
		deps[1].Source + "->" + deps[1].Target,
		deps[2].Source + "->" + deps[2].Target,
	}
	want := []string{"b.m->a.m", "z.m->a.m", "z.m->b.m"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRankUniform(t *testing.T) {
	t.Parallel()

	fileInfos := []model.FileInfo{
		{Path: "c.m"},
		{Path: "a.m"},
		{Path: "b.m"},
	}

	Rank(fileInfos, nil)

	expected := 1.0 / 3.0
	for _, fi := range fileInfos {
		if math.Abs(fi.Rank-expected) > 1e-9 {
			t.Errorf("%s rank = %f, want %f", fi.Path, fi.Rank, expected)
		}
	}
	// Ties are broken by path
	if fileInfos[0].Path != "a.m" || fileInfos[2].Path != "c.m" {
		t.Errorf("unexpected order: %+v", fileInfos)
	}
}

func TestRankWithEdges(t *testing.T) {
	t.Parallel()

	fileInfos := []model.FileInfo{
		{Path: "a.m"},
		{Path: "b.m"},
		{Path: "c.m"},
	}

	deps := []model.Dependency{
		{Source: "a.m", Target: "b.m", Symbols: []string{"b"}},
		{Source: "c.m", Target: "b.m", Symbols: []string{"b"}},
	}

	Rank(fileInfos, deps)

	// b.m should have highest rank (referenced by both a and c)
	if fileInfos[0].Path != "b.m" {
		t.Errorf("expected b.m first, got %s", fileInfos[0].Path)
	}

	// Ranks should sum to ~1.0
	var sum float64
	for _, fi := range fileInfos {
		sum += fi.Rank
	}
	if math.Abs(sum-1.0) > 0.01 {
		t.Errorf("ranks sum to %f, expected ~1.0", sum)
	}

	if fileInfos[0].Rank <= fileInfos[1].Rank {
		t.Errorf("b.m rank (%f) should be > second file rank (%f)",
			fileInfos[0].Rank, fileInfos[1].Rank)
	}
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()
	Rank(nil, nil) // should not panic
}
