package packager

import (
	"reflect"
	"testing"

	"loanpack/internal/libby"
)

func spinePaths(entries []libby.SpineEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.OriginalPath)
	}
	return paths
}

func TestOrderSpine_TOCOrderWins(t *testing.T) {
	entries := []libby.SpineEntry{
		{OriginalPath: "a", SpinePosition: 0},
		{OriginalPath: "b", SpinePosition: 1},
		{OriginalPath: "c", SpinePosition: 2},
	}
	toc := []string{"c", "a"}

	got := spinePaths(OrderSpine(entries, toc, false))
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOrderSpine_Deterministic(t *testing.T) {
	entries := []libby.SpineEntry{
		{OriginalPath: "d", SpinePosition: 3},
		{OriginalPath: "a", SpinePosition: 0},
		{OriginalPath: "c", SpinePosition: 2},
		{OriginalPath: "b", SpinePosition: 1},
	}
	toc := []string{"b", "d"}

	first := spinePaths(OrderSpine(entries, toc, false))
	for i := 0; i < 10; i++ {
		next := spinePaths(OrderSpine(entries, toc, false))
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d differs: %v vs %v", i, first, next)
		}
	}
}

func TestOrderSpine_UnmatchedNeverInterleaved(t *testing.T) {
	entries := []libby.SpineEntry{
		{OriginalPath: "extra", SpinePosition: 0},
		{OriginalPath: "p1", SpinePosition: 1},
		{OriginalPath: "p2", SpinePosition: 2},
	}
	toc := []string{"p1", "p2"}

	got := spinePaths(OrderSpine(entries, toc, false))
	want := []string{"p1", "p2", "extra"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected TOC-matched entries first, got %v", got)
	}
}

func TestOrderSpine_UnmatchedKeepCatalogOrder(t *testing.T) {
	entries := []libby.SpineEntry{
		{OriginalPath: "z", SpinePosition: 5},
		{OriginalPath: "y", SpinePosition: 4},
		{OriginalPath: "x", SpinePosition: 3},
	}

	got := spinePaths(OrderSpine(entries, nil, false))
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected catalog position order %v, got %v", want, got)
	}
}

func TestOrderSpine_MagazineExcludesNonTOCEntries(t *testing.T) {
	entries := []libby.SpineEntry{
		{OriginalPath: "cover.xhtml", SpinePosition: 0},
		{OriginalPath: "story.xhtml", SpinePosition: 1},
	}
	toc := []string{"story.xhtml"}

	got := spinePaths(OrderSpine(entries, toc, true))
	want := []string{"story.xhtml"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("magazine spine must exclude non-TOC entries, got %v", got)
	}
}
