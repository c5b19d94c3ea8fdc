package libby

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTOCEntryPagePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"stories/story.xhtml#section-2", "stories/story.xhtml"},
		{"stories/story.xhtml", "stories/story.xhtml"},
		{"", ""},
	}
	for _, tt := range tests {
		entry := TOCEntry{Path: tt.path}
		if got := entry.PagePath(); got != tt.want {
			t.Fatalf("PagePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOpenBookTOCPagePaths(t *testing.T) {
	book := OpenBook{Nav: Nav{TOC: []TOCEntry{
		{Title: "One", Path: "a.xhtml#top"},
		{Title: "Two", Path: "b.xhtml"},
	}}}
	want := []string{"a.xhtml", "b.xhtml"}
	if got := book.TOCPagePaths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOpenBookAuthorNames(t *testing.T) {
	book := OpenBook{Creators: []Creator{
		{Name: "Jane Writer", Role: "author"},
		{Name: "Ed Itor", Role: "editor"},
	}}
	want := []string{"Jane Writer"}
	if got := book.AuthorNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// No explicit author role: everyone is credited.
	book.Creators[0].Role = "narrator"
	if got := book.AuthorNames(); len(got) != 2 {
		t.Fatalf("expected all creators, got %v", got)
	}
}

func TestSpineEntryJSONKeys(t *testing.T) {
	raw := `{"-odread-original-path":"stories/story.xhtml","-odread-spine-position":3}`
	var entry SpineEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.OriginalPath != "stories/story.xhtml" || entry.SpinePosition != 3 {
		t.Fatalf("got %+v", entry)
	}
}
