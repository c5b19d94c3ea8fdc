package naming

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"stories/story-01.xhtml", "stories-story-01-xhtml"},
		{"Café Société", "cafe-societe"},
		{"  spaced   out  ", "spaced-out"},
		{"UPPER_case", "upper-case"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeOPFID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"stories/story.xhtml", "stories-story-xhtml"},
		{"0001.xhtml", "id_0001-xhtml"},
		{"", "id"},
		{"---", "id"},
	}
	for _, tt := range tests {
		if got := SanitizeOPFID(tt.in); got != tt.want {
			t.Fatalf("SanitizeOPFID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIDSet_StablePerPath(t *testing.T) {
	ids := NewIDSet()
	first := ids.For("a/b.xhtml")
	if first != "a-b-xhtml" {
		t.Fatalf("For(a/b.xhtml) = %q", first)
	}
	if again := ids.For("a/b.xhtml"); again != first {
		t.Fatalf("second For(a/b.xhtml) = %q, want %q", again, first)
	}
}

func TestIDSet_CollidingSlugsGetSuffix(t *testing.T) {
	ids := NewIDSet()
	if got := ids.For("a/b.xhtml"); got != "a-b-xhtml" {
		t.Fatalf("For(a/b.xhtml) = %q", got)
	}
	if got := ids.For("a-b.xhtml"); got != "a-b-xhtml-2" {
		t.Fatalf("For(a-b.xhtml) = %q, want a-b-xhtml-2", got)
	}
	if got := ids.For("a_b.xhtml"); got != "a-b-xhtml-3" {
		t.Fatalf("For(a_b.xhtml) = %q, want a-b-xhtml-3", got)
	}
	// Allocated ids stay stable after the collisions.
	if got := ids.For("a-b.xhtml"); got != "a-b-xhtml-2" {
		t.Fatalf("repeat For(a-b.xhtml) = %q", got)
	}
}

func TestIDSet_ReservedIDs(t *testing.T) {
	ids := NewIDSet("ncx", "nav")
	if got := ids.For("ncx"); got != "ncx-2" {
		t.Fatalf("For(ncx) = %q, want ncx-2", got)
	}
	if got := ids.For("nav"); got != "nav-2" {
		t.Fatalf("For(nav) = %q, want nav-2", got)
	}
}

func TestBookNames(t *testing.T) {
	folder, file := BookNames("The Big Issue: Jan/Feb", "", []string{"Jane Writer"}, "")
	if folder != "The Big Issue JanFeb - Jane Writer" {
		t.Fatalf("folder = %q", folder)
	}
	if file != folder+".epub" {
		t.Fatalf("file = %q", file)
	}
}

func TestBookNames_SeriesAndEdition(t *testing.T) {
	folder, _ := BookNames("Issue 12", "Example Magazine", nil, "2023")
	if folder != "Example Magazine - Issue 12 - 2023" {
		t.Fatalf("folder = %q", folder)
	}
}

func TestBookNames_EmptyInputs(t *testing.T) {
	folder, file := BookNames("", "", nil, "")
	if folder != "book" || file != "book.epub" {
		t.Fatalf("got %q / %q", folder, file)
	}
}
