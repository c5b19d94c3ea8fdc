package epub

import (
	"strings"
	"testing"

	"loanpack/internal/libby"
)

func testMedia() libby.MediaInfo {
	return libby.MediaInfo{
		ID:    "9876543",
		Title: "Example Magazine",
		Type:  libby.MediaType{ID: libby.MediaTypeMagazine},
		Formats: []libby.Format{
			{ID: libby.FormatMagazineOverDrive, ISBN: "9781234567897"},
		},
		Creators:  []libby.Creator{{Name: "Jane Writer", Role: "aut"}},
		Languages: []libby.Language{{ID: "en"}},
	}
}

func TestNewPackage_MetadataBlock(t *testing.T) {
	pkg := NewPackage(testMedia(), "3.0", libby.FormatMagazineOverDrive)

	out, err := pkg.Marshal(false)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)

	if !strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("missing xml declaration: %s", s[:40])
	}
	for _, want := range []string{
		`<dc:title>Example Magazine</dc:title>`,
		`<dc:identifier id="pub-id">9781234567897</dc:identifier>`,
		`<dc:language>en</dc:language>`,
		`unique-identifier="pub-id"`,
		`version="3.0"`,
		`dcterms:modified`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in OPF, got: %s", want, s)
		}
	}
}

func TestNewPackage_IdentifierFallsBackToMediaID(t *testing.T) {
	media := testMedia()
	media.Formats = nil
	pkg := NewPackage(media, "3.0", libby.FormatMagazineOverDrive)

	out, err := pkg.Marshal(false)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(out), `<dc:identifier id="pub-id">9876543</dc:identifier>`) {
		t.Fatalf("expected media id fallback, got: %s", out)
	}
}

func TestPackage_ManifestSpineGuide(t *testing.T) {
	pkg := NewPackage(testMedia(), "3.0", libby.FormatMagazineOverDrive)
	pkg.AddManifestItem(ManifestItem{ID: "story", Href: "stories/story.xhtml", MediaType: MediaTypeXHTML, Properties: "nav"})
	pkg.AddManifestItem(ManifestItem{ID: "ncx", Href: NCXFileName, MediaType: MediaTypeNCX})
	pkg.SetSpine("ncx", []string{"story"})
	pkg.SetGuide([]GuideReference{{Href: "stories/story.xhtml", Title: "Start", Type: "text"}})

	out, err := pkg.Marshal(false)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)

	for _, want := range []string{
		`<item id="story" href="stories/story.xhtml" media-type="application/xhtml+xml" properties="nav">`,
		`<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml">`,
		`<spine toc="ncx">`,
		`<itemref idref="story">`,
		`<reference href="stories/story.xhtml" title="Start" type="text">`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in OPF, got: %s", want, s)
		}
	}
}

func TestPackage_EmptyGuideOmitted(t *testing.T) {
	pkg := NewPackage(testMedia(), "3.0", libby.FormatMagazineOverDrive)
	pkg.SetGuide(nil)

	out, err := pkg.Marshal(false)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(out), "<guide") {
		t.Fatalf("empty guide should be omitted, got: %s", out)
	}
}

func TestPackage_CoverMeta(t *testing.T) {
	pkg := NewPackage(testMedia(), "3.0", libby.FormatMagazineOverDrive)
	pkg.SetCoverMeta("coverimage")

	out, err := pkg.Marshal(false)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(out), `name="cover" content="coverimage"`) {
		t.Fatalf("expected cover meta, got: %s", out)
	}
}

func TestContainerXML(t *testing.T) {
	out, err := ContainerXML("OEBPS/package.opf")
	if err != nil {
		t.Fatalf("ContainerXML failed: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		`xmlns="urn:oasis:names:tc:opendocument:xmlns:container"`,
		`full-path="OEBPS/package.opf"`,
		`media-type="application/oebps-package+xml"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in container.xml, got: %s", want, s)
		}
	}
}
