package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func buildBookTree(t *testing.T) (afero.Fs, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	bookFolder := filepath.Join("work", "Example Magazine")

	files := map[string]string{
		filepath.Join(bookFolder, MetaFolderName, "container.xml"):              "<container/>",
		filepath.Join(bookFolder, ContentFolderName, OPFFileName):               "<package/>",
		filepath.Join(bookFolder, ContentFolderName, "stories", "story.xhtml"): "<html/>",
	}
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fs, bookFolder
}

func readArchive(t *testing.T, fs afero.Fs, epubPath string) *zip.Reader {
	t.Helper()
	data, err := afero.ReadFile(fs, epubPath)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	return zr
}

func TestWriteArchive_MimetypeFirstAndStored(t *testing.T) {
	fs, bookFolder := buildBookTree(t)
	epubPath := bookFolder + ".epub"

	if err := WriteArchive(fs, bookFolder, epubPath); err != nil {
		t.Fatalf("WriteArchive failed: %v", err)
	}
	zr := readArchive(t, fs, epubPath)

	if len(zr.File) == 0 {
		t.Fatal("empty archive")
	}
	first := zr.File[0]
	if first.Name != MimetypeFileName {
		t.Fatalf("first entry is %q, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Fatalf("mimetype entry must be stored, got method %d", first.Method)
	}

	rc, err := first.Open()
	if err != nil {
		t.Fatalf("open mimetype: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read mimetype: %v", err)
	}
	if string(content) != MediaTypeEPUB {
		t.Fatalf("mimetype content %q", content)
	}
}

func TestWriteArchive_TreePreserved(t *testing.T) {
	fs, bookFolder := buildBookTree(t)
	epubPath := bookFolder + ".epub"

	if err := WriteArchive(fs, bookFolder, epubPath); err != nil {
		t.Fatalf("WriteArchive failed: %v", err)
	}
	zr := readArchive(t, fs, epubPath)

	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"META-INF/container.xml",
		"OEBPS/package.opf",
		"OEBPS/stories/story.xhtml",
	} {
		if !names[want] {
			t.Fatalf("missing entry %s, archive has %v", want, names)
		}
	}
}

func TestWriteArchive_MissingTreeFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := WriteArchive(fs, "nowhere", "nowhere.epub"); err == nil {
		t.Fatal("expected error for missing book folder")
	}
}
