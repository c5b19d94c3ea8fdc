package epub

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteArchive assembles the final .epub zip from the unpacked book folder.
// The mimetype entry is written first and stored uncompressed as OCF
// requires; the META-INF and OEBPS trees follow as directory
// entries and their files, with paths relative to the package root. All
// entries are stored. A partial archive is left behind on failure.
func WriteArchive(fsys afero.Fs, bookFolder, epubPath string) error {
	out, err := fsys.Create(epubPath)
	if err != nil {
		return fmt.Errorf("create epub %s: %w", epubPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: MimetypeFileName, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("write mimetype entry: %w", err)
	}
	if _, err := w.Write([]byte(MediaTypeEPUB)); err != nil {
		return fmt.Errorf("write mimetype entry: %w", err)
	}

	for _, folder := range []string{MetaFolderName, ContentFolderName} {
		if err := addTree(fsys, zw, bookFolder, folder); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize epub %s: %w", epubPath, err)
	}
	return nil
}

// addTree writes the directory entry for folder and every file below it,
// preserving paths relative to the book folder.
func addTree(fsys afero.Fs, zw *zip.Writer, bookFolder, folder string) error {
	root := filepath.Join(bookFolder, folder)
	return afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		rel, err := filepath.Rel(bookFolder, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if info.IsDir() {
			if _, err := zw.CreateHeader(&zip.FileHeader{Name: name + "/", Method: zip.Store}); err != nil {
				return fmt.Errorf("add directory %s: %w", name, err)
			}
			return nil
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("add entry %s: %w", name, err)
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("add entry %s: %w", name, err)
		}
		return nil
	})
}
