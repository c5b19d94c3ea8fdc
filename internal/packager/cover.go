package packager

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	maxCoverWidth    = 1600
	coverJPEGQuality = 90
)

// NormalizeCover copies a pre-resolved local cover file into the content
// root as baseline JPEG, downscaling oversized images. Decode failures fall
// back to a raw byte copy so an odd cover never aborts the run.
func NormalizeCover(fsys afero.Fs, srcPath, dstPath string) error {
	data, err := afero.ReadFile(fsys, srcPath)
	if err != nil {
		return fmt.Errorf("read cover %s: %w", srcPath, err)
	}

	img, decodeErr := imaging.Decode(bytes.NewReader(data))
	if decodeErr != nil {
		logrus.WithError(decodeErr).Warn("cover did not decode, copying as-is")
		return writeFile(fsys, dstPath, data)
	}

	if img.Bounds().Dx() > maxCoverWidth {
		img = imaging.Resize(img, maxCoverWidth, 0, imaging.Lanczos)
	}

	out, err := fsys.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create cover %s: %w", dstPath, err)
	}
	defer out.Close()

	if err := imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(coverJPEGQuality)); err != nil {
		return fmt.Errorf("encode cover: %w", err)
	}
	return nil
}

func writeFile(fsys afero.Fs, path string, data []byte) error {
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
