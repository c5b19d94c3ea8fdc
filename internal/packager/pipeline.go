package packager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"loanpack/internal/epub"
	"loanpack/internal/libby"
	"loanpack/internal/naming"
)

// epubVersion is the primary output version. EPUB 2 compatibility is kept
// through the synthesized NCX and the spine toc reference.
const epubVersion = "3.0"

// MetadataSource resolves catalog metadata for a loan.
type MetadataSource interface {
	Media(ctx context.Context, titleID string) (libby.MediaInfo, error)
}

// ContentFetcher retrieves loan content bytes over the authenticated
// session.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// Options configures an assembly pipeline.
type Options struct {
	Fs              afero.Fs
	Metadata        MetadataSource
	Fetcher         ContentFetcher
	DownloadDir     string
	ExcludePrefixes []string
	Debug           bool
	HideProgress    bool
}

// Pipeline assembles one loan into an EPUB container. A pipeline run owns
// its output folder exclusively; concurrent runs against the same folder
// are not supported.
type Pipeline struct {
	opts Options
}

// New creates a pipeline, applying defaults for the filesystem and the
// internal-asset exclusion prefixes.
func New(opts Options) *Pipeline {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if len(opts.ExcludePrefixes) == 0 {
		opts.ExcludePrefixes = []string{"/_d/"}
	}
	return &Pipeline{opts: opts}
}

// assemblyState is the accumulator threaded through per-entry processing
// and inspected once at the end of the pass.
type assemblyState struct {
	manifest []epub.ManifestItem
	ids      *naming.IDSet
	hasNav   bool
	hasNCX   bool
}

// Run assembles the loan into <download dir>/<book name>.epub and returns
// the path of the written archive. Fetch and metadata errors abort the
// run; a partial output tree is left behind for inspection.
func (p *Pipeline) Run(ctx context.Context, loan libby.Loan, openbook libby.OpenBook, rosters []libby.Roster, coverPath string) (string, error) {
	fs := p.opts.Fs

	folderName, _ := naming.BookNames(loan.Title, loan.Series, openbook.AuthorNames(), loan.Edition)
	bookFolder := filepath.Join(p.opts.DownloadDir, folderName)
	metaFolder := filepath.Join(bookFolder, epub.MetaFolderName)
	contentFolder := filepath.Join(bookFolder, epub.ContentFolderName)
	epubPath := bookFolder + ".epub"

	for _, dir := range []string{metaFolder, contentFolder} {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create book folder: %w", err)
		}
	}

	media, err := p.opts.Metadata.Media(ctx, loan.ID)
	if err != nil {
		return "", fmt.Errorf("catalog metadata for loan %s: %w", loan.ID, err)
	}

	if p.opts.Debug {
		p.dumpDebugArtifacts(bookFolder, loan, media, openbook, rosters)
	}

	tocPages := openbook.TOCPagePaths()
	titleContents, _ := lo.Find(rosters, func(r libby.Roster) bool {
		return r.Group == libby.RosterGroupTitleContent
	})
	entries := FilterEntries(titleContents.Entries, media, tocPages, p.opts.ExcludePrefixes)

	state := &assemblyState{ids: naming.NewIDSet("ncx", "nav", "coverimage")}
	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(!p.opts.HideProgress),
		progressbar.OptionShowCount(),
	)
	for _, entry := range entries {
		if err := p.processEntry(ctx, entry, media, contentFolder, state, bar); err != nil {
			return "", err
		}
		_ = bar.Add(1)
	}

	navEntries := toNavEntries(openbook.Nav.TOC)
	if !state.hasNav {
		if err := p.synthesizeNav(loan.Title, navEntries, contentFolder, state); err != nil {
			return "", err
		}
	}
	if !state.hasNCX {
		if err := p.synthesizeNCX(media, openbook, navEntries, contentFolder, state); err != nil {
			return "", err
		}
	}

	if err := p.writePackage(loan, media, openbook, tocPages, coverPath, bookFolder, state); err != nil {
		return "", err
	}

	if err := epub.WriteArchive(fs, bookFolder, epubPath); err != nil {
		return "", err
	}
	logrus.WithField("path", epubPath).Info("saved epub")

	if !p.opts.Debug {
		p.removeIntermediates(bookFolder)
	}
	return epubPath, nil
}

// processEntry fetches, patches and stores one roster entry, recording its
// manifest row. Assets already on disk are reused and only re-inspected
// for manifest properties.
func (p *Pipeline) processEntry(ctx context.Context, entry libby.RosterEntry, media libby.MediaInfo, contentFolder string, state *assemblyState, bar *progressbar.ProgressBar) error {
	fs := p.opts.Fs

	u, err := url.Parse(entry.URL)
	if err != nil {
		return fmt.Errorf("entry url %q: %w", entry.URL, err)
	}
	relPath := strings.TrimPrefix(u.Path, "/")
	mediaType := guessMediaType(u.Path)
	if mediaType == epub.MediaTypeNCX {
		state.hasNCX = true
	}

	item := epub.ManifestItem{
		Href:      relPath,
		MediaType: mediaType,
	}
	if mediaType == epub.MediaTypeNCX {
		item.ID = "ncx"
	} else {
		item.ID = state.ids.For(relPath)
	}

	assetPath := filepath.Join(contentFolder, filepath.FromSlash(relPath))
	var props DocumentProps

	exists, err := afero.Exists(fs, assetPath)
	if err != nil {
		return fmt.Errorf("stat asset %s: %w", assetPath, err)
	}
	if exists {
		bar.Describe("Already saved " + path.Base(relPath))
		if isXHTML(mediaType) {
			data, err := afero.ReadFile(fs, assetPath)
			if err != nil {
				return fmt.Errorf("read asset %s: %w", assetPath, err)
			}
			props, err = InspectXHTML(data)
			if err != nil {
				logrus.WithField("asset", relPath).WithError(err).Warn("could not re-inspect saved asset")
			}
		}
	} else {
		bar.Describe("Downloading " + path.Base(relPath))
		data, err := p.opts.Fetcher.Fetch(ctx, entry.URL, map[string]string{"Accept": "*/*"})
		if err != nil {
			return err
		}

		switch {
		case media.IsMagazine() && mediaType == "text/css":
			data = []byte(PatchMagazineCSS(string(data)))
		case isXHTML(mediaType):
			patched, patchedProps, err := PatchXHTML(data, epubVersion)
			if err != nil {
				logrus.WithField("asset", relPath).WithError(err).Warn("content patch failed, using document as fetched")
			} else {
				data = patched
				props = patchedProps
			}
		}

		if err := fs.MkdirAll(filepath.Dir(assetPath), 0o755); err != nil {
			return fmt.Errorf("create asset folder: %w", err)
		}
		if err := writeFile(fs, assetPath, data); err != nil {
			return err
		}
	}

	switch {
	case props.IsNav && !state.hasNav:
		item.Properties = "nav"
		state.hasNav = true
	case props.IsNav:
		logrus.WithField("asset", relPath).Debug("additional navigation document ignored, nav property already assigned")
		if props.HasSVG {
			item.Properties = "svg"
		}
	case props.HasSVG:
		item.Properties = "svg"
	}

	state.manifest = append(state.manifest, item)
	return nil
}

// synthesizeNav writes a generated navigation document mirroring the TOC.
// Magazines routinely ship without one.
func (p *Pipeline) synthesizeNav(title string, navEntries []epub.NavEntry, contentFolder string, state *assemblyState) error {
	data := epub.BuildNavDocument(title, navEntries)
	if err := writeFile(p.opts.Fs, filepath.Join(contentFolder, epub.NavFileName), data); err != nil {
		return err
	}
	state.manifest = append(state.manifest, epub.ManifestItem{
		ID:         "nav",
		Href:       epub.NavFileName,
		MediaType:  epub.MediaTypeXHTML,
		Properties: "nav",
	})
	state.hasNav = true
	return nil
}

// synthesizeNCX writes a legacy NCX for EPUB 2 reader compatibility. The
// unique identifier prefers an extracted ISBN over the catalog media id.
func (p *Pipeline) synthesizeNCX(media libby.MediaInfo, openbook libby.OpenBook, navEntries []epub.NavEntry, contentFolder string, state *assemblyState) error {
	uid := libby.ExtractISBN(media.Formats, []string{libby.FormatEBookOverdrive, libby.FormatMagazineOverDrive})
	if uid == "" {
		uid = media.ID
	}
	author := ""
	if len(openbook.Creators) > 0 {
		author = openbook.Creators[0].Name
	}

	ncx := epub.BuildNCX(uid, openbook.Title.Main, author, navEntries)
	data, err := ncx.Marshal()
	if err != nil {
		return fmt.Errorf("marshal ncx: %w", err)
	}
	if err := writeFile(p.opts.Fs, filepath.Join(contentFolder, epub.NCXFileName), data); err != nil {
		return err
	}
	state.manifest = append(state.manifest, epub.ManifestItem{
		ID:        "ncx",
		Href:      epub.NCXFileName,
		MediaType: epub.MediaTypeNCX,
	})
	state.hasNCX = true
	return nil
}

// writePackage builds the OPF, container.xml and mimetype files.
func (p *Pipeline) writePackage(loan libby.Loan, media libby.MediaInfo, openbook libby.OpenBook, tocPages []string, coverPath, bookFolder string, state *assemblyState) error {
	fs := p.opts.Fs
	contentFolder := filepath.Join(bookFolder, epub.ContentFolderName)
	metaFolder := filepath.Join(bookFolder, epub.MetaFolderName)

	formatID := libby.FormatEBookOverdrive
	if media.IsMagazine() {
		formatID = libby.FormatMagazineOverDrive
	}
	pkg := epub.NewPackage(media, epubVersion, formatID)

	for _, item := range state.manifest {
		pkg.AddManifestItem(item)
	}

	if coverPath != "" {
		// The cover cannot be reliably identified from the roster, so it
		// is copied in from the pre-resolved local file.
		if err := NormalizeCover(fs, coverPath, filepath.Join(contentFolder, "cover.jpg")); err != nil {
			return err
		}
		pkg.AddManifestItem(epub.ManifestItem{
			ID:         "coverimage",
			Href:       "cover.jpg",
			MediaType:  "image/jpeg",
			Properties: "cover-image",
		})
		pkg.SetCoverMeta("coverimage")
	}

	ordered := OrderSpine(openbook.Spine, tocPages, media.IsMagazine())
	idrefs := lo.Map(ordered, func(e libby.SpineEntry, _ int) string {
		return state.ids.For(e.OriginalPath)
	})
	pkg.SetSpine("ncx", idrefs)

	var refs []epub.GuideReference
	for _, l := range openbook.Nav.Landmarks {
		refs = append(refs, epub.GuideReference{Href: l.Path, Title: l.Title, Type: l.Type})
	}
	pkg.SetGuide(refs)

	opfData, err := pkg.Marshal(p.opts.Debug)
	if err != nil {
		return fmt.Errorf("marshal package document: %w", err)
	}
	if err := writeFile(fs, filepath.Join(contentFolder, epub.OPFFileName), opfData); err != nil {
		return err
	}

	containerData, err := epub.ContainerXML(path.Join(epub.ContentFolderName, epub.OPFFileName))
	if err != nil {
		return fmt.Errorf("marshal container.xml: %w", err)
	}
	if err := writeFile(fs, filepath.Join(metaFolder, "container.xml"), containerData); err != nil {
		return err
	}

	return writeFile(fs, filepath.Join(bookFolder, epub.MimetypeFileName), []byte(epub.MediaTypeEPUB))
}

// dumpDebugArtifacts persists the run inputs as JSON next to the book
// folder for inspection. Failures only log; debugging aids never abort.
func (p *Pipeline) dumpDebugArtifacts(bookFolder string, loan libby.Loan, media libby.MediaInfo, openbook libby.OpenBook, rosters []libby.Roster) {
	dumps := []struct {
		name  string
		value any
	}{
		{"loan.json", loan},
		{"media.json", media},
		{"openbook.json", openbook},
		{"rosters.json", rosters},
	}
	for _, d := range dumps {
		data, err := json.MarshalIndent(d.value, "", "  ")
		if err == nil {
			err = writeFile(p.opts.Fs, filepath.Join(bookFolder, d.name), data)
		}
		if err != nil {
			logrus.WithField("artifact", d.name).WithError(err).Warn("could not write debug artifact")
		}
	}
}

// removeIntermediates deletes the unpacked working tree after the archive
// is written. Errors only log; the .epub is already on disk.
func (p *Pipeline) removeIntermediates(bookFolder string) {
	fs := p.opts.Fs
	for _, name := range []string{epub.MimetypeFileName, "loan.json", "media.json", "openbook.json", "rosters.json"} {
		if err := fs.Remove(filepath.Join(bookFolder, name)); err != nil && !os.IsNotExist(err) {
			logrus.WithField("file", name).WithError(err).Debug("could not remove intermediate file")
		}
	}
	for _, dir := range []string{epub.ContentFolderName, epub.MetaFolderName} {
		if err := fs.RemoveAll(filepath.Join(bookFolder, dir)); err != nil {
			logrus.WithField("folder", dir).WithError(err).Debug("could not remove intermediate folder")
		}
	}
}

func toNavEntries(toc []libby.TOCEntry) []epub.NavEntry {
	entries := make([]epub.NavEntry, 0, len(toc))
	for _, item := range toc {
		entries = append(entries, epub.NavEntry{Title: item.Title, Path: item.Path})
	}
	return entries
}
