// Package epub builds and serializes the EPUB package artifacts: the OPF
// package document, NCX and nav navigation documents, container.xml and the
// final zip container.
package epub

// Well-known EPUB media types.
const (
	MediaTypeEPUB  = "application/epub+zip"
	MediaTypeXHTML = "application/xhtml+xml"
	MediaTypeNCX   = "application/x-dtbncx+xml"
	MediaTypeOPF   = "application/oebps-package+xml"
)

// Canonical names within the package tree.
const (
	MetaFolderName    = "META-INF"
	ContentFolderName = "OEBPS"
	OPFFileName       = "package.opf"
	NCXFileName       = "toc.ncx"
	NavFileName       = "nav.xhtml"
	MimetypeFileName  = "mimetype"
)

// NavEntry is one table-of-contents row consumed by nav and NCX synthesis.
type NavEntry struct {
	Title string
	Path  string
}

// ManifestItem represents an item in the package manifest. Properties is a
// single optional property token (svg, nav, cover-image).
type ManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

// GuideReference is one reference of the legacy guide section.
type GuideReference struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}
