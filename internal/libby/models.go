// Package libby holds the loan data model shared by the catalog clients and
// the packaging pipeline, plus the authenticated content fetch client.
package libby

import "strings"

// Media type ids as reported by the catalog.
const (
	MediaTypeEBook    = "ebook"
	MediaTypeMagazine = "magazine"
)

// Loan format ids carrying content identifiers.
const (
	FormatEBookOverdrive    = "ebook-overdrive"
	FormatMagazineOverDrive = "magazine-overdrive"
)

// MediaType identifies the kind of title a loan refers to.
type MediaType struct {
	ID string `json:"id"`
}

// Identifier is a typed catalog identifier such as an ISBN.
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Format describes one delivery format of a title.
type Format struct {
	ID          string       `json:"id"`
	ISBN        string       `json:"isbn,omitempty"`
	Identifiers []Identifier `json:"identifiers,omitempty"`
}

// Creator is an author, editor or other contributor.
type Creator struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Language is a catalog language declaration.
type Language struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Publisher is the catalog publisher record.
type Publisher struct {
	Name string `json:"name"`
}

// Subject is a catalog subject heading.
type Subject struct {
	Name string `json:"name"`
}

// MediaInfo is the catalog metadata for a loan, fetched once per run.
type MediaInfo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	SortTitle   string     `json:"sortTitle,omitempty"`
	Type        MediaType  `json:"type"`
	Formats     []Format   `json:"formats"`
	Creators    []Creator  `json:"creators,omitempty"`
	Languages   []Language `json:"languages,omitempty"`
	Publisher   Publisher  `json:"publisher,omitempty"`
	Description string     `json:"description,omitempty"`
	Subjects    []Subject  `json:"subjects,omitempty"`
	PublishDate string     `json:"publishDate,omitempty"`
	Edition     string     `json:"edition,omitempty"`
}

// IsMagazine reports whether the loan is a magazine issue.
func (m MediaInfo) IsMagazine() bool {
	return m.Type.ID == MediaTypeMagazine
}

// Loan is the checkout record a run operates on.
type Loan struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Series  string    `json:"series,omitempty"`
	Edition string    `json:"edition,omitempty"`
	Type    MediaType `json:"type"`
}

// TOCEntry is one table-of-contents row of the open book.
type TOCEntry struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// PagePath returns the entry path with any fragment identifier stripped.
func (t TOCEntry) PagePath() string {
	path, _, _ := strings.Cut(t.Path, "#")
	return path
}

// Landmark is a structural guide reference of the open book.
type Landmark struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	Type  string `json:"type"`
}

// Nav holds the navigational structures of the open book.
type Nav struct {
	TOC       []TOCEntry `json:"toc"`
	Landmarks []Landmark `json:"landmarks,omitempty"`
}

// Title holds the open book title fields.
type Title struct {
	Main string `json:"main"`
}

// SpineEntry is one catalog spine row. OriginalPath is the source asset
// path; SpinePosition is the catalog-declared reading position.
type SpineEntry struct {
	OriginalPath  string `json:"-odread-original-path"`
	SpinePosition int    `json:"-odread-spine-position"`
}

// OpenBook is the structural description of a title.
type OpenBook struct {
	Title    Title        `json:"title"`
	Creators []Creator    `json:"creator"`
	Nav      Nav          `json:"nav"`
	Spine    []SpineEntry `json:"spine"`
}

// TOCPagePaths returns the ordered, fragment-free page paths of the TOC.
func (b OpenBook) TOCPagePaths() []string {
	pages := make([]string, 0, len(b.Nav.TOC))
	for _, item := range b.Nav.TOC {
		pages = append(pages, item.PagePath())
	}
	return pages
}

// AuthorNames returns the creator names credited as authors, falling back
// to all creators when no explicit author role is present.
func (b OpenBook) AuthorNames() []string {
	var authors []string
	for _, c := range b.Creators {
		if c.Role == "author" || c.Role == "aut" {
			authors = append(authors, c.Name)
		}
	}
	if len(authors) > 0 {
		return authors
	}
	names := make([]string, 0, len(b.Creators))
	for _, c := range b.Creators {
		names = append(names, c.Name)
	}
	return names
}

// RosterEntry is one fetchable content unit of a roster.
type RosterEntry struct {
	URL string `json:"url"`
}

// Roster groups the remote entries of a loan by purpose. The
// "title-content" group carries the packageable assets.
type Roster struct {
	Group   string        `json:"group"`
	Entries []RosterEntry `json:"entries"`
}

// RosterGroupTitleContent identifies the roster holding book content.
const RosterGroupTitleContent = "title-content"
