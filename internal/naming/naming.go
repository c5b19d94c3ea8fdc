// Package naming derives filesystem names and XML-safe identifiers from
// loan metadata and asset paths.
package naming

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes accented characters and strips combining marks so
// "Café" slugs to "cafe".
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases s, folds diacritics and collapses every run of
// non-alphanumeric characters into a single hyphen.
func Slugify(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SanitizeOPFID converts an asset path into a manifest id token.
// OPF ids are XML names and cannot start with a digit.
func SanitizeOPFID(path string) string {
	id := Slugify(path)
	if id == "" {
		return "id"
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "id_" + id
	}
	return id
}

// IDSet allocates manifest id tokens for asset paths. The same path always
// yields the same id; a later path whose slug collides with an already
// allocated id gets a numeric suffix, as distinct paths such as "a/b.xhtml"
// and "a-b.xhtml" slug to the same token.
type IDSet struct {
	byPath map[string]string
	taken  map[string]bool
}

// NewIDSet creates an IDSet with the given ids pre-reserved.
func NewIDSet(reserved ...string) *IDSet {
	s := &IDSet{
		byPath: make(map[string]string),
		taken:  make(map[string]bool, len(reserved)),
	}
	for _, id := range reserved {
		s.taken[id] = true
	}
	return s
}

// For returns the id token for path, allocating one on first use.
func (s *IDSet) For(path string) string {
	if id, ok := s.byPath[path]; ok {
		return id
	}
	base := SanitizeOPFID(path)
	id := base
	for i := 2; s.taken[id]; i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	s.taken[id] = true
	s.byPath[path] = id
	return id
}

// invalidFileRunes are characters rejected by common filesystems.
const invalidFileRunes = `/\:*?"<>|`

// cleanFileComponent strips filesystem-unsafe characters from a name
// component, preserving readable casing and spaces.
func cleanFileComponent(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFileRunes, r) || r < 0x20 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(strings.Join(strings.Fields(mapped), " "))
}

// BookNames derives the working folder name and the .epub file name for a
// loan. The folder and file share the same base name.
func BookNames(title, series string, authors []string, edition string) (folder, file string) {
	base := cleanFileComponent(title)
	if series != "" && !strings.EqualFold(series, title) {
		base = cleanFileComponent(series) + " - " + base
	}
	if edition != "" {
		base += " - " + cleanFileComponent(edition)
	}
	if len(authors) > 0 {
		joined := cleanFileComponent(strings.Join(authors, ", "))
		if joined != "" {
			base += " - " + joined
		}
	}
	if base == "" {
		base = "book"
	}
	return base, base + ".epub"
}
