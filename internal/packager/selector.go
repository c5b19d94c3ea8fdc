package packager

import (
	"net/url"
	"strings"

	"github.com/samber/lo"

	"loanpack/internal/libby"
)

// Prefixes of catalog-only preview assets that are never EPUB content.
var previewAssetPrefixes = []string{"/pages/", "/thumbnails/"}

// entryPath extracts the URL path of a roster entry. Returns "" for
// unparseable URLs so such entries fail every selection rule.
func entryPath(entry libby.RosterEntry) string {
	u, err := url.Parse(entry.URL)
	if err != nil {
		return ""
	}
	return u.Path
}

// FilterEntries returns the subset of roster entries that belong in the
// package. tocPages are the fragment-free TOC page paths; excludePrefixes
// are URL path prefixes of ebook-only internal delivery assets.
//
// Magazines carry paginated-image previews and more physical pages than the
// TOC exposes; both are dropped before any fetch happens.
func FilterEntries(entries []libby.RosterEntry, media libby.MediaInfo, tocPages []string, excludePrefixes []string) []libby.RosterEntry {
	tocPageSet := make(map[string]bool, len(tocPages))
	for _, p := range tocPages {
		tocPageSet[p] = true
	}

	return lo.Filter(entries, func(entry libby.RosterEntry, _ int) bool {
		return keepEntry(entry, media, tocPageSet, excludePrefixes)
	})
}

func keepEntry(entry libby.RosterEntry, media libby.MediaInfo, tocPageSet map[string]bool, excludePrefixes []string) bool {
	p := entryPath(entry)
	if p == "" {
		return false
	}
	mediaType := guessMediaType(p)

	if media.IsMagazine() && mediaType != "" {
		if strings.HasPrefix(mediaType, "image/") && hasAnyPrefix(p, previewAssetPrefixes) {
			return false
		}
		if isXHTML(mediaType) && !tocPageSet[strings.TrimPrefix(p, "/")] {
			return false
		}
	}

	return !hasAnyPrefix(p, excludePrefixes)
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
