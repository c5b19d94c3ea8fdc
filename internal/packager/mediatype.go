// Package packager implements the EPUB assembly core: content selection,
// spine ordering, per-asset patching, manifest building and the pipeline
// that drives them.
package packager

import (
	"mime"
	"path"
	"strings"
)

// mediaTypesByExt covers the EPUB asset extensions the stdlib mime table
// does not know about.
var mediaTypesByExt = map[string]string{
	".xhtml": "application/xhtml+xml",
	".ncx":   "application/x-dtbncx+xml",
	".otf":   "font/otf",
	".ttf":   "font/ttf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// guessMediaType guesses a media type from a URL path, as the catalog does
// not declare one per roster entry. Returns "" when unknown.
func guessMediaType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if mt, ok := mediaTypesByExt[ext]; ok {
		return mt
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return ""
	}
	// Strip any charset parameter so comparisons stay exact.
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// isXHTML reports whether a media type is packaged XHTML content.
func isXHTML(mediaType string) bool {
	return mediaType == "application/xhtml+xml"
}
