package packager

import "regexp"

// articleBodyOverflowRe matches an overflow-x suppression declaration
// scoped inside the #article-body rule block. Magazine stylesheets ship it
// and it breaks paged rendering in common EPUB readers. The bounded
// character classes keep the match inside a single rule block.
var articleBodyOverflowRe = regexp.MustCompile(`(#article-body\s*\{[^{}]+?)overflow-x:\s*hidden;([^{}]+?\})`)

// PatchMagazineCSS strips the overflow-x suppression from the article-body
// rule block, leaving every other rule untouched. CSS without the pattern
// passes through unchanged.
func PatchMagazineCSS(css string) string {
	return articleBodyOverflowRe.ReplaceAllString(css, "${1}${2}")
}
