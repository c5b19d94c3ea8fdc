package epub

import (
	"fmt"
	"html"
	"strings"
)

// BuildNavDocument synthesizes a minimal EPUB 3 navigation document with an
// ordered list mirroring the TOC in source order.
func BuildNavDocument(title string, entries []NavEntry) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">`)
	b.WriteString("\n")
	fmt.Fprintf(&b, "<head><title>%s</title></head>\n", html.EscapeString(title))
	b.WriteString("<body>\n")
	b.WriteString(`<nav epub:type="toc">` + "\n")
	b.WriteString("<h1>Contents</h1>\n")
	b.WriteString(`<ol id="toc">`)
	for _, entry := range entries {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`,
			html.EscapeString(entry.Path), html.EscapeString(entry.Title))
	}
	b.WriteString("</ol>\n")
	b.WriteString("</nav>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>")
	return []byte(b.String())
}
