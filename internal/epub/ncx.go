package epub

import (
	"encoding/xml"
	"fmt"
)

const ncxNamespace = "http://www.daisy.org/z3986/2005/ncx/"

// NCX is the legacy navigation control document, retained for EPUB 2
// reader compatibility.
type NCX struct {
	XMLName   xml.Name `xml:"ncx"`
	Xmlns     string   `xml:"xmlns,attr"`
	Version   string   `xml:"version,attr"`
	Lang      string   `xml:"xml:lang,attr"`
	Head      NCXHead  `xml:"head"`
	DocTitle  NCXText  `xml:"docTitle"`
	DocAuthor NCXText  `xml:"docAuthor"`
	NavMap    NavMap   `xml:"navMap"`
}

// NCXHead holds the head meta elements.
type NCXHead struct {
	Metas []NCXHeadMeta `xml:"meta"`
}

// NCXHeadMeta is one head meta element.
type NCXHeadMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

// NCXText is a wrapped text element (docTitle, docAuthor).
type NCXText struct {
	Text string `xml:"text"`
}

// NavMap is the ordered navigation map.
type NavMap struct {
	Points []NavPoint `xml:"navPoint"`
}

// NavPoint is one navigation point.
type NavPoint struct {
	ID      string     `xml:"id,attr"`
	Label   string     `xml:"navLabel>text"`
	Content NavContent `xml:"content"`
}

// NavContent carries the navigation target path.
type NavContent struct {
	Src string `xml:"src,attr"`
}

// BuildNCX synthesizes an NCX document: uid identifies the publication,
// title and author come from the open book metadata and toc supplies one
// navPoint per entry in source order.
func BuildNCX(uid, title, author string, toc []NavEntry) *NCX {
	ncx := &NCX{
		Xmlns:   ncxNamespace,
		Version: "2005-1",
		Lang:    "en",
		Head: NCXHead{
			Metas: []NCXHeadMeta{{Name: "dtb:uid", Content: uid}},
		},
		DocTitle:  NCXText{Text: title},
		DocAuthor: NCXText{Text: author},
	}
	for i, entry := range toc {
		ncx.NavMap.Points = append(ncx.NavMap.Points, NavPoint{
			ID:      fmt.Sprintf("navPoint%d", i+1),
			Label:   entry.Title,
			Content: NavContent{Src: entry.Path},
		})
	}
	return ncx
}

// Marshal serializes the NCX with an XML declaration.
func (n *NCX) Marshal() ([]byte, error) {
	out, err := xml.Marshal(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
