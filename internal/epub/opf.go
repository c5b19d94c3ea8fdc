package epub

import (
	"encoding/xml"
	"time"

	"loanpack/internal/libby"
)

const (
	opfNamespace = "http://www.idpf.org/2007/opf"
	dcNamespace  = "http://purl.org/dc/elements/1.1/"

	uniqueIDName = "pub-id"
)

// Package is the in-memory OPF document tree. Metadata is populated by
// NewPackage; manifest, spine and guide are appended by the caller.
type Package struct {
	XMLName  xml.Name `xml:"package"`
	Xmlns    string   `xml:"xmlns,attr"`
	Version  string   `xml:"version,attr"`
	UniqueID string   `xml:"unique-identifier,attr"`
	Metadata Metadata `xml:"metadata"`
	Manifest Manifest `xml:"manifest"`
	Spine    Spine    `xml:"spine"`
	Guide    *Guide   `xml:"guide,omitempty"`
}

// Metadata is the Dublin Core metadata block.
type Metadata struct {
	XmlnsDC      string        `xml:"xmlns:dc,attr"`
	XmlnsOPF     string        `xml:"xmlns:opf,attr"`
	Titles       []string      `xml:"dc:title"`
	Creators     []Creator     `xml:"dc:creator,omitempty"`
	Languages    []string      `xml:"dc:language"`
	Identifiers  []Identifier  `xml:"dc:identifier"`
	Publishers   []string      `xml:"dc:publisher,omitempty"`
	Descriptions []string      `xml:"dc:description,omitempty"`
	Subjects     []string      `xml:"dc:subject,omitempty"`
	Dates        []string      `xml:"dc:date,omitempty"`
	Metas        []Meta        `xml:"meta,omitempty"`
}

// Creator is a dc:creator element.
type Creator struct {
	Name string `xml:",chardata"`
	Role string `xml:"opf:role,attr,omitempty"`
}

// Identifier is a dc:identifier element.
type Identifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr,omitempty"`
}

// Meta covers both EPUB 2 (name/content) and EPUB 3 (property/chardata)
// meta elements.
type Meta struct {
	Name     string `xml:"name,attr,omitempty"`
	Content  string `xml:"content,attr,omitempty"`
	Property string `xml:"property,attr,omitempty"`
	Value    string `xml:",chardata"`
}

// Manifest is the package manifest section.
type Manifest struct {
	Items []ManifestItem `xml:"item"`
}

// Spine is the package spine section.
type Spine struct {
	Toc      string    `xml:"toc,attr,omitempty"`
	ItemRefs []ItemRef `xml:"itemref"`
}

// ItemRef is one spine itemref.
type ItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// Guide is the legacy guide section.
type Guide struct {
	References []GuideReference `xml:"reference"`
}

// NewPackage builds a package document pre-populated with the standard
// metadata block from catalog media info. The unique identifier prefers the
// ISBN of the given loan format and falls back to the catalog media id.
func NewPackage(media libby.MediaInfo, version, formatID string) *Package {
	identifier := libby.ExtractISBN(media.Formats, []string{formatID})
	if identifier == "" {
		identifier = media.ID
	}

	language := "en"
	if len(media.Languages) > 0 && media.Languages[0].ID != "" {
		language = media.Languages[0].ID
	}

	md := Metadata{
		XmlnsDC:     dcNamespace,
		XmlnsOPF:    opfNamespace,
		Titles:      []string{media.Title},
		Languages:   []string{language},
		Identifiers: []Identifier{{Value: identifier, ID: uniqueIDName}},
	}
	for _, c := range media.Creators {
		md.Creators = append(md.Creators, Creator{Name: c.Name, Role: c.Role})
	}
	if media.Publisher.Name != "" {
		md.Publishers = []string{media.Publisher.Name}
	}
	if media.Description != "" {
		md.Descriptions = []string{media.Description}
	}
	for _, s := range media.Subjects {
		md.Subjects = append(md.Subjects, s.Name)
	}
	if media.PublishDate != "" {
		md.Dates = []string{media.PublishDate}
	}
	if version == "3.0" {
		md.Metas = append(md.Metas, Meta{
			Property: "dcterms:modified",
			Value:    time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	return &Package{
		Xmlns:    opfNamespace,
		Version:  version,
		UniqueID: uniqueIDName,
		Metadata: md,
	}
}

// AddManifestItem appends one manifest row.
func (p *Package) AddManifestItem(item ManifestItem) {
	p.Manifest.Items = append(p.Manifest.Items, item)
}

// SetCoverMeta registers the EPUB 2 cover meta pointing at a manifest id.
func (p *Package) SetCoverMeta(coverID string) {
	p.Metadata.Metas = append(p.Metadata.Metas, Meta{Name: "cover", Content: coverID})
}

// SetSpine sets the spine itemrefs in final reading order. tocID references
// the NCX manifest entry for EPUB 2 reader compatibility.
func (p *Package) SetSpine(tocID string, idrefs []string) {
	p.Spine = Spine{Toc: tocID}
	for _, idref := range idrefs {
		p.Spine.ItemRefs = append(p.Spine.ItemRefs, ItemRef{IDRef: idref})
	}
}

// SetGuide populates the guide section from TOC landmarks. An empty
// landmark list leaves the guide out entirely.
func (p *Package) SetGuide(refs []GuideReference) {
	if len(refs) == 0 {
		return
	}
	p.Guide = &Guide{References: refs}
}

// Marshal serializes the package document with an XML declaration,
// indented when pretty is set.
func (p *Package) Marshal(pretty bool) ([]byte, error) {
	var out []byte
	var err error
	if pretty {
		out, err = xml.MarshalIndent(p, "", "\t")
	} else {
		out, err = xml.Marshal(p)
	}
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
