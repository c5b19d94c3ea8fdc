package packager

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

const (
	xhtmlNamespace = "http://www.w3.org/1999/xhtml"
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"

	xhtml11DoctypePublic = "-//W3C//DTD XHTML 1.1//EN"
	xhtml11DoctypeSystem = "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd"
)

// embeddedBodyRe matches the delivery quirk where a page's real body is
// shipped base64-encoded inside an inline script call.
var embeddedBodyRe = regexp.MustCompile(`parent\.__bif_cfc0\(self,'(.+)'\)`)

// epub2RemoveAttrs are modern/accessibility attributes the XHTML 1.1
// schema does not permit. The list is best-effort, not exhaustive.
var epub2RemoveAttrs = map[string]bool{
	"aria-label":           true,
	"data-loc":             true,
	"data-epub-type":       true,
	"data-document-status": true,
	"data-xml-lang":        true,
	"lang":                 true,
	"role":                 true,
	"epub:type":            true,
	"epub:prefix":          true,
}

// epub2RenameTags are elements outside the XHTML 1.1 content model,
// renamed to a generic container.
var epub2RenameTags = map[string]string{
	"nav":     "div",
	"section": "div",
}

// renameTags are renamed regardless of target version.
var renameTags = map[string]string{
	"figcaption": "div",
}

// removeTags are dropped entirely regardless of target version.
var removeTags = []string{"base"}

// DocumentProps are the manifest-relevant properties detected on a
// processed content document.
type DocumentProps struct {
	HasSVG bool
	IsNav  bool
}

// PatchXHTML decodes an embedded script body when present, applies the
// structural cleanup for the target EPUB version and returns the patched
// document along with its detected properties. Re-running on already
// patched output leaves it unchanged; fixups are presence-guarded.
func PatchXHTML(content []byte, version string) ([]byte, DocumentProps, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, DocumentProps{}, fmt.Errorf("parse xhtml: %w", err)
	}

	decodeEmbeddedBody(doc)
	cleanupDocument(doc, version)
	props := detectProps(doc)

	out, err := renderDocument(doc)
	if err != nil {
		return nil, DocumentProps{}, err
	}
	return out, props, nil
}

// InspectXHTML re-detects manifest properties on an already saved asset
// without altering it.
func InspectXHTML(content []byte) (DocumentProps, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return DocumentProps{}, fmt.Errorf("parse xhtml: %w", err)
	}
	return detectProps(doc), nil
}

// decodeEmbeddedBody looks for the base64 payload inside an inline script
// and swaps the decoded body in. Absence of the pattern is not an error;
// the document is used as fetched.
func decodeEmbeddedBody(doc *goquery.Document) {
	script := doc.Find(`script[type="text/javascript"]`)
	if script.Length() == 0 {
		return
	}

	var decoded []byte
	script.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := embeddedBodyRe.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		data, err := base64.StdEncoding.DecodeString(m[1])
		if err != nil {
			logrus.WithError(err).Warn("embedded body payload is not valid base64, keeping document as fetched")
			return true
		}
		decoded = data
		return false
	})
	if decoded == nil {
		return
	}

	inner, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		logrus.WithError(err).Warn("embedded body payload did not parse, keeping document as fetched")
		return
	}
	newBody := inner.Find("body")
	oldBody := doc.Find("body")
	if newBody.Length() == 0 || oldBody.Length() == 0 {
		return
	}
	oldBody.First().ReplaceWithSelection(newBody.First())
}

// cleanupDocument applies the schema-compliance fixups. The EPUB 2 content
// model is a lot pickier, so the doctype swap, attribute removal and
// nav/section renames only run for version "2.0".
func cleanupDocument(doc *goquery.Document, version string) {
	if version == "2.0" {
		setXHTML11Doctype(doc)
		removeAttributes(doc, epub2RemoveAttrs)
		applyTagRenames(doc, epub2RenameTags)
	}

	applyTagRenames(doc, renameTags)
	for _, tag := range removeTags {
		doc.Find(tag).Remove()
	}
	ensureSVGNamespaces(doc)
	ensureRootNamespace(doc)
}

// setXHTML11Doctype replaces the document's doctype with the XHTML 1.1
// strict doctype, inserting one when the source had none.
func setXHTML11Doctype(doc *goquery.Document) {
	root := doc.Get(0)
	attrs := []html.Attribute{
		{Key: "public", Val: xhtml11DoctypePublic},
		{Key: "system", Val: xhtml11DoctypeSystem},
	}

	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.DoctypeNode {
			n.Data = "html"
			n.Attr = attrs
			return
		}
	}

	doctype := &html.Node{Type: html.DoctypeNode, Data: "html", Attr: attrs}
	root.InsertBefore(doctype, root.FirstChild)
}

func removeAttributes(doc *goquery.Document, names map[string]bool) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		var toRemove []string
		for _, attr := range node.Attr {
			if names[attr.Key] {
				toRemove = append(toRemove, attr.Key)
			}
		}
		for _, key := range toRemove {
			s.RemoveAttr(key)
		}
	})
}

func applyTagRenames(doc *goquery.Document, renames map[string]string) {
	for origTag, newTag := range renames {
		doc.Find(origTag).Each(func(_ int, s *goquery.Selection) {
			s.Get(0).Data = newTag
		})
	}
}

// ensureSVGNamespaces declares the SVG and XLink namespaces on svg
// elements that lack them.
func ensureSVGNamespaces(doc *goquery.Document) {
	doc.Find("svg").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		hasXmlns, hasXlink := false, false
		for _, attr := range node.Attr {
			if attr.Key == "xmlns" && attr.Namespace == "" {
				hasXmlns = true
			}
			// The parser splits xmlns:xlink into namespace and key in
			// foreign content.
			if attr.Key == "xmlns:xlink" || (attr.Namespace == "xmlns" && attr.Key == "xlink") {
				hasXlink = true
			}
		}
		if !hasXmlns {
			node.Attr = append(node.Attr, html.Attribute{Key: "xmlns", Val: svgNamespace})
		}
		if !hasXlink {
			node.Attr = append(node.Attr, html.Attribute{Namespace: "xmlns", Key: "xlink", Val: xlinkNamespace})
		}
	})
}

// ensureRootNamespace declares the XHTML namespace on the root html
// element when missing.
func ensureRootNamespace(doc *goquery.Document) {
	root := doc.Find("html").First()
	if root.Length() == 0 {
		return
	}
	if _, exists := root.Attr("xmlns"); !exists {
		root.SetAttr("xmlns", xhtmlNamespace)
	}
}

// detectProps detects manifest-relevant document properties: any svg
// element, and the epub:type="toc" landmark marking the navigation
// document.
func detectProps(doc *goquery.Document) DocumentProps {
	props := DocumentProps{
		HasSVG: doc.Find("svg").Length() > 0,
	}
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range s.Get(0).Attr {
			if attr.Key == "epub:type" && attr.Val == "toc" {
				props.IsNav = true
				return false
			}
		}
		return true
	})
	return props
}

// renderDocument serializes the whole document tree, doctype included.
func renderDocument(doc *goquery.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Get(0)); err != nil {
		return nil, fmt.Errorf("render xhtml: %w", err)
	}
	return buf.Bytes(), nil
}
