package epub

import "encoding/xml"

const containerNamespace = "urn:oasis:names:tc:opendocument:xmlns:container"

type container struct {
	XMLName   xml.Name   `xml:"container"`
	Version   string     `xml:"version,attr"`
	Xmlns     string     `xml:"xmlns,attr"`
	Rootfiles []rootfile `xml:"rootfiles>rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// ContainerXML builds META-INF/container.xml pointing at the package
// document, with an XML declaration.
func ContainerXML(opfPath string) ([]byte, error) {
	c := container{
		Version: "1.0",
		Xmlns:   containerNamespace,
		Rootfiles: []rootfile{
			{FullPath: opfPath, MediaType: MediaTypeOPF},
		},
	}
	out, err := xml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
