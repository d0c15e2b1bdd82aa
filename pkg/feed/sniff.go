package feed

import (
	"bytes"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html/charset"
)

// Format is the wire format of a syndication document.
type Format string

// Known formats. FormatUnknown is the zero value.
const (
	FormatUnknown Format = ""
	FormatRSS1    Format = "rss1"
	FormatRSS2    Format = "rss2"
	FormatAtom    Format = "atom"
)

// Mimetype returns the registered media type of the format.
func (f Format) Mimetype() string {
	switch f {
	case FormatRSS1:
		return "application/rdf+xml"
	case FormatRSS2:
		return "application/rss+xml"
	case FormatAtom:
		return "application/atom+xml"
	default:
		return ""
	}
}

const (
	nsAtom = "http://www.w3.org/2005/Atom"
	nsRSS1 = "http://purl.org/rss/1.0/"
	nsRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// Sniff reports the format of data by looking at its root element.
// HTML pages, malformed XML and unrelated XML vocabularies are FormatUnknown.
func Sniff(data []byte) Format {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if err != nil {
			return FormatUnknown
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		return rootFormat(se)
	}
}

func rootFormat(se xml.StartElement) Format {
	switch strings.ToLower(se.Name.Local) {
	case "rss":
		return FormatRSS2
	case "feed":
		if se.Name.Space == "" || se.Name.Space == nsAtom {
			return FormatAtom
		}
	case "rdf":
		if se.Name.Space == nsRDF || hasNamespace(se, nsRSS1) {
			return FormatRSS1
		}
	}
	return FormatUnknown
}

func hasNamespace(se xml.StartElement, ns string) bool {
	for _, a := range se.Attr {
		if a.Value == ns {
			return true
		}
	}
	return false
}
