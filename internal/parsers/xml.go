package parsers

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlElement is a namespace-agnostic view of one element and its direct children
type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Text     string       `xml:",chardata"`
	Children []xmlElement `xml:",any"`
}

// attr returns the value of the first attribute with the given local name
func (e *xmlElement) attr(local string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// child returns the trimmed text of the first direct child with the given local name
func (e *xmlElement) child(local string) (string, bool) {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == local {
			return strings.TrimSpace(e.Children[i].Text), true
		}
	}
	return "", false
}

// findElements decodes every element whose local name is local, wherever it
// appears in the document. Non-UTF-8 encodings named in the XML declaration
// are transcoded. A document that fails to parse yields nothing, even if
// some matches were decoded before the error.
func findElements(content []byte, local string) []xmlElement {
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.CharsetReader = charset.NewReaderLabel

	var found []xmlElement
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != local {
			continue
		}

		var el xmlElement
		if err := dec.DecodeElement(&el, &start); err != nil {
			return nil
		}
		found = append(found, el)
	}

	if !sawRoot {
		return nil
	}
	return found
}
