package epg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedGuide is returned when guide data is not well-formed XML.
var ErrMalformedGuide = errors.New("malformed guide XML")

// Parse decodes guide XML into its document tree. The root element may carry
// any name; a well-formed document without channel or programme children
// simply yields an empty tree. Malformed XML fails with ErrMalformedGuide.
func Parse(data []byte) (*TV, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var tv TV
	if err := decoder.Decode(&tv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGuide, err)
	}

	for i := range tv.Channels {
		normalize(tv.Channels[i].Descriptors)
	}
	for i := range tv.Programmes {
		normalize(tv.Programmes[i].Children)
	}

	return &tv, nil
}

// normalize clears whitespace-only character data from container elements.
// Indentation in pretty-printed source documents would otherwise be captured
// as text and fight the indentation applied when the document is written
// back out. Meaningful text, including surrounding whitespace on leaf
// elements, is kept verbatim.
func normalize(elements []Element) {
	for i := range elements {
		e := &elements[i]
		if len(e.Children) > 0 && strings.TrimSpace(e.Text) == "" {
			e.Text = ""
		}
		normalize(e.Children)
	}
}
