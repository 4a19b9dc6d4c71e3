package epg

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Write renders a guide document as indented UTF-8 XML preceded by the
// standard declaration.
func Write(tv *TV) ([]byte, error) {
	doc := *tv
	if doc.XMLName.Local == "" {
		doc.XMLName.Local = "tv"
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode guide XML: %w", err)
	}

	return buf.Bytes(), nil
}
