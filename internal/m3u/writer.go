package m3u

import (
	"bytes"
	"fmt"
)

// Write renders entries back into playlist text. The output always begins
// with the #EXTM3U header; attribute values and URLs are emitted verbatim, so
// parsing the result yields the same entries back.
func Write(entries []Entry) []byte {
	var buf bytes.Buffer

	buf.WriteString(Header)
	buf.WriteString("\n")

	for _, entry := range entries {
		fmt.Fprintf(&buf, "%stvg-name=\"%s\" tvg-id=\"%s\" tvg-logo=\"%s\" group-title=\"%s\",%s\n",
			markerToken, entry.TVGName, entry.TVGID, entry.TVGLogo, entry.Group, entry.Name)
		buf.WriteString(entry.URL)
		buf.WriteString("\n")
	}

	return buf.Bytes()
}
