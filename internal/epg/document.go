// Package epg provides parsing, correlation and serialization for XMLTV
// guide documents.
package epg

import "encoding/xml"

// TV is the root of a guide document. Channel definitions and programme
// entries are flat lists associated only by shared channel id; their position
// in the document carries no meaning.
type TV struct {
	XMLName       xml.Name
	SourceInfo    string      `xml:"source-info-name,attr,omitempty"`
	GeneratorName string      `xml:"generator-info-name,attr,omitempty"`
	GeneratorURL  string      `xml:"generator-info-url,attr,omitempty"`
	Channels      []Channel   `xml:"channel"`
	Programmes    []Programme `xml:"programme"`
}

// Channel is a guide channel definition, keyed by its id attribute. Its
// descriptor children (display names, icons, urls) are opaque to the editor
// and carried through untouched.
type Channel struct {
	XMLName     xml.Name   `xml:"channel"`
	ID          string     `xml:"id,attr"`
	Attrs       []xml.Attr `xml:",any,attr"`
	Descriptors []Element  `xml:",any"`
}

// Programme is one scheduled broadcast, referencing its channel definition
// through the channel attribute.
type Programme struct {
	XMLName  xml.Name   `xml:"programme"`
	Channel  string     `xml:"channel,attr"`
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Element  `xml:",any"`
}

// Element is a generic XML element: a name, attributes, character data and
// ordered children. Guide content below the channel and programme level has
// no schema the editor cares about, so whole subtrees are captured as-is.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Element  `xml:",any"`
}

func (c Channel) clone() Channel {
	return Channel{
		XMLName:     c.XMLName,
		ID:          c.ID,
		Attrs:       cloneAttrs(c.Attrs),
		Descriptors: cloneElements(c.Descriptors),
	}
}

func (p Programme) clone() Programme {
	return Programme{
		XMLName:  p.XMLName,
		Channel:  p.Channel,
		Attrs:    cloneAttrs(p.Attrs),
		Children: cloneElements(p.Children),
	}
}

func (e Element) clone() Element {
	return Element{
		XMLName:  e.XMLName,
		Attrs:    cloneAttrs(e.Attrs),
		Text:     e.Text,
		Children: cloneElements(e.Children),
	}
}

// cloneElements deep-copies a subtree into a new slice sharing no memory
// with the source, so generated documents stay independent of the source
// document they were cut from.
func cloneElements(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = e.clone()
	}
	return out
}

func cloneAttrs(attrs []xml.Attr) []xml.Attr {
	if attrs == nil {
		return nil
	}
	return append([]xml.Attr(nil), attrs...)
}
