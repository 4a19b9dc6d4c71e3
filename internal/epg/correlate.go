package epg

import (
	"encoding/xml"

	"github.com/haxcop/m3u-epg-editor/internal/m3u"
	"github.com/sirupsen/logrus"
)

// generatorTag is stamped into the provenance attributes of every guide
// document this tool generates.
const generatorTag = "m3u-epg-editor"

// Correlate cuts a new guide document down to the channel definitions and
// programme entries referenced by the given playlist entries.
//
// Channel definitions are copied in source-document order. Programmes are
// collected per playlist entry, so two entries sharing a tvg-id duplicate
// their programme set. Entries whose tvg-id is empty or the literal "None"
// carry no guide reference and are skipped; ids that match nothing in the
// guide contribute nothing. All copies are deep, the result shares no nodes
// with the source document.
func Correlate(src *TV, entries []m3u.Entry) *TV {
	out := &TV{
		XMLName:       xml.Name{Local: "tv"},
		SourceInfo:    generatorTag,
		GeneratorName: generatorTag,
		GeneratorURL:  generatorTag,
	}

	wanted := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if hasGuideID(entry.TVGID) {
			wanted[entry.TVGID] = true
		}
	}

	for _, channel := range src.Channels {
		if wanted[channel.ID] {
			out.Channels = append(out.Channels, channel.clone())
			logrus.WithField("id", channel.ID).Debug("Keeping channel definition")
		}
	}

	for _, entry := range entries {
		if !hasGuideID(entry.TVGID) {
			continue
		}
		matched := 0
		for _, programme := range src.Programmes {
			if programme.Channel == entry.TVGID {
				out.Programmes = append(out.Programmes, programme.clone())
				matched++
			}
		}
		logrus.WithFields(logrus.Fields{
			"id":         entry.TVGID,
			"programmes": matched,
		}).Debug("Collected programmes for playlist entry")
	}

	logrus.WithFields(logrus.Fields{
		"channels":   len(out.Channels),
		"programmes": len(out.Programmes),
	}).Info("Correlated guide against playlist")

	return out
}

// hasGuideID reports whether a tvg-id value references guide data. The
// literal "None" shows up in playlists from providers that serialize a
// missing id that way.
func hasGuideID(id string) bool {
	return id != "" && id != "None"
}
