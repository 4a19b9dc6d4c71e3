// Package m3u provides parsing, filtering and serialization for M3U playlist files.
package m3u

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	// Header is the mandatory first line of every playlist.
	Header = "#EXTM3U"

	// markerToken opens a channel metadata line. Upstream providers emit a
	// fixed "-1" duration, so the attribute block starts right after the
	// trailing space.
	markerToken = "#EXTINF:-1 "
)

// ErrMissingHeader is returned when the playlist does not begin with #EXTM3U.
var ErrMissingHeader = errors.New("playlist does not start with #EXTM3U header")

// requiredAttrs are the labeled attributes every metadata line must carry.
// A present-but-empty value is fine; absence of the label is not.
var requiredAttrs = []string{"tvg-name", "tvg-id", "tvg-logo", "group-title"}

// FormatError reports a metadata line that violates the expected entry format.
type FormatError struct {
	Line int    // 1-based line number within the playlist
	Attr string // missing attribute label, empty when the display name is missing
	Text string // the offending metadata line
}

func (e *FormatError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("line %d: missing %s attribute: %s", e.Line, e.Attr, e.Text)
	}
	return fmt.Sprintf("line %d: missing display name after attributes: %s", e.Line, e.Text)
}

// Entry represents a single channel entry in an M3U playlist.
type Entry struct {
	Name    string // display name, everything after the first comma of the metadata line
	TVGID   string // guide correlation key, may be empty or the literal "None"
	TVGName string
	TVGLogo string
	Group   string
	URL     string
}

// Parse extracts channel entries from M3U playlist data.
//
// A metadata line opens an entry and the next non-empty, non-metadata line
// supplies its URL. A metadata line arriving while another entry is still
// open replaces it, and an entry left open at end of input is dropped.
func Parse(data []byte) ([]Entry, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error scanning M3U data: %w", err)
		}
		return nil, ErrMissingHeader
	}
	if !strings.HasPrefix(scanner.Text(), Header) {
		return nil, ErrMissingHeader
	}

	var entries []Entry
	var current *Entry
	lineno := 1

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, markerToken) {
			entry, err := parseMetadata(line, lineno)
			if err != nil {
				return nil, err
			}
			current = entry
		} else if current != nil {
			current.URL = line
			entries = append(entries, *current)
			current = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning M3U data: %w", err)
	}

	return entries, nil
}

// parseMetadata validates a metadata line and builds the entry it describes.
// The URL is filled in later by the caller.
func parseMetadata(line string, lineno int) (*Entry, error) {
	block := line[len(markerToken):]
	attrs := parseAttributes(block)

	for _, attr := range requiredAttrs {
		if _, ok := attrs[attr]; !ok {
			return nil, &FormatError{Line: lineno, Attr: attr, Text: line}
		}
	}

	comma := strings.Index(block, ",")
	if comma < 0 {
		return nil, &FormatError{Line: lineno, Text: line}
	}

	return &Entry{
		Name:    block[comma+1:],
		TVGID:   attrs["tvg-id"],
		TVGName: attrs["tvg-name"],
		TVGLogo: attrs["tvg-logo"],
		Group:   attrs["group-title"],
	}, nil
}

// parseAttributes tokenizes the key="value" pairs of a metadata attribute
// block. Pairs may appear in any order; the first occurrence of a key wins.
// Scanning stops at the comma separating the block from the display name.
func parseAttributes(block string) map[string]string {
	attrs := make(map[string]string, len(requiredAttrs))

	i := 0
	for i < len(block) {
		for i < len(block) && (block[i] == ' ' || block[i] == '\t') {
			i++
		}

		start := i
		for i < len(block) && block[i] != '=' && block[i] != ',' {
			i++
		}
		if i >= len(block) || block[i] == ',' {
			break
		}
		key := strings.TrimSpace(block[start:i])
		i++

		if i >= len(block) || block[i] != '"' {
			break
		}
		i++
		valueStart := i
		for i < len(block) && block[i] != '"' {
			i++
		}
		if i >= len(block) {
			break
		}
		value := block[valueStart:i]
		i++

		if key != "" {
			if _, ok := attrs[key]; !ok {
				attrs[key] = value
			}
		}
	}

	return attrs
}
