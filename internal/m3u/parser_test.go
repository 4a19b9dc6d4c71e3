package m3u

import (
	"errors"
	"os"
	"testing"
)

func TestParse(t *testing.T) {
	data, err := os.ReadFile("testdata/example.m3u")
	if err != nil {
		t.Fatalf("Failed to read test file: %v", err)
	}

	entries, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expectedCount := 11
	if len(entries) != expectedCount {
		t.Fatalf("Expected %d entries, got %d", expectedCount, len(entries))
	}

	first := entries[0]
	if first.Name != "US: ESPN" {
		t.Errorf("Expected first entry name 'US: ESPN', got '%s'", first.Name)
	}
	if first.TVGID != "espn.us" {
		t.Errorf("Expected first entry tvg-id 'espn.us', got '%s'", first.TVGID)
	}
	if first.TVGName != "US: ESPN" {
		t.Errorf("Expected first entry tvg-name 'US: ESPN', got '%s'", first.TVGName)
	}
	if first.TVGLogo != "https://logos.example.com/espn.png" {
		t.Errorf("Expected first entry tvg-logo 'https://logos.example.com/espn.png', got '%s'", first.TVGLogo)
	}
	if first.Group != "US Sports" {
		t.Errorf("Expected first entry group 'US Sports', got '%s'", first.Group)
	}
	if first.URL != "https://somewhere.example.com/live/abc123/200163456" {
		t.Errorf("Expected first entry URL 'https://somewhere.example.com/live/abc123/200163456', got '%s'", first.URL)
	}

	auEntries := 0
	for _, entry := range entries {
		if entry.Group == "Australia" {
			auEntries++
		}
	}
	if auEntries != 3 {
		t.Errorf("Expected 3 Australian entries, got %d", auEntries)
	}

	// Empty and "None" tvg-id values survive parsing untouched.
	if entries[8].TVGID != "" {
		t.Errorf("Expected entry 8 tvg-id to be empty, got '%s'", entries[8].TVGID)
	}
	if entries[9].TVGID != "None" {
		t.Errorf("Expected entry 9 tvg-id 'None', got '%s'", entries[9].TVGID)
	}
}

func TestParseMissingHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "url first", input: "https://test.example.com/stream\n"},
		{
			name: "metadata without header",
			input: `#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G",A
https://test.example.com/stream`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, ErrMissingHeader) {
				t.Errorf("Parse() error = %v, want ErrMissingHeader", err)
			}
		})
	}
}

func TestParseHeaderVariants(t *testing.T) {
	// The header check is a prefix check, so provider extensions after
	// #EXTM3U are fine. A header-only playlist parses to zero entries.
	entries, err := Parse([]byte("#EXTM3U url-tvg=\"https://guide.example.com/epg.xml\"\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(entries))
	}
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantAttr string
		wantLine int
	}{
		{
			name: "missing tvg-name",
			input: `#EXTM3U
#EXTINF:-1 tvg-id="a" tvg-logo="l" group-title="G",A
https://test.example.com/stream`,
			wantAttr: "tvg-name",
			wantLine: 2,
		},
		{
			name: "missing tvg-id",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-logo="l" group-title="G",A
https://test.example.com/stream`,
			wantAttr: "tvg-id",
			wantLine: 2,
		},
		{
			name: "missing tvg-logo",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" group-title="G",A
https://test.example.com/stream`,
			wantAttr: "tvg-logo",
			wantLine: 2,
		},
		{
			name: "missing group-title",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l",A
https://test.example.com/stream`,
			wantAttr: "group-title",
			wantLine: 2,
		},
		{
			name: "missing display name",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G"
https://test.example.com/stream`,
			wantAttr: "",
			wantLine: 2,
		},
		{
			name: "error on later line",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G",A
https://test.example.com/stream
#EXTINF:-1 tvg-name="B" tvg-logo="l" group-title="G",B
https://test.example.com/stream2`,
			wantAttr: "tvg-id",
			wantLine: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Parse([]byte(tt.input))
			if entries != nil {
				t.Errorf("Parse() returned %d entries alongside an error", len(entries))
			}

			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Parse() error = %v, want *FormatError", err)
			}
			if formatErr.Attr != tt.wantAttr {
				t.Errorf("FormatError.Attr = %q, want %q", formatErr.Attr, tt.wantAttr)
			}
			if formatErr.Line != tt.wantLine {
				t.Errorf("FormatError.Line = %d, want %d", formatErr.Line, tt.wantLine)
			}
		})
	}
}

func TestParseEntryLifecycle(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
		wantURLs  []string
	}{
		{
			name: "consecutive metadata lines replace the open entry",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G",A
#EXTINF:-1 tvg-name="B" tvg-id="b" tvg-logo="l" group-title="G",B
https://test.example.com/stream`,
			wantNames: []string{"B"},
		},
		{
			name: "trailing metadata without URL is dropped",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G",A
https://test.example.com/stream
#EXTINF:-1 tvg-name="B" tvg-id="b" tvg-logo="l" group-title="G",B`,
			wantNames: []string{"A"},
		},
		{
			name: "URL without an open entry is skipped",
			input: `#EXTM3U
https://stray.example.com/stream
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G",A
https://test.example.com/stream`,
			wantNames: []string{"A"},
		},
		{
			name: "blank lines between metadata and URL are ignored",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G",A

https://test.example.com/stream`,
			wantNames: []string{"A"},
		},
		{
			name: "any non-empty line closes the open entry as its URL",
			input: `#EXTM3U
#EXTINF:-1 tvg-name="A" tvg-id="a" tvg-logo="l" group-title="G",A
#EXTGRP:Sports`,
			wantNames: []string{"A"},
			wantURLs:  []string{"#EXTGRP:Sports"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(entries) != len(tt.wantNames) {
				t.Fatalf("Expected %d entries, got %d", len(tt.wantNames), len(entries))
			}
			for i, want := range tt.wantNames {
				if entries[i].Name != want {
					t.Errorf("Entry %d name = %q, want %q", i, entries[i].Name, want)
				}
			}
			for i, want := range tt.wantURLs {
				if entries[i].URL != want {
					t.Errorf("Entry %d URL = %q, want %q", i, entries[i].URL, want)
				}
			}
		})
	}
}

func TestParseDisplayName(t *testing.T) {
	// The display name is everything after the first comma, verbatim.
	input := `#EXTM3U
#EXTINF:-1 tvg-name="AU: Nine" tvg-id="nine.au" tvg-logo="l" group-title="Australia",  AU: Nine (HD)
https://test.example.com/stream`

	entries, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "  AU: Nine (HD)" {
		t.Errorf("Expected name '  AU: Nine (HD)' with leading spaces intact, got '%s'", entries[0].Name)
	}
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  map[string]string
	}{
		{
			name:  "canonical order",
			block: `tvg-name="Test Channel" tvg-id="test123" tvg-logo="http://logo.png" group-title="Test Group",Test Channel Name`,
			want: map[string]string{
				"tvg-name":    "Test Channel",
				"tvg-id":      "test123",
				"tvg-logo":    "http://logo.png",
				"group-title": "Test Group",
			},
		},
		{
			name:  "shuffled order",
			block: `group-title="Test Group" tvg-logo="http://logo.png" tvg-id="test123" tvg-name="Test Channel",Name`,
			want: map[string]string{
				"tvg-name":    "Test Channel",
				"tvg-id":      "test123",
				"tvg-logo":    "http://logo.png",
				"group-title": "Test Group",
			},
		},
		{
			name:  "empty values",
			block: `tvg-name="" tvg-id="" tvg-logo="" group-title="",Name`,
			want: map[string]string{
				"tvg-name":    "",
				"tvg-id":      "",
				"tvg-logo":    "",
				"group-title": "",
			},
		},
		{
			name:  "extra attribute is captured too",
			block: `tvg-name="A" tvg-id="a" tvg-chno="5" tvg-logo="l" group-title="G",A`,
			want: map[string]string{
				"tvg-name":    "A",
				"tvg-id":      "a",
				"tvg-chno":    "5",
				"tvg-logo":    "l",
				"group-title": "G",
			},
		},
		{
			name:  "first occurrence of a duplicate key wins",
			block: `tvg-name="First" tvg-name="Second" tvg-id="a" tvg-logo="l" group-title="G",A`,
			want: map[string]string{
				"tvg-name":    "First",
				"tvg-id":      "a",
				"tvg-logo":    "l",
				"group-title": "G",
			},
		},
		{
			name:  "quoted value may contain spaces and equals",
			block: `tvg-name="A = B" tvg-id="a" tvg-logo="l" group-title="Kids & Family",Name`,
			want: map[string]string{
				"tvg-name":    "A = B",
				"tvg-id":      "a",
				"tvg-logo":    "l",
				"group-title": "Kids & Family",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAttributes(tt.block)
			if len(got) != len(tt.want) {
				t.Errorf("parseAttributes() returned %d attrs, want %d", len(got), len(tt.want))
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("attr %q = %q, want %q", key, got[key], want)
				}
			}
		})
	}
}
