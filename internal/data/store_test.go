package data

import (
	"testing"
	"time"

	"github.com/haxcop/m3u-epg-editor/internal/m3u"
)

func playlistOnlyResult(entries []m3u.Entry, filtered []byte) *FetchResult {
	result := &FetchResult{}
	result.M3U.Raw = []byte("#EXTM3U\n")
	result.M3U.Entries = entries
	result.M3U.Filtered = filtered
	return result
}

func TestStoreOperations(t *testing.T) {
	store := NewStore()

	// Test initial state
	if store.HasData() {
		t.Error("New store should not have data")
	}

	_, _, ok := store.GetPlaylist()
	if ok {
		t.Error("GetPlaylist should return false when no data")
	}

	_, ok = store.GetGuide()
	if ok {
		t.Error("GetGuide should return false when no data")
	}

	// Store a run that retained entries but skipped the guide stage
	entries := []m3u.Entry{
		{Name: "Test", TVGID: "t", Group: "G", URL: "http://example.com/stream"},
	}
	filtered := m3u.Write(entries)
	store.Update(playlistOnlyResult(entries, filtered))

	gotFiltered, gotEntries, ok := store.GetPlaylist()
	if !ok {
		t.Error("GetPlaylist should return true after an update")
	}
	if string(gotFiltered) != string(filtered) {
		t.Errorf("Expected playlist data %q, got %q", filtered, gotFiltered)
	}
	if len(gotEntries) != 1 || gotEntries[0].Name != "Test" {
		t.Error("Entries not stored correctly")
	}

	// Playlist alone is enough to serve; the guide may legitimately be absent.
	if !store.HasData() {
		t.Error("Store should report having data after storing the playlist")
	}
	if _, ok := store.GetGuide(); ok {
		t.Error("GetGuide should return false when the run carried no guide")
	}

	// Store a run that also produced a guide
	withGuide := playlistOnlyResult(entries, filtered)
	withGuide.EPG.Raw = []byte(`<?xml version="1.0"?><tv></tv>`)
	withGuide.EPG.Filtered = []byte(`<?xml version="1.0"?><tv></tv>`)
	store.Update(withGuide)

	gotGuide, ok := store.GetGuide()
	if !ok {
		t.Error("GetGuide should return true after an update with a guide")
	}
	if string(gotGuide) != string(withGuide.EPG.Filtered) {
		t.Errorf("Expected guide data %q, got %q", withGuide.EPG.Filtered, gotGuide)
	}

	// Test LastSync
	lastSync := store.LastSync()
	if time.Since(lastSync) > time.Second {
		t.Error("LastSync should be recent")
	}
}

func TestStoreUpdate(t *testing.T) {
	store := NewStore()

	withGuide := &FetchResult{}
	withGuide.M3U.Raw = []byte("#EXTM3U\n")
	withGuide.M3U.Entries = []m3u.Entry{{Name: "Test", TVGID: "t"}}
	withGuide.M3U.Filtered = []byte("#EXTM3U\n")
	withGuide.EPG.Raw = []byte("<tv></tv>")
	withGuide.EPG.Filtered = []byte("<tv></tv>")

	store.Update(withGuide)

	if !store.HasData() {
		t.Error("Store should have data after Update")
	}
	if _, ok := store.GetGuide(); !ok {
		t.Error("Store should have guide data after Update with guide")
	}

	// An update without guide data clears the previous guide.
	withoutGuide := &FetchResult{}
	withoutGuide.M3U.Raw = []byte("#EXTM3U\n")
	withoutGuide.M3U.Filtered = []byte("#EXTM3U\n")

	store.Update(withoutGuide)

	if !store.HasData() {
		t.Error("Store should still have playlist data")
	}
	if _, ok := store.GetGuide(); ok {
		t.Error("Update without guide data should clear the stored guide")
	}
}

func TestStoreConcurrency(_ *testing.T) {
	store := NewStore()
	done := make(chan bool)

	withGuide := playlistOnlyResult([]m3u.Entry{{Name: "test"}}, []byte("test"))
	withGuide.EPG.Raw = []byte("test")
	withGuide.EPG.Filtered = []byte("test")
	withoutGuide := playlistOnlyResult([]m3u.Entry{{Name: "test"}}, []byte("test"))

	// Concurrent writes
	go func() {
		for i := 0; i < 100; i++ {
			store.Update(withGuide)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			store.Update(withoutGuide)
		}
		done <- true
	}()

	// Concurrent reads
	go func() {
		for i := 0; i < 100; i++ {
			store.GetPlaylist()
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			store.GetGuide()
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			store.HasData()
		}
		done <- true
	}()

	// Wait for all goroutines
	for i := 0; i < 5; i++ {
		<-done
	}
}
