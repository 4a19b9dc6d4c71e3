package data

import (
	"sync"
	"time"

	"github.com/haxcop/m3u-epg-editor/internal/m3u"
)

// Store provides thread-safe in-memory storage for the latest reduction
// results.
type Store struct {
	mu       sync.RWMutex
	playlist *PlaylistData
	guide    *GuideData
	lastSync time.Time
}

// PlaylistData contains playlist data and metadata.
type PlaylistData struct {
	Raw       []byte      // source playlist as fetched
	Entries   []m3u.Entry // entries retained by the group filter
	Filtered  []byte      // reduced playlist text
	UpdatedAt time.Time
}

// GuideData contains guide XML in both source and reduced formats.
type GuideData struct {
	Raw       []byte
	Filtered  []byte
	UpdatedAt time.Time
}

// NewStore creates a new empty data store.
func NewStore() *Store {
	return &Store{}
}

// Update stores the outcome of one reduction run. A run that retained no
// entries carries no guide; any previously stored guide is cleared so the
// two documents never disagree.
func (s *Store) Update(result *FetchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.playlist = &PlaylistData{
		Raw:       result.M3U.Raw,
		Entries:   result.M3U.Entries,
		Filtered:  result.M3U.Filtered,
		UpdatedAt: now,
	}
	if result.EPG.Filtered != nil {
		s.guide = &GuideData{
			Raw:       result.EPG.Raw,
			Filtered:  result.EPG.Filtered,
			UpdatedAt: now,
		}
	} else {
		s.guide = nil
	}
	s.lastSync = now
}

// GetPlaylist retrieves the reduced playlist and its entries. Returns false
// if no data is available.
func (s *Store) GetPlaylist() ([]byte, []m3u.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.playlist == nil {
		return nil, nil, false
	}

	return s.playlist.Filtered, s.playlist.Entries, true
}

// GetGuide retrieves the reduced guide XML. Returns false if no data is
// available.
func (s *Store) GetGuide() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.guide == nil {
		return nil, false
	}

	return s.guide.Filtered, true
}

// HasData returns true if the store contains playlist data. Guide data may
// legitimately be absent when no entries survived the group filter.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.playlist != nil
}

// LastSync returns the time of the last data synchronization.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSync
}
