// Package handlers provides HTTP handlers for the reduced playlist and guide.
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/haxcop/m3u-epg-editor/internal/data"
)

// PlaylistHandler serves the reduced M3U playlist.
type PlaylistHandler struct {
	store  *data.Store
	logger *logrus.Logger
}

// NewPlaylistHandler creates a new playlist handler instance.
func NewPlaylistHandler(store *data.Store, logger *logrus.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		store:  store,
		logger: logger,
	}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	playlist, _, ok := h.store.GetPlaylist()
	if !ok {
		h.logger.Error("Playlist data not available")
		http.Error(w, "Playlist data not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
	_, _ = w.Write(playlist)
}
