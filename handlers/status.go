package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haxcop/m3u-epg-editor/config"
	"github.com/haxcop/m3u-epg-editor/internal/data"
)

// StatusResponse summarizes the last reduction run.
type StatusResponse struct {
	Entries        int      `json:"entries"`
	Groups         []string `json:"groups"`
	SortChannels   bool     `json:"sort_channels"`
	GuideAvailable bool     `json:"guide_available"`
	LastSync       string   `json:"last_sync"`
}

// StatusHandler serves reduction status at /status.
type StatusHandler struct {
	store  *data.Store
	config *config.Config
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler instance.
func NewStatusHandler(store *data.Store, cfg *config.Config, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	_, entries, _ := h.store.GetPlaylist()
	_, guideAvailable := h.store.GetGuide()

	status := StatusResponse{
		Entries:        len(entries),
		Groups:         h.config.Groups.Names(),
		SortChannels:   h.config.SortChannels,
		GuideAvailable: guideAvailable,
	}
	if lastSync := h.store.LastSync(); !lastSync.IsZero() {
		status.LastSync = lastSync.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.WithError(err).Error("Failed to encode status response")
	}
}

// HealthHandler reports readiness at /health. The service is ready once a
// playlist has been stored; the guide may legitimately be absent.
func HealthHandler(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !store.HasData() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "starting"})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
