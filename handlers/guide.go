package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/haxcop/m3u-epg-editor/internal/data"
)

// GuideHandler serves the reduced XMLTV guide.
type GuideHandler struct {
	store  *data.Store
	logger *logrus.Logger
}

// NewGuideHandler creates a new guide handler instance.
func NewGuideHandler(store *data.Store, logger *logrus.Logger) *GuideHandler {
	return &GuideHandler{
		store:  store,
		logger: logger,
	}
}

func (h *GuideHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	guide, ok := h.store.GetGuide()
	if !ok {
		h.logger.Error("Guide data not available")
		http.Error(w, "Guide data not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(guide)
}
