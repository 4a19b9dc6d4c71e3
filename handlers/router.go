package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/haxcop/m3u-epg-editor/config"
	"github.com/haxcop/m3u-epg-editor/internal/data"
)

// NewRouter wires every endpoint onto a gorilla/mux router with logging
// and metrics middleware applied.
func NewRouter(store *data.Store, cfg *config.Config, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))
	router.Use(MetricsMiddleware)

	router.Handle("/playlist.m3u", NewPlaylistHandler(store, logger)).Methods(http.MethodGet)
	router.Handle("/guide.xml", NewGuideHandler(store, logger)).Methods(http.MethodGet)
	router.Handle("/status", NewStatusHandler(store, cfg, logger)).Methods(http.MethodGet)
	router.HandleFunc("/health", HealthHandler(store)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}
