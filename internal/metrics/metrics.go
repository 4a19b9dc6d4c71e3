// Package metrics provides Prometheus instrumentation for the editor. All
// metrics are registered on the default registry and prefixed with
// "m3u_epg_editor_"; expose them by mounting promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch metrics
var (
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_epg_editor_fetch_total",
			Help: "Total number of upstream document fetches",
		},
		[]string{"document", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m3u_epg_editor_fetch_duration_seconds",
			Help:    "Upstream document fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"document"},
	)
)

// Pipeline metrics
var (
	PlaylistEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_epg_editor_playlist_entries",
			Help: "Number of entries in the source playlist",
		},
	)

	PlaylistEntriesRetained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_epg_editor_playlist_entries_retained",
			Help: "Number of playlist entries retained by the group filter",
		},
	)

	GuideChannelsRetained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_epg_editor_guide_channels_retained",
			Help: "Number of channel definitions in the generated guide",
		},
	)

	GuideProgrammesRetained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_epg_editor_guide_programmes_retained",
			Help: "Number of programme entries in the generated guide",
		},
	)
)

// Refresh metrics
var (
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_epg_editor_refresh_total",
			Help: "Total number of refresh cycles",
		},
		[]string{"status"},
	)

	LastRefreshTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_epg_editor_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful refresh",
		},
	)

	LastRefreshDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_epg_editor_last_refresh_duration_seconds",
			Help: "Duration of the last successful refresh in seconds",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_epg_editor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m3u_epg_editor_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
