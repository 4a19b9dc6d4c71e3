// Package data provides fetching, reduction and in-memory storage for
// playlist and guide documents.
package data

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haxcop/m3u-epg-editor/config"
	"github.com/haxcop/m3u-epg-editor/internal/epg"
	"github.com/haxcop/m3u-epg-editor/internal/m3u"
	"github.com/haxcop/m3u-epg-editor/internal/metrics"
)

// ErrUnexpectedStatus is returned when an HTTP response has an unexpected
// status code.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Fetcher retrieves the source documents and runs the reduction pipeline.
type Fetcher struct {
	config *config.Config
	client *http.Client
	logger *logrus.Logger
}

// FetchResult contains the source documents and their reduced renditions
// from one pipeline run. The EPG fields stay nil when the guide stage was
// skipped.
type FetchResult struct {
	M3U struct {
		Raw      []byte      // playlist as fetched
		Entries  []m3u.Entry // entries retained by the group filter
		Filtered []byte      // reduced playlist text
	}
	EPG struct {
		Raw      []byte // guide XML after decompression
		Filtered []byte // reduced guide XML
	}
}

// NewFetcher creates a new fetcher instance.
func NewFetcher(cfg *config.Config, logger *logrus.Logger) *Fetcher {
	return &Fetcher{
		config: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// FetchAll runs one full reduction: fetch and filter the playlist, then
// fetch the guide and correlate it against the surviving entries. When the
// group filter retains nothing the guide stage is skipped entirely.
func (f *Fetcher) FetchAll() (*FetchResult, error) {
	result := &FetchResult{}

	m3uRaw, entries, filtered, err := f.fetchM3U()
	if err != nil {
		return nil, fmt.Errorf("failed to process M3U: %w", err)
	}

	result.M3U.Raw = m3uRaw
	result.M3U.Entries = entries
	result.M3U.Filtered = filtered

	if len(entries) == 0 {
		f.logger.Warn("No entries matched the configured groups, skipping guide stage")
		return result, nil
	}

	epgRaw, epgFiltered, err := f.fetchAndCorrelateEPG(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to process EPG: %w", err)
	}

	result.EPG.Raw = epgRaw
	result.EPG.Filtered = epgFiltered

	return result, nil
}

func (f *Fetcher) fetchM3U() (raw []byte, entries []m3u.Entry, filtered []byte, err error) {
	f.logger.WithField("url", f.config.M3UURL).Info("Fetching M3U playlist")

	raw, err = f.fetch(f.config.M3UURL, "m3u")
	if err != nil {
		return nil, nil, nil, err
	}

	parsed, err := m3u.Parse(raw)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse M3U: %w", err)
	}
	metrics.PlaylistEntries.Set(float64(len(parsed)))

	entries = m3u.FilterByGroups(parsed, f.config.Groups, f.config.SortChannels)
	metrics.PlaylistEntriesRetained.Set(float64(len(entries)))

	f.logger.WithFields(logrus.Fields{
		"entries":  len(parsed),
		"retained": len(entries),
	}).Info("Successfully fetched and filtered M3U")

	return raw, entries, m3u.Write(entries), nil
}

func (f *Fetcher) fetchAndCorrelateEPG(entries []m3u.Entry) (raw, filtered []byte, err error) {
	f.logger.WithField("url", f.config.EPGURL).Info("Fetching EPG guide")

	body, err := f.fetch(f.config.EPGURL, "epg")
	if err != nil {
		return nil, nil, err
	}

	raw, err = decompress(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decompress EPG: %w", err)
	}

	tv, err := epg.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse EPG: %w", err)
	}

	reduced := epg.Correlate(tv, entries)
	metrics.GuideChannelsRetained.Set(float64(len(reduced.Channels)))
	metrics.GuideProgrammesRetained.Set(float64(len(reduced.Programmes)))

	filtered, err = epg.Write(reduced)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode EPG: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"source_channels":   len(tv.Channels),
		"source_programmes": len(tv.Programmes),
		"channels":          len(reduced.Channels),
		"programmes":        len(reduced.Programmes),
	}).Info("Successfully fetched and correlated EPG")

	return raw, filtered, nil
}

func (f *Fetcher) fetch(url, document string) ([]byte, error) {
	start := time.Now()

	resp, err := f.client.Get(url)
	if err != nil {
		metrics.FetchTotal.WithLabelValues(document, "error").Inc()
		return nil, fmt.Errorf("failed to fetch %s: %w", document, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		metrics.FetchTotal.WithLabelValues(document, "error").Inc()
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.FetchTotal.WithLabelValues(document, "error").Inc()
		return nil, fmt.Errorf("failed to read %s body: %w", document, err)
	}

	metrics.FetchTotal.WithLabelValues(document, "success").Inc()
	metrics.FetchDuration.WithLabelValues(document).Observe(time.Since(start).Seconds())

	return body, nil
}

// decompress unwraps gzip-compressed guide data, detected by the gzip magic
// bytes. Providers commonly serve the guide as a .gz file; plain XML passes
// through untouched.
func decompress(body []byte) ([]byte, error) {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return body, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = zr.Close()
	}()

	return io.ReadAll(zr)
}
