package data

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haxcop/m3u-epg-editor/config"
	"github.com/haxcop/m3u-epg-editor/internal/metrics"
)

// Refresher re-runs the reduction pipeline on an interval, updating the
// store and rewriting the output files.
type Refresher struct {
	store    *Store
	fetcher  *Fetcher
	outDir   string
	outName  string
	interval time.Duration
	logger   *logrus.Logger
}

// NewRefresher creates a new refresh manager.
func NewRefresher(store *Store, fetcher *Fetcher, cfg *config.Config, logger *logrus.Logger) *Refresher {
	return &Refresher{
		store:    store,
		fetcher:  fetcher,
		outDir:   cfg.OutDirectory,
		outName:  cfg.OutFilename,
		interval: cfg.RefreshInterval,
		logger:   logger,
	}
}

// Start begins the refresh cycle, stopping when the context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Refresh manager shutting down")
			return
		case <-ticker.C:
			err := r.refresh()
			// Reset every cycle so the first success after a backoff
			// returns the ticker to the configured interval
			ticker.Reset(r.scheduleNextRefresh(err))
		}
	}
}

func (r *Refresher) refresh() error {
	r.logger.Info("Starting data refresh")
	start := time.Now()

	result, err := r.fetcher.FetchAll()
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		r.logger.WithError(err).Error("Failed to refresh data")
		return err
	}

	// Update the store only on a successful run
	r.store.Update(result)

	if err := SaveOutputs(r.outDir, r.outName, result, r.logger); err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		r.logger.WithError(err).Error("Failed to write output files")
		return err
	}

	metrics.RefreshTotal.WithLabelValues("success").Inc()
	metrics.LastRefreshTimestamp.SetToCurrentTime()
	metrics.LastRefreshDuration.Set(time.Since(start).Seconds())

	r.logger.Info("Data refresh completed successfully")
	return nil
}

func (r *Refresher) scheduleNextRefresh(lastError error) time.Duration {
	if lastError == nil {
		// Success - use normal interval
		return r.interval
	}

	// Error - implement exponential backoff with max 5 minutes
	backoffDuration := r.interval / 2
	if backoffDuration > 5*time.Minute {
		backoffDuration = 5 * time.Minute
	}

	r.logger.WithField("interval", backoffDuration).Warn("Using backoff interval due to refresh error")
	return backoffDuration
}
