// Package main implements the M3U playlist and EPG guide reduction tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/haxcop/m3u-epg-editor/config"
	"github.com/haxcop/m3u-epg-editor/handlers"
	"github.com/haxcop/m3u-epg-editor/internal/data"
)

func main() {
	// Configure logrus
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := godotenv.Load(); err == nil {
		logrus.Info("Loaded environment from .env file")
	}

	cfg, err := config.New()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Set log level based on config
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to parse log level")
	}
	logrus.SetLevel(level)

	logger := logrus.StandardLogger()

	// Create store and fetcher
	store := data.NewStore()
	fetcher := data.NewFetcher(cfg, logger)

	// Perform initial reduction (blocking)
	logger.Info("Running initial reduction...")
	result, err := fetcher.FetchAll()
	if err != nil {
		logger.WithError(err).Fatal("Failed to fetch initial data")
	}
	store.Update(result)
	if err := data.SaveOutputs(cfg.OutDirectory, cfg.OutFilename, result, logger); err != nil {
		logger.WithError(err).Fatal("Failed to write output files")
	}

	if !cfg.Serve {
		logger.Info("Reduction complete")
		return
	}

	// Start background refresh manager
	refresher := data.NewRefresher(store, fetcher, cfg, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go refresher.Start(ctx)

	router := handlers.NewRouter(store, cfg, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to gracefully shutdown")
		}
	}()

	logger.WithField("port", cfg.Port).Info("Starting HTTP server")
	logger.WithField("endpoint", "/playlist.m3u").Info("Playlist endpoint")
	logger.WithField("endpoint", "/guide.xml").Info("Guide endpoint")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Failed to start server")
	}

	<-ctx.Done()
	logger.Info("Server stopped")
	cancel()
}
