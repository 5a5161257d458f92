// The exporter runs as its own process: it re-reads the telemetry file on a
// fixed interval and serves the derived values on a scrape endpoint.
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"pv_dashboard/internal/config"
	"pv_dashboard/internal/exporter"
	"pv_dashboard/internal/loader"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	l := loader.New(cfg.Data.Path, cfg.Data.CacheTTL, cfg.Data.Strict, logger)
	metrics := exporter.New()
	shares := cfg.SharesValue()

	update := func() {
		readings, err := l.Load(time.Now())
		if err != nil {
			// Gauges keep their previous values until data reappears.
			logger.Warnf("Metrics update skipped: %v", err)
			return
		}
		metrics.Update(readings, shares)
	}

	update()
	go func() {
		ticker := time.NewTicker(cfg.Exporter.UpdateInterval)
		defer ticker.Stop()
		for range ticker.C {
			update()
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/metrics", metrics.Handler())

	logger.Infof("Starting PV metrics exporter on %s", cfg.Exporter.Addr)
	if err := http.ListenAndServe(cfg.Exporter.Addr, mux); err != nil {
		logger.Fatalf("Exporter server error: %v", err)
	}
}
