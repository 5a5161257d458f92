package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"pv_dashboard/internal/config"
	"pv_dashboard/internal/dashboard"
	"pv_dashboard/internal/loader"
	"pv_dashboard/internal/model"
	"pv_dashboard/internal/ws"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Infof("Starting PV dashboard with data file %s", cfg.Data.Path)

	l := loader.New(cfg.Data.Path, cfg.Data.CacheTTL, cfg.Data.Strict, logger)
	service := dashboard.NewService(l, dashboard.Config{
		Split:      cfg.SplitRatios(),
		Shares:     cfg.SharesValue(),
		MaxPowerKW: cfg.Gauge.MaxPowerKW,
		CostPerKWh: cfg.Cost.PerKWhUSD,
	}, logger)

	// Warm the cache. A missing file is not fatal: the page shows the
	// empty state until data appears.
	if readings, err := l.Load(time.Now()); err != nil {
		if errors.Is(err, loader.ErrDataUnavailable) {
			logger.Warnf("No telemetry data yet: %v", err)
		} else {
			logger.Fatalf("Failed to load telemetry data: %v", err)
		}
	} else if tr, ok := model.ReadingsTimeRange(readings); ok {
		logger.Infof("Data loaded: %s to %s", tr.Start.Format("2006-01-02 15:04"), tr.End.Format("2006-01-02 15:04"))
	}

	hub := ws.NewHub()
	handler := ws.NewHandler(hub, service, logger)

	// Refresh loop: recompute and push a snapshot every interval. Loads
	// inside the cache TTL reuse the memoized readings.
	go func() {
		ticker := time.NewTicker(cfg.Dashboard.RefreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			if hub.ClientCount() == 0 {
				continue
			}
			handler.BroadcastSnapshot(service.Snapshot())
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)
	mux.HandleFunc("GET /api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(service.Snapshot()); err != nil {
			logger.Errorf("Encoding snapshot: %v", err)
		}
	})

	// Serve the dashboard page
	if _, err := os.Stat(cfg.Dashboard.StaticDir); err == nil {
		logger.Infof("Serving dashboard page from %s", cfg.Dashboard.StaticDir)
		mux.Handle("/", http.FileServer(http.Dir(cfg.Dashboard.StaticDir)))
	}

	logger.Infof("Starting dashboard server on %s", cfg.Dashboard.Addr)
	if err := http.ListenAndServe(cfg.Dashboard.Addr, mux); err != nil {
		logger.Fatalf("Dashboard server error: %v", err)
	}
}
