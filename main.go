package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"prereview/config"
	"prereview/metrics"
	"prereview/providers/doi"
	"prereview/providers/europepmc"
	"prereview/providers/zenodo"
	"prereview/services"
	"prereview/storage"
	"prereview/types"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	community, err := types.ParseNonEmptyString(cfg.ZenodoCommunity)
	if err != nil {
		logging.Fatal("Invalid Zenodo community", zap.Error(err))
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Sessions
	var store storage.SessionStore
	if cfg.UsesDatabase() {
		db, err := storage.OpenPostgres(cfg.DSN(), logging)
		if err != nil {
			logging.Fatal("Failed to connect to session database", zap.Error(err))
		}
		store = storage.NewGormSessionStore(db)
	} else {
		logging.Warn("DB_HOST not set, sessions are kept in memory")
		store = storage.NewMemorySessionStore()
	}

	// Providers & Services
	zenodoClient := zenodo.NewClient(cfg, logging, m)
	doiFetcher := doi.NewFetcher(cfg, logging, m)
	europePMC := europepmc.NewFetcher(cfg, logging)

	srv := &server{
		log:      logging,
		reviews:  services.NewReviewService(zenodoClient, doiFetcher, community.String(), logging),
		publish:  services.NewPublishService(zenodoClient, community, logging, m),
		resolver: doiFetcher,
		search:   europePMC,
		sessions: newSessions(cfg.SessionSecret, store),
		newUser:  randomUser,
		doiBase:  cfg.DOIBaseURL,
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := newRouter(srv, reg)
	if err != nil {
		logging.Fatal("Failed to parse templates", zap.Error(err))
	}

	// Cron
	probe := services.NewArchiveProbe(zenodoClient, community.String(), cfg.HTTPClientTimeout, logging, m)
	cronScheduler := cron.New()
	if _, err := cronScheduler.AddFunc(cfg.ArchiveProbeSchedule, probe.Run); err != nil {
		logging.Fatal("Invalid archive probe schedule", zap.String("schedule", cfg.ArchiveProbeSchedule), zap.Error(err))
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()
	go probe.Run()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}
