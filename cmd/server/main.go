package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"threat-tracker/internal/config"
	"threat-tracker/internal/database"
	"threat-tracker/internal/handlers"
	"threat-tracker/internal/logging"
	"threat-tracker/internal/metrics"
	"threat-tracker/internal/server"
	"threat-tracker/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.GeneratedSecret {
		logger.Warn("SESSION_SECRET is not set, using a random secret for this run")
	}

	if cfg.DBDSN != "" {
		if err := database.Init(cfg.DBDSN, logger); err != nil {
			logger.Fatal("audit database", zap.Error(err))
		}
	} else {
		logger.Info("DB_DSN is not set, audit journal disabled")
	}

	h := handlers.New(store.New(), logger, metrics.New(), cfg.MaxUploadMB<<20)

	if cfg.ThreatsFile != "" {
		if _, err := h.LoadFile(cfg.ThreatsFile); err != nil {
			logger.Error("initial threat file not loaded", zap.String("path", cfg.ThreatsFile), zap.Error(err))
		}
	}

	r := server.NewRouter(cfg, h, logger)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", zap.String("addr", addr), zap.String("url", "http://localhost"+addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
