package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climate-risk-engine/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-risk-engine/internal/adapter/kafka"
	"github.com/couchcryptid/climate-risk-engine/internal/catalog"
	"github.com/couchcryptid/climate-risk-engine/internal/config"
	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/engine"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	opts := []engine.Option{}

	if cfg.CatalogPath != "" {
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			logger.Error("failed to load cost catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
		logger.Info("cost catalog loaded", "path", cfg.CatalogPath, "items", cat.Len())
		opts = append(opts, engine.WithCostSource(cat))
	} else {
		logger.Info("no cost catalog configured, node replacement costs only")
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("summary publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		opts = append(opts, engine.WithPublisher(publisher))
	} else {
		logger.Info("summary publishing disabled")
	}

	bands := domain.BandConfig{
		Default: domain.BandThresholds{Medium: cfg.BandMedium, High: cfg.BandHigh},
	}
	eng := engine.New(bands, cfg.TopAssets, logger, metrics, opts...)

	var analyzer engine.Analyzer = eng
	if cfg.CacheSize > 0 {
		analyzer = engine.NewCachedAnalyzer(eng, cfg.CacheSize, metrics)
		logger.Info("analysis cache enabled", "size", cfg.CacheSize)
	}

	srv := httpadapter.NewServer(cfg.Addr, analyzer, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
