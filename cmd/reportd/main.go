package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/agromet/advisory-report-service/internal/adapter/http"
	kafkaadapter "github.com/agromet/advisory-report-service/internal/adapter/kafka"
	"github.com/agromet/advisory-report-service/internal/adapter/mongostore"
	"github.com/agromet/advisory-report-service/internal/config"
	"github.com/agromet/advisory-report-service/internal/observability"
	"github.com/agromet/advisory-report-service/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.MongoTimeout,
		logger.With("component", "mongostore"))
	if err != nil {
		logger.Error("record store connection failed", "error", err)
		os.Exit(1)
	}

	composer := report.NewComposer(store, logger.With("component", "composer"), metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, composer, store, metrics, logger.With("component", "http"))

	// Record ingestion is feature-flagged via INGEST_ENABLED; the report
	// path works without it when records are loaded out of band.
	var ingestor *kafkaadapter.Ingestor
	if cfg.IngestEnabled {
		ingestor = kafkaadapter.NewIngestor(cfg, store, logger.With("component", "ingest"), metrics)
		logger.Info("record ingestion enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaIngestTopic)
		go func() {
			if err := ingestor.Run(ctx); err != nil {
				logger.Error("ingestion consumer error", "error", err)
			}
		}()
	} else {
		logger.Info("record ingestion disabled")
	}

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
	if ingestor != nil {
		if err := ingestor.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("record store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
