// Package kafka provides the optional record-ingestion consumer. Upstream
// departments publish advisory records as JSON to a topic; the consumer
// validates each record and upserts it into the store. The report path
// never depends on this package — it is feature-flagged via INGEST_ENABLED.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/agromet/advisory-report-service/internal/config"
	"github.com/agromet/advisory-report-service/internal/domain"
	"github.com/agromet/advisory-report-service/internal/observability"
)

// RecordUpserter writes validated records into the store.
type RecordUpserter interface {
	Upsert(ctx context.Context, rec domain.Record) error
}

// Ingestor consumes record messages and stores them.
type Ingestor struct {
	reader  *kafkago.Reader
	store   RecordUpserter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewIngestor creates a consumer for the configured ingestion topic.
func NewIngestor(cfg *config.Config, store RecordUpserter, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaIngestTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
	})
	return &Ingestor{reader: reader, store: store, logger: logger, metrics: metrics}
}

// Run consumes messages until the context is cancelled. Malformed messages
// are logged, counted, and committed (skipped); store failures leave the
// offset uncommitted so the message is redelivered after a backoff.
func (i *Ingestor) Run(ctx context.Context) error {
	i.logger.Info("ingestion consumer started")
	i.metrics.IngestRunning.Set(1)
	defer i.metrics.IngestRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	const maxBackoff = 5 * time.Second

	for {
		msg, err := i.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				i.logger.Info("ingestion consumer stopping", "reason", ctx.Err())
				return nil
			}
			i.logger.Error("fetch message failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond

		rec, err := mapMessageToRecord(msg)
		if err != nil {
			i.logger.Warn("invalid record message, skipping",
				"error", err,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			i.metrics.IngestErrors.Inc()
			i.commit(ctx, msg)
			continue
		}

		if err := i.store.Upsert(ctx, rec); err != nil {
			i.logger.Error("store record failed", "error", err,
				"category", rec.Category, "subcategory", rec.Subcategory)
			i.metrics.IngestErrors.Inc()
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}

		i.metrics.IngestRecordsConsumed.Inc()
		i.commit(ctx, msg)
	}
}

// Close releases the underlying Kafka reader.
func (i *Ingestor) Close() error {
	return i.reader.Close()
}

func (i *Ingestor) commit(ctx context.Context, msg kafkago.Message) {
	if err := i.reader.CommitMessages(ctx, msg); err != nil {
		i.logger.Warn("commit offset failed", "error", err,
			"partition", msg.Partition, "offset", msg.Offset)
	}
}

// mapMessageToRecord deserializes and validates a record message,
// normalizing the legacy "Recieved" subcategory spelling on the way in.
func mapMessageToRecord(msg kafkago.Message) (domain.Record, error) {
	var rec domain.Record
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		return domain.Record{}, fmt.Errorf("parse record message: %w", err)
	}
	rec.Subcategory = domain.NormalizeSubcategory(string(rec.Subcategory))
	if err := rec.Validate(); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
