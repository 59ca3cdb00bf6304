package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Record store configuration.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	MongoTimeout    time.Duration

	// Record ingestion configuration (optional; INGEST_ENABLED).
	KafkaBrokers     []string
	KafkaIngestTopic string
	KafkaGroupID     string
	IngestEnabled    bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mongoTimeout, err := parseDuration("MONGO_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MongoURI:        envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   envOrDefault("MONGO_DATABASE", "EnvironmentData"),
		MongoCollection: envOrDefault("MONGO_COLLECTION", "meteorologies"),
		MongoTimeout:    mongoTimeout,

		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaIngestTopic: envOrDefault("KAFKA_INGEST_TOPIC", "meteorology-records"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "agromet-report-ingest"),
		IngestEnabled:    os.Getenv("INGEST_ENABLED") == "true",
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.MongoDatabase == "" {
		return nil, errors.New("MONGO_DATABASE is required")
	}
	if cfg.MongoCollection == "" {
		return nil, errors.New("MONGO_COLLECTION is required")
	}
	if cfg.IngestEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("INGEST_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaIngestTopic == "" {
			return nil, errors.New("INGEST_ENABLED is true but KAFKA_INGEST_TOPIC is not set")
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
