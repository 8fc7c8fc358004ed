package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	CSVPath         string
	SampleSize      int
	SampleSeed      int64
	ChunkSize       int
	InsertBatchSize int
	LogLevel        string
	IngestWorkers   int
	IngestQueueSize int
	CacheMaxEntries int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:chesslens.db"),
		CSVPath:         envOr("CSV_PATH", "chess_games.csv"),
		SampleSize:      envIntOr("SAMPLE_SIZE", 500000),
		SampleSeed:      envInt64Or("SAMPLE_SEED", 42),
		ChunkSize:       envIntOr("CHUNK_SIZE", 100000),
		InsertBatchSize: envIntOr("INSERT_BATCH_SIZE", 5000),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		IngestWorkers:   envIntOr("INGEST_WORKER_COUNT", 1),
		IngestQueueSize: envIntOr("INGEST_QUEUE_SIZE", 4),
		CacheMaxEntries: envIntOr("CACHE_MAX_ENTRIES", 64),
	}
}

// Validate checks the configuration and returns an error describing every
// invalid value at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.CSVPath == "" {
		problems = append(problems, "CSV_PATH cannot be empty")
	}
	if c.SampleSize < 0 {
		problems = append(problems, "SAMPLE_SIZE must be >= 0 (0 loads the full dataset)")
	}
	if c.ChunkSize <= 0 {
		problems = append(problems, "CHUNK_SIZE must be positive")
	}
	if c.InsertBatchSize <= 0 {
		problems = append(problems, "INSERT_BATCH_SIZE must be positive")
	}
	if c.IngestWorkers <= 0 {
		problems = append(problems, "INGEST_WORKER_COUNT must be positive")
	}
	if c.IngestQueueSize <= 0 {
		problems = append(problems, "INGEST_QUEUE_SIZE must be positive")
	}
	if c.CacheMaxEntries <= 0 {
		problems = append(problems, "CACHE_MAX_ENTRIES must be positive")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envInt64Or(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
