package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmlira/chesslens/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:            ":8080",
		DBPath:          "test.db",
		CSVPath:         "chess_games.csv",
		SampleSize:      1000,
		SampleSeed:      42,
		ChunkSize:       100000,
		InsertBatchSize: 5000,
		LogLevel:        "INFO",
		IngestWorkers:   1,
		IngestQueueSize: 4,
		CacheMaxEntries: 64,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_FullDatasetSampleSize(t *testing.T) {
	cfg := validConfig()
	cfg.SampleSize = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyPaths(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{
			name:     "empty db path",
			mutate:   func(c *config.Config) { c.DBPath = "" },
			expected: "DB_PATH cannot be empty",
		},
		{
			name:     "empty csv path",
			mutate:   func(c *config.Config) { c.CSVPath = "" },
			expected: "CSV_PATH cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_NegativeSampleSize(t *testing.T) {
	cfg := validConfig()
	cfg.SampleSize = -1

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SAMPLE_SIZE")
}

func TestValidate_InvalidSizes(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{
			name:     "zero chunk size",
			mutate:   func(c *config.Config) { c.ChunkSize = 0 },
			expected: "CHUNK_SIZE",
		},
		{
			name:     "negative batch size",
			mutate:   func(c *config.Config) { c.InsertBatchSize = -1 },
			expected: "INSERT_BATCH_SIZE",
		},
		{
			name:     "zero ingest workers",
			mutate:   func(c *config.Config) { c.IngestWorkers = 0 },
			expected: "INGEST_WORKER_COUNT",
		},
		{
			name:     "zero ingest queue",
			mutate:   func(c *config.Config) { c.IngestQueueSize = 0 },
			expected: "INGEST_QUEUE_SIZE",
		},
		{
			name:     "zero cache entries",
			mutate:   func(c *config.Config) { c.CacheMaxEntries = 0 },
			expected: "CACHE_MAX_ENTRIES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR", "debug"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	cfg.LogLevel = "INVALID"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "CSV_PATH cannot be empty")
	assert.Contains(t, errStr, "CHUNK_SIZE")
	assert.Contains(t, errStr, "INGEST_WORKER_COUNT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("CSV_PATH", "custom.csv")
	t.Setenv("SAMPLE_SIZE", "1000")
	t.Setenv("SAMPLE_SEED", "7")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.csv", cfg.CSVPath)
	assert.Equal(t, 1000, cfg.SampleSize)
	assert.Equal(t, int64(7), cfg.SampleSeed)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("SAMPLE_SIZE", "not-a-number")

	cfg := config.Load()
	assert.Equal(t, 500000, cfg.SampleSize)

	os.Unsetenv("SAMPLE_SIZE")
}
