package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		StorageEngine:      config.EngineSQLite,
		LogLevel:           "INFO",
		ImportWorkerCount:  1,
		ImportQueueSize:    16,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_UnknownEngine(t *testing.T) {
	cfg := validConfig()
	cfg.StorageEngine = "indexeddb"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_ENGINE must be one of [sqlite memory]")
}

func TestValidate_WorkerBounds(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		queue   int
		want    string
	}{
		{name: "no workers", workers: 0, queue: 16, want: "IMPORT_WORKER_COUNT must be at least 1"},
		{name: "too many workers", workers: 17, queue: 16, want: "IMPORT_WORKER_COUNT must be at most 16"},
		{name: "empty queue", workers: 1, queue: 0, want: "IMPORT_QUEUE_SIZE must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ImportWorkerCount = tt.workers
			cfg.ImportQueueSize = tt.queue

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_EmptyOrigin(t *testing.T) {
	cfg := validConfig()
	cfg.CORSAllowedOrigins = []string{"http://localhost:5173", ""}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS cannot be empty")
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "DB_PATH", "STORAGE_ENGINE", "LOG_LEVEL", "IMPORT_WORKER_COUNT", "IMPORT_QUEUE_SIZE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:flashdeck.db", cfg.DBPath)
	assert.Equal(t, config.EngineSQLite, cfg.StorageEngine)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 1, cfg.ImportWorkerCount)
	assert.Equal(t, 16, cfg.ImportQueueSize)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADDR", ":9090")
	t.Setenv("STORAGE_ENGINE", "MEMORY")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("IMPORT_WORKER_COUNT", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, config.EngineMemory, cfg.StorageEngine)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 1, cfg.ImportWorkerCount, "invalid integers fall back to the default")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_PATH=file:from-dotenv.db\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("DB_PATH", "")
	os.Unsetenv("DB_PATH")

	cfg := config.Load()

	assert.Equal(t, "file:from-dotenv.db", cfg.DBPath)
}
