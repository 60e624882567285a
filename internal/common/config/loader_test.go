package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "random-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, DefaultRandomOrgURL, cfg.APIs.RandomOrg.BaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.APIs.RandomOrg.UserAgent)
	assert.Equal(t, 10000, cfg.APIs.RandomOrg.Timeout)
	assert.Equal(t, DefaultLocale, cfg.Random.Locale)
	assert.Equal(t, 0.0, cfg.Random.DefaultMin)
	assert.Equal(t, 60.0, cfg.Random.DefaultMax)
	assert.Equal(t, "random:draws", cfg.Journal.Key)
	assert.Equal(t, int64(1000), cfg.Journal.MaxEntries)
	assert.Equal(t, ":8080", cfg.Observability.MetricsAddress)

	w := GetWorkerConfig(cfg, RandomWorkerName)
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_ReadsWorkerAndRandomSections(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: zeebe:26500
workers:
  true-random-number:
    enabled: false
    max_jobs_active: 2
    timeout: 1500
apis:
  random_org:
    base_url: http://stub.local/integers/
    user_agent: test-agent
random:
  locale: pt-BR
  default_min: 1
  default_max: 6
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.False(t, IsWorkerEnabled(cfg, RandomWorkerName))
	assert.Equal(t, 2, cfg.Workers[RandomWorkerName].MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(cfg.Workers[RandomWorkerName].Timeout))
	assert.Equal(t, "http://stub.local/integers/", cfg.APIs.RandomOrg.BaseURL)
	assert.Equal(t, "test-agent", cfg.APIs.RandomOrg.UserAgent)
	assert.Equal(t, "pt-BR", cfg.Random.Locale)
	assert.Equal(t, 1.0, cfg.Random.DefaultMin)
	assert.Equal(t, 6.0, cfg.Random.DefaultMax)
}

func TestLoadFromFile_DefaultBoundsPerKey(t *testing.T) {
	tests := []struct {
		name    string
		random  string
		wantMin float64
		wantMax float64
	}{
		{"only min", "random:\n  default_min: 5\n", 5, 60},
		{"only max", "random:\n  default_max: 10\n", 0, 10},
		{"explicit zero range", "random:\n  default_min: 0\n  default_max: 0\n", 0, 0},
		{"neither", "", 0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "camunda:\n  broker_address: localhost:26500\n"+tt.random)

			cfg, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, cfg.Random.DefaultMin)
			assert.Equal(t, tt.wantMax, cfg.Random.DefaultMax)
		})
	}
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_REDIS_HOST", "redis.internal:6379")

	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
database:
  redis:
    address: ${TEST_REDIS_HOST}
journal:
  enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", cfg.Database.Redis.Address)
	assert.True(t, cfg.Journal.Enabled)
}

func TestLoadFromFile_BrokerFromEnvironment(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "env-zeebe:26500")

	path := writeConfig(t, `
logging:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name:   "missing broker",
			body:   "logging:\n  level: info\n",
			errMsg: "camunda.broker_address is required",
		},
		{
			name: "journal without redis",
			body: `
camunda:
  broker_address: localhost:26500
journal:
  enabled: true
`,
			errMsg: "database.redis.address is required",
		},
		{
			name: "inverted default bounds",
			body: `
camunda:
  broker_address: localhost:26500
random:
  default_min: 10
  default_max: 5
`,
			errMsg: "random.default_min must be <= random.default_max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZEEBE_ADDRESS", "")
			t.Setenv("REDIS_ADDRESS", "")

			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{}
	w := GetWorkerConfig(cfg, "unknown")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
}
