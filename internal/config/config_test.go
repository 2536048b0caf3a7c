package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mediator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	d := config.Defaults()
	assert.Equal(t, d.Scan.Prefixes, cfg.Scan.Prefixes)
	assert.Equal(t, d.Logging, cfg.Logging)
	assert.Equal(t, d.Relay.Driver, cfg.Relay.Driver)
	assert.Equal(t, d.Relay.ClientID, cfg.Relay.ClientID)
	assert.Equal(t, d.Relay.Exchange, cfg.Relay.Exchange)
	assert.Empty(t, cfg.Relay.Brokers)
	assert.Empty(t, cfg.Relay.URL)
	assert.Zero(t, cfg.Relay.RateLimit)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
scan:
  prefixes: ["billing."]
logging:
  level: debug
  format: json
relay:
  driver: kafka
  brokers: ["k1:9092", "k2:9092"]
  rate_limit: 5
  burst: 2
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"billing."}, cfg.Scan.Prefixes)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "kafka", cfg.Relay.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Relay.Brokers)
	assert.InDelta(t, 5.0, cfg.Relay.RateLimit, 0.0001)
	assert.Equal(t, 2, cfg.Relay.Burst)
	assert.Equal(t, "scg-mediator", cfg.Relay.ClientID, "unset keys keep defaults")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\n")

	t.Setenv("MEDIATOR_LOGGING_LEVEL", "error")
	t.Setenv("MEDIATOR_RELAY_DRIVER", "nats")
	t.Setenv("MEDIATOR_RELAY_URL", "nats://localhost:4222")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "nats", cfg.Relay.Driver)
	assert.Equal(t, "nats://localhost:4222", cfg.Relay.URL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown level":    "logging:\n  level: loud\n",
		"unknown driver":   "relay:\n  driver: smoke\n",
		"nats without url": "relay:\n  driver: nats\n",
		"kafka no brokers": "relay:\n  driver: kafka\n",
		"empty prefix":     "scan:\n  prefixes: [\"\"]\n",
		"negative burst":   "relay:\n  burst: -1\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, body))
			require.Error(t, err)
			assert.ErrorIs(t, err, merr.ErrConfiguration)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
