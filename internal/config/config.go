package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MEDIATOR_RELAY_DRIVER.
const EnvPrefix = "MEDIATOR"

// Config is the CLI configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Logging LoggingConfig `mapstructure:"logging"`
	Relay   RelayConfig   `mapstructure:"relay"`
}

// ScanConfig selects the modules the CLI scans.
type ScanConfig struct {
	// Module name prefixes. Empty prefixes are rejected.
	Prefixes []string `mapstructure:"prefixes" validate:"dive,required"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// RelayConfig selects the sink that relayed notifications are forwarded to.
type RelayConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=none memory nats kafka rabbitmq"`

	// Subject overrides the subject of every relayed notification.
	Subject string `mapstructure:"subject"`

	URL string `mapstructure:"url" validate:"required_if=Driver nats,required_if=Driver rabbitmq"`

	// Kafka seed brokers, required by the kafka driver.
	Brokers  []string `mapstructure:"brokers" validate:"dive,required"`
	ClientID string   `mapstructure:"client_id"`
	Exchange string   `mapstructure:"exchange"`

	// Forwards per second; zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	Burst     int     `mapstructure:"burst" validate:"gte=0"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (configPath, or an optional mediator.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("mediator")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// env overrides are only seen for keys viper knows about
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
