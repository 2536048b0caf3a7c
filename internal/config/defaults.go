package config

import "github.com/spf13/viper"

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Scan: ScanConfig{Prefixes: []string{"examples.", "relay."}},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Relay: RelayConfig{
			Driver:   "memory",
			ClientID: "scg-mediator",
			Exchange: "mediator.notifications",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("scan.prefixes", d.Scan.Prefixes)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("relay.driver", d.Relay.Driver)
	v.SetDefault("relay.subject", d.Relay.Subject)
	v.SetDefault("relay.url", d.Relay.URL)
	v.SetDefault("relay.brokers", []string{})
	v.SetDefault("relay.client_id", d.Relay.ClientID)
	v.SetDefault("relay.exchange", d.Relay.Exchange)
	v.SetDefault("relay.rate_limit", d.Relay.RateLimit)
	v.SetDefault("relay.burst", d.Relay.Burst)
}
