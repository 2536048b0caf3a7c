package cli

import (
	"fmt"
	"log/slog"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	"github.com/next-trace/scg-mediator/adapters/kafka"
	"github.com/next-trace/scg-mediator/adapters/nats"
	"github.com/next-trace/scg-mediator/adapters/rabbitmq"
	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/examples/orders"
	"github.com/next-trace/scg-mediator/internal/config"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/relay"
)

// relayModuleName names the module that forwards order notifications.
const relayModuleName = "relay.orders"

func noop() {}

// openSink builds the configured sink. A nil sink means relaying is off.
func openSink(cfg config.RelayConfig, log *slog.Logger) (cbus.Sink, func(), error) {
	switch cfg.Driver {
	case "none":
		return nil, noop, nil
	case "memory":
		return inmemory.New(), noop, nil
	case "nats":
		ad, cleanup, err := nats.NewWithNATS(nats.Config{URL: cfg.URL, Name: cfg.ClientID, Logger: log})
		if err != nil {
			return nil, nil, err
		}

		return ad, cleanup, nil
	case "kafka":
		ad, cleanup, err := kafka.NewWithKgo(kafka.Config{Brokers: cfg.Brokers, ClientID: cfg.ClientID})
		if err != nil {
			return nil, nil, err
		}

		return ad, cleanup, nil
	case "rabbitmq":
		ad, cleanup, err := rabbitmq.NewWithAMQPConn(rabbitmq.Config{URL: cfg.URL, Exchange: cfg.Exchange, Logger: log})
		if err != nil {
			return nil, nil, err
		}

		return ad, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("relay driver %q: %w", cfg.Driver, merr.ErrConfiguration)
	}
}

// relayModule declares a forwarder for order notifications.
func relayModule(sink cbus.Sink, cfg config.RelayConfig) registry.Module {
	var opts []relay.Option
	if cfg.Subject != "" {
		opts = append(opts, relay.WithSubject(cfg.Subject))
	}

	if cfg.RateLimit > 0 {
		opts = append(opts, relay.WithRateLimit(cfg.RateLimit, max(cfg.Burst, 1)))
	}

	return registry.NewModule(relayModuleName, relay.Notification[orders.Placed](sink, opts...))
}

// catalog returns the process catalog plus the relay module when a sink is set.
func catalog(sink cbus.Sink, cfg config.RelayConfig) *registry.Catalog {
	c := registry.NewCatalog(registry.Loaded().Modules()...)
	if sink != nil {
		c.Load(relayModule(sink, cfg))
	}

	return c
}
