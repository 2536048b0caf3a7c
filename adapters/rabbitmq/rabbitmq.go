package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

const (
	// DefaultExchange receives forwards when no exchange is configured.
	DefaultExchange = "mediator.notifications"

	routingPrefix   = "notify."
	headerKey       = "key"
	headerMessageID = "x-message-id"
)

// PubMsg is a single AMQP publishing.
type PubMsg struct {
	Exchange   string
	RoutingKey string
	MessageID  string
	Body       []byte
	Headers    map[string]string
}

// Publisher sends a PubMsg to the broker.
type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

// Adapter implements cbus.Sink on top of a Publisher.
type Adapter struct {
	Publisher Publisher
	Exchange  string
}

var _ cbus.Sink = (*Adapter)(nil)

// New returns a sink publishing to DefaultExchange.
func New(p Publisher) *Adapter { return &Adapter{Publisher: p, Exchange: DefaultExchange} }

// NewWithExchange returns a sink publishing to exchange.
func NewWithExchange(p Publisher, exchange string) *Adapter {
	return &Adapter{Publisher: p, Exchange: exchange}
}

// Forward publishes n as JSON with the forward subject as routing key.
func (a *Adapter) Forward(ctx context.Context, n cbus.Notification, opts cbus.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq forward: no publisher: %w", merr.ErrForwardFailed)
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("rabbitmq forward serialize: %w", errors.Join(merr.ErrSerializationFailed, err))
	}

	msg := PubMsg{
		Exchange:   a.Exchange,
		RoutingKey: routingFor(n, opts),
		Body:       body,
		Headers:    headersFor(opts),
	}
	msg.MessageID = msg.Headers[headerMessageID]

	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq forward publish: %w", errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}

func routingFor(n any, o cbus.ForwardOptions) string {
	if o.Subject != "" {
		return o.Subject
	}

	return routingPrefix + cbus.ShortName(n)
}

func headersFor(o cbus.ForwardOptions) map[string]string {
	h := make(map[string]string, len(o.Headers)+1)
	for k, v := range o.Headers {
		h[k] = v
	}

	if o.Key != "" {
		h[headerKey] = o.Key
	}

	return h
}

func publishing(m PubMsg) amqp.Publishing {
	var h amqp.Table
	if len(m.Headers) > 0 {
		h = amqp.Table{}
		for k, v := range m.Headers {
			h[k] = v
		}
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		MessageId:    m.MessageID,
		Headers:      h,
		ContentType:  "application/json",
		Body:         m.Body,
	}
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(ctx, m.Exchange, m.RoutingKey, false, false, publishing(m))
}

// NewWithAMQPChannel returns a sink over an existing channel. The exchange
// must already exist.
func NewWithAMQPChannel(ch *amqp.Channel, exchange string) *Adapter {
	return NewWithExchange(amqpChannelPublisher{ch: ch}, exchange)
}
