package mediator

import (
	"context"
	"reflect"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
)

// Sender is a thin facade over Mediator for requests.
type Sender struct{ m *Mediator }

// NewSender constructs a Sender over a Mediator.
func NewSender(m *Mediator) *Sender { return &Sender{m: m} }

// SendAs sends an untyped request using the underlying Mediator.
func (s *Sender) SendAs(ctx context.Context, req cbus.Request, response reflect.Type) (any, error) {
	return s.m.SendAs(ctx, req, response)
}

// SendVia is a typed helper to send requests via a Sender.
func SendVia[R any](ctx context.Context, s *Sender, req cbus.Request) (R, error) {
	return Send[R](ctx, s.m, req)
}

// Publisher is a thin facade over Mediator for notifications.
type Publisher struct{ m *Mediator }

// NewPublisher constructs a Publisher over a Mediator.
func NewPublisher(m *Mediator) *Publisher { return &Publisher{m: m} }

// Publish publishes a notification using the underlying Mediator.
func (p *Publisher) Publish(ctx context.Context, n cbus.Notification) error {
	return p.m.Publish(ctx, n)
}
