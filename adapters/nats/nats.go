package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

const (
	subjectPrefix = "notify."
	headerKey     = "key"
)

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter implements cbus.Sink using an injected NATS-like Client.
type Adapter struct {
	Client Client
}

var _ cbus.Sink = (*Adapter)(nil)

// New creates a new NATS sink with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

// Forward publishes n as JSON. The subject defaults to "notify.<Type>" and a
// non-empty key travels in the "key" header.
func (a *Adapter) Forward(ctx context.Context, n cbus.Notification, opts cbus.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats forward: no client: %w", merr.ErrForwardFailed)
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("nats forward serialize: %w", errors.Join(merr.ErrSerializationFailed, err))
	}

	if err := a.Client.Publish(subjectFor(n, opts), body, headersFor(opts)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats forward publish: %w", errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}

func subjectFor(n any, o cbus.ForwardOptions) string {
	if o.Subject != "" {
		return o.Subject
	}

	return subjectPrefix + cbus.ShortName(n)
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
