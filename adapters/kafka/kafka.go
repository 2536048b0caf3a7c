package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

const topicPrefix = "notify."

// Writer is a minimal Kafka-like writer interface.
// Users can adapt franz-go (see NewWithKgo) or any other client to this.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements cbus.Sink using an injected Writer.
type Adapter struct {
	Writer Writer
}

var _ cbus.Sink = (*Adapter)(nil)

// New creates a new Kafka sink with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

// Forward writes n as a JSON record. The forward subject is the topic and the
// forward key is the record key.
func (a *Adapter) Forward(ctx context.Context, n cbus.Notification, opts cbus.ForwardOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka forward: no writer: %w", merr.ErrForwardFailed)
	}

	val, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("kafka forward serialize: %w", errors.Join(merr.ErrSerializationFailed, err))
	}

	var key []byte
	if opts.Key != "" {
		key = []byte(opts.Key)
	}

	topic := topicFor(n, opts)
	if err = a.Writer.Write(ctx, topic, key, val, copyHeaders(opts.Headers)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("kafka forward to %q: %w", topic, errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}

func topicFor(n any, o cbus.ForwardOptions) string {
	if o.Subject != "" {
		return o.Subject
	}

	return topicPrefix + cbus.ShortName(n)
}

func copyHeaders(in map[string]string) map[string]string {
	h := make(map[string]string, len(in))
	for k, v := range in {
		h[k] = v
	}

	return h
}
