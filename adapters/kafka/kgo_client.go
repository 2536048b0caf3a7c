package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sort"

	"github.com/twmb/franz-go/pkg/kgo"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Config describes a franz-go producer for the sink.
type Config struct {
	Brokers  []string
	ClientID string
	TLS      *tls.Config
	// LeaderAck waits for the partition leader only. It disables idempotent
	// writes, which require acks from all in-sync replicas.
	LeaderAck bool
}

type kgoWriter struct{ cl *kgo.Client }

func (w kgoWriter) Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	return w.cl.ProduceSync(ctx, record(topic, key, value, headers)).FirstErr()
}

// record builds a franz-go record with headers in key order.
func record(topic string, key, value []byte, headers map[string]string) *kgo.Record {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if len(headers) == 0 {
		return rec
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	rec.Headers = make([]kgo.RecordHeader, 0, len(keys))
	for _, k := range keys {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(headers[k])})
	}

	return rec
}

func (c Config) options() ([]kgo.Opt, error) {
	if len(c.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: brokers required: %w", merr.ErrConfiguration)
	}

	opts := []kgo.Opt{kgo.SeedBrokers(c.Brokers...)}
	if c.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.ClientID))
	}

	if c.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(c.TLS))
	}

	if c.LeaderAck {
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	} else {
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	}

	return opts, nil
}

// NewWithKgo builds a franz-go backed sink. The returned cleanup closes the client.
func NewWithKgo(cfg Config) (*Adapter, func(), error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, nil, err
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka client init: %w", errors.Join(merr.ErrForwardFailed, err))
	}

	return New(kgoWriter{cl: cl}), cl.Close, nil
}
