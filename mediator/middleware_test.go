package mediator_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

func Test_RequestMiddleware_OrderAndWrapping(t *testing.T) {
	m, _ := build(t, registry.Request[pingRequest, pongResponse](func() pingHandler { return pingHandler{} }))

	calls := []string{}
	mw1 := func(next mediator.RequestFunc) mediator.RequestFunc {
		return func(ctx context.Context, req cbus.Request) (any, error) {
			calls = append(calls, "mw1-before")
			res, err := next(ctx, req)

			calls = append(calls, "mw1-after")

			return res, err
		}
	}
	mw2 := func(next mediator.RequestFunc) mediator.RequestFunc {
		return func(ctx context.Context, req cbus.Request) (any, error) {
			calls = append(calls, "mw2-before")
			res, err := next(ctx, req)

			calls = append(calls, "mw2-after")

			return res, err
		}
	}

	// Registration order matters
	mediator.WithRequestMiddleware(mw1, mw2)(m)

	res, err := mediator.Send[pongResponse](t.Context(), m, pingRequest{Msg: "1"})
	if err != nil || res.Reply != "pong: 1" {
		t.Fatalf("send with mw: %v res=%+v", err, res)
	}

	want := []string{"mw1-before", "mw2-before", "mw2-after", "mw1-after"}
	if len(calls) != len(want) {
		t.Fatalf("calls len=%d want=%d", len(calls), len(want))
	}

	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("order mismatch at %d: %s != %s", i, calls[i], want[i])
		}
	}

	// a miss never reaches middleware
	calls = calls[:0]

	if _, err := mediator.Send[string](t.Context(), m, pingRequest{}); !errors.Is(err, merr.ErrHandlerNotFound) {
		t.Fatalf("want ErrHandlerNotFound, got %v", err)
	}

	if len(calls) != 0 {
		t.Fatalf("middleware ran on a miss: %v", calls)
	}
}

func Test_RequestMiddleware_ResultTypeMismatch(t *testing.T) {
	m, _ := build(t, registry.Request[pingRequest, pongResponse](func() pingHandler { return pingHandler{} }))

	mediator.WithRequestMiddleware(func(next mediator.RequestFunc) mediator.RequestFunc {
		return func(ctx context.Context, req cbus.Request) (any, error) { return 42, nil }
	})(m)

	if _, err := mediator.Send[pongResponse](t.Context(), m, pingRequest{}); !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch, got %v", err)
	}
}

func Test_Sender_Publisher_Facades(t *testing.T) {
	rec := &recorder{}
	regs := append(orderHandlers(rec, nil),
		registry.Request[pingRequest, pongResponse](func() pingHandler { return pingHandler{} }))
	m, _ := build(t, regs...)

	s := mediator.NewSender(m)

	r, err := mediator.SendVia[pongResponse](t.Context(), s, pingRequest{Msg: "g"})
	if err != nil || r.Reply != "pong: g" {
		t.Fatalf("send via: %v r=%+v", err, r)
	}

	p := mediator.NewPublisher(m)
	if err := p.Publish(t.Context(), orderPlaced{OrderID: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(rec.calls) != 3 {
		t.Fatalf("calls=%v", rec.calls)
	}
}

func Test_LoggingMiddleware_And_WithLogger(t *testing.T) {
	var buf bytes.Buffer

	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rec := &recorder{}
	regs := append(orderHandlers(rec, errors.New("email down")),
		registry.Request[pingRequest, pongResponse](func() pingHandler { return pingHandler{} }))
	m, _ := build(t, regs...)

	mediator.WithLogger(l)(m)
	mediator.WithRequestMiddleware(mediator.Logging(l))(m)

	if _, err := mediator.Send[pongResponse](t.Context(), m, pingRequest{Msg: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := m.Publish(t.Context(), orderPlaced{OrderID: 2}); err == nil {
		t.Fatalf("expected publish failure")
	}

	out := buf.String()
	for _, want := range []string{"Request handled.", "request=pingRequest", "Publishing notification.", "Notification handler failed."} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
}
