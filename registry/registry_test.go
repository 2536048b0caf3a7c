package registry_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/next-trace/scg-mediator/container"
	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/registry"
)

type pingReq struct{ N int }

type pongRes struct{ N int }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, q pingReq) (pongRes, error) {
	return pongRes{N: q.N}, nil
}

type otherPingHandler struct{}

func (otherPingHandler) Handle(ctx context.Context, q pingReq) (pongRes, error) {
	return pongRes{N: -q.N}, nil
}

type placed struct{ ID int }

type shipped struct{ ID int }

type auditor struct{ seen *[]string }

func (a auditor) Handle(ctx context.Context, n placed) error {
	*a.seen = append(*a.seen, "audit")
	return nil
}

// notifier handles two notification types through different methods.
type notifier struct{}

func (*notifier) OnPlaced(ctx context.Context, n placed) error   { return nil }
func (*notifier) OnShipped(ctx context.Context, n shipped) error { return nil }

func newPing() pingHandler { return pingHandler{} }

func Test_New_And_Resolve(t *testing.T) {
	var seen []string

	reg, err := registry.New(
		registry.Request[pingReq, pongRes](newPing),
		registry.Notification[placed](func() auditor { return auditor{seen: &seen} }),
		registry.NotificationVia[placed](func() *notifier { return &notifier{} }, (*notifier).OnPlaced),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if reg.Len() != 3 {
		t.Fatalf("len=%d", reg.Len())
	}

	r, err := reg.ResolveRequestHandler(reflect.TypeFor[pingReq](), reflect.TypeFor[pongRes]())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if r.Handler() != reflect.TypeFor[pingHandler]() {
		t.Fatalf("handler=%v", r.Handler())
	}

	if r.IsNotification() {
		t.Fatalf("request registration reported as notification")
	}

	// a different response type is a different key
	_, err = reg.ResolveRequestHandler(reflect.TypeFor[pingReq](), reflect.TypeFor[string]())
	if !errors.Is(err, merr.ErrHandlerNotFound) {
		t.Fatalf("want ErrHandlerNotFound, got %v", err)
	}

	subs := reg.ResolveNotificationHandlers(reflect.TypeFor[placed]())
	if len(subs) != 2 {
		t.Fatalf("subs=%d", len(subs))
	}

	if subs[0].Handler() != reflect.TypeFor[auditor]() || subs[1].Handler() != reflect.TypeFor[*notifier]() {
		t.Fatalf("order mismatch: %v, %v", subs[0], subs[1])
	}

	if got := reg.ResolveNotificationHandlers(reflect.TypeFor[shipped]()); len(got) != 0 {
		t.Fatalf("want no subscribers, got %d", len(got))
	}
}

func Test_ResolveNotificationHandlers_ReturnsCopy(t *testing.T) {
	reg, err := registry.New(
		registry.NotificationVia[placed](func() *notifier { return &notifier{} }, (*notifier).OnPlaced),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	subs := reg.ResolveNotificationHandlers(reflect.TypeFor[placed]())
	subs[0] = registry.Registration{}

	again := reg.ResolveNotificationHandlers(reflect.TypeFor[placed]())
	if again[0].Handler() != reflect.TypeFor[*notifier]() {
		t.Fatalf("registry mutated through returned slice")
	}
}

func Test_New_RejectsDuplicateRequestHandler(t *testing.T) {
	_, err := registry.New(
		registry.Request[pingReq, pongRes](newPing),
		registry.Request[pingReq, pongRes](func() otherPingHandler { return otherPingHandler{} }),
	)
	if !errors.Is(err, merr.ErrHandlerExists) {
		t.Fatalf("want ErrHandlerExists, got %v", err)
	}
}

func Test_New_RejectsAbstract(t *testing.T) {
	_, err := registry.New(registry.Request[pingReq, pongRes, pingHandler](nil))
	if !errors.Is(err, merr.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}

	// interface-typed handler cannot be instantiated either
	_, err = registry.New(registry.Request[pingReq, pongRes](func() cbus.RequestHandler[pingReq, pongRes] {
		return pingHandler{}
	}))
	if !errors.Is(err, merr.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration for interface handler, got %v", err)
	}
}

func Test_Invoke_TypeMismatch(t *testing.T) {
	r := registry.Request[pingReq, pongRes](newPing)

	if _, err := r.Invoke(t.Context(), otherPingHandler{}, pingReq{}); !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch for handler, got %v", err)
	}

	if _, err := r.Invoke(t.Context(), pingHandler{}, placed{}); !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch for message, got %v", err)
	}

	res, err := r.Invoke(t.Context(), pingHandler{}, pingReq{N: 4})
	if err != nil || res.(pongRes).N != 4 {
		t.Fatalf("invoke: %v res=%v", err, res)
	}
}

func Test_Install(t *testing.T) {
	reg, err := registry.New(
		registry.Request[pingReq, pongRes](newPing),
		registry.NotificationVia[placed](func() *notifier { return &notifier{} }, (*notifier).OnPlaced),
		registry.NotificationVia[shipped](func() *notifier { return &notifier{} }, (*notifier).OnShipped),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	c := container.New()
	if err := reg.Install(c); err != nil {
		t.Fatalf("install: %v", err)
	}

	if _, err := c.Resolve(t.Context(), cbus.KeyFor[pingReq, pongRes]()); err != nil {
		t.Fatalf("resolve request handler: %v", err)
	}

	for _, key := range []cbus.Key{cbus.NotificationKey[placed](), cbus.NotificationKey[shipped]()} {
		got, err := c.ResolveAll(t.Context(), key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}

		if len(got) != 1 {
			t.Fatalf("%s instances=%d", key, len(got))
		}

		if _, ok := got[0].(*notifier); !ok {
			t.Fatalf("%s instance=%T", key, got[0])
		}
	}
}
