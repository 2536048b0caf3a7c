package memory_test

import (
	"context"
	"reflect"
	"testing"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	"github.com/next-trace/scg-mediator/examples/orders"
	"github.com/next-trace/scg-mediator/examples/ping"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/memory"
)

func TestNew_ExplicitModules_PingAndOrders(t *testing.T) {
	j := orders.NewJournal()

	m, err := memory.New(ping.Module, orders.NewModule(j))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res, err := mediator.Send[ping.Response](t.Context(), m, ping.Request{Message: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if res.Reply != "pong: hello" {
		t.Fatalf("reply=%q", res.Reply)
	}

	if err := m.Publish(t.Context(), orders.Placed{OrderID: 42}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	want := []string{"audit 42", "email 42"}
	if got := j.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("journal=%v want=%v", got, want)
	}
}

func TestNew_DiscoversLoadedExampleModules(t *testing.T) {
	m, err := memory.New("examples.")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if m.Registry().Len() != 3 {
		t.Fatalf("registrations=%d", m.Registry().Len())
	}

	before := len(orders.Default.Entries())

	if err := m.Publish(t.Context(), orders.Placed{OrderID: 7}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got := orders.Default.Entries()[before:]; !reflect.DeepEqual(got, []string{"audit 7", "email 7"}) {
		t.Fatalf("journal=%v", got)
	}
}

func TestNew_ExplicitModuleExcludesLoadedOnes(t *testing.T) {
	m, err := memory.New(ping.Module)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	before := len(orders.Default.Entries())

	if err := m.Publish(t.Context(), orders.Placed{OrderID: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(orders.Default.Entries()) != before {
		t.Fatalf("orders module ran although it was not selected")
	}
}

func TestNewWith_DistinctModulesSharingAName(t *testing.T) {
	j1, j2 := orders.NewJournal(), orders.NewJournal()

	var sent int

	count := func(next mediator.RequestFunc) mediator.RequestFunc {
		return func(ctx context.Context, req cbus.Request) (any, error) {
			sent++
			return next(ctx, req)
		}
	}

	m, err := memory.NewWith([]mediator.Option{mediator.WithRequestMiddleware(count)},
		ping.Module, orders.NewModule(j1), orders.NewModule(j2))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := mediator.Send[ping.Response](t.Context(), m, ping.Request{Message: "x"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if sent != 1 {
		t.Fatalf("middleware ran %d times", sent)
	}

	if err := m.Publish(t.Context(), orders.Placed{OrderID: 5}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	want := []string{"audit 5", "email 5"}
	for i, j := range []*orders.Journal{j1, j2} {
		if got := j.Entries(); !reflect.DeepEqual(got, want) {
			t.Fatalf("journal %d=%v want=%v", i+1, got, want)
		}
	}
}
