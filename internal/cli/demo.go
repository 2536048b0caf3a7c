package cli

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	"github.com/next-trace/scg-mediator/container"
	"github.com/next-trace/scg-mediator/examples/orders"
	"github.com/next-trace/scg-mediator/examples/ping"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

func newDemoCommand(a *app) *cobra.Command {
	var (
		message string
		orderID int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Send a ping and publish an order through the scanned handlers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sink, cleanup, err := openSink(a.cfg.Relay, a.log)
			if err != nil {
				return err
			}
			defer cleanup()

			s := registry.NewScanner(registry.WithCatalog(catalog(sink, a.cfg.Relay)), registry.WithLogger(a.log))

			m, err := mediator.SetupWith(container.New(), s, []mediator.Option{
				mediator.WithLogger(a.log),
				mediator.WithRequestMiddleware(mediator.Logging(a.log)),
			}, a.cfg.Scan.Prefixes)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			res, err := mediator.Send[ping.Response](ctx, m, ping.Request{Message: message})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "send: %s\n", res.Reply)

			if err := m.Publish(ctx, orders.Placed{OrderID: orderID}); err != nil {
				return err
			}

			fmt.Fprintf(out, "publish: order %d handled by %d handler(s)\n",
				orderID, len(m.Registry().ResolveNotificationHandlers(reflect.TypeFor[orders.Placed]())))

			if mem, ok := sink.(*inmemory.Sink); ok {
				for _, f := range mem.Forwarded() {
					fmt.Fprintf(out, "forwarded: %s key=%s\n", f.Options.Subject, f.Options.Key)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "hello", "Ping message to send")
	cmd.Flags().IntVar(&orderID, "order", 1, "Order id to publish")

	return cmd
}
