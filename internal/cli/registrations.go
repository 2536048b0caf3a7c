package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	cbus "github.com/next-trace/scg-mediator/contract/bus"
	"github.com/next-trace/scg-mediator/registry"
)

func newRegistrationsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "registrations [prefix...]",
		Short: "List the handlers a scan would register",
		Long: `List the handlers discovered in modules whose name starts with one of the
given prefixes, or the configured scan prefixes when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefixes := a.cfg.Scan.Prefixes
			if len(args) > 0 {
				prefixes = args
			}

			// scanning never constructs handlers, so a placeholder sink lists
			// the relay the same way a connected one would
			var c *registry.Catalog
			if a.cfg.Relay.Driver == "none" {
				c = catalog(nil, a.cfg.Relay)
			} else {
				c = catalog(inmemory.New(), a.cfg.Relay)
			}

			s := registry.NewScanner(registry.WithCatalog(c), registry.WithLogger(a.log))

			reg, err := s.Scan(prefixes)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tMESSAGE\tRESPONSE\tHANDLER")

			for _, r := range reg.Registrations() {
				kind, resp := "request", cbus.TypeName(r.Key().Response)
				if r.IsNotification() {
					kind, resp = "notification", "-"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind, cbus.TypeName(r.Key().Message), resp, cbus.TypeName(r.Handler()))
			}

			return w.Flush()
		},
	}
}
