// Package cli implements the scg-mediator command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/next-trace/scg-mediator/internal/config"
	"github.com/next-trace/scg-mediator/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mediator",
		Short: "Inspect and exercise the in-process mediator",
		Long: `mediator scans the handler modules compiled into this binary and
dispatches requests and notifications through them.

Examples:
  mediator registrations
  mediator registrations examples.ping
  mediator demo --message hello`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"Path to config file (default ./mediator.yaml when present)")

	rootCmd.AddCommand(newRegistrationsCommand(a))
	rootCmd.AddCommand(newDemoCommand(a))

	return rootCmd
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.New(cfg.Logging, logOut)

	return nil
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
