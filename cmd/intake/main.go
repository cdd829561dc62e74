// Command intake looks up addresses and submits accommodation listings to
// the intake API.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	formcmder "github.com/PratikDhanave/lodging-intake-service/cmd/intake/form"
	lookupcmder "github.com/PratikDhanave/lodging-intake-service/cmd/intake/lookup"
	submitcmder "github.com/PratikDhanave/lodging-intake-service/cmd/intake/submit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Accommodation intake client",
		Long: `Look up postal codes and cities, and submit accommodation listings
to a running intake service.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(lookupcmder.NewLookupCmd())
	cmd.AddCommand(submitcmder.NewSubmitCmd())
	cmd.AddCommand(formcmder.NewFormCmd())
	return cmd
}
