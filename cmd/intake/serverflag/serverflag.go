// Package serverflag holds the flags shared by commands that call the API.
package serverflag

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/lodging-intake-service/internal/client"
)

// EnvServer overrides the default server URL.
const EnvServer = "INTAKE_SERVER"

type Flags struct {
	Server  string
	Timeout time.Duration
}

// Add registers --server and --timeout on cmd.
func Add(cmd *cobra.Command) *Flags {
	f := &Flags{}

	def := os.Getenv(EnvServer)
	if def == "" {
		def = client.DefaultBaseURL
	}
	cmd.Flags().StringVar(&f.Server, "server", def, "Base URL of the intake service (env "+EnvServer+")")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 10*time.Second, "Request timeout")
	return f
}

func (f *Flags) Client() *client.Client {
	return client.New(f.Server, f.Timeout)
}
