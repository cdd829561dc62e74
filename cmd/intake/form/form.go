package formcmder

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/PratikDhanave/lodging-intake-service/cmd/intake/serverflag"
)

const formLongDesc string = `Fill in an accommodation listing interactively.

Typing a complete postal code fills in the city, and typing a city
looks up its postal code. Cities with several postal codes offer a
selection list. The listing is reviewed before it is saved, and the
form is cleared after a successful save.

Examples:
  intake form
  intake form --server http://intake.internal:8080`

const formShortDesc string = "Interactive accommodation form"

type formCommander struct {
	server *serverflag.Flags
}

func NewFormCmd() *cobra.Command {
	cmder := &formCommander{}

	cmd := &cobra.Command{
		Use:   "form",
		Short: formShortDesc,
		Long:  formLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmder.server = serverflag.Add(cmd)
	return cmd
}

func (c *formCommander) run(ctx context.Context, cmd *cobra.Command) error {
	m := newModel(ctx, c.server.Client())
	defer m.debouncer.Stop()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("form failed: %w", err)
	}
	return nil
}
