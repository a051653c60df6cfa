package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sdprov/cmd/sdprov/handlers"
)

// Doctor returns the command checking settings and host tools.
func Doctor(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check settings and host tools",
		Long: `Check that a provision run can start.

Validates the settings file, checks that the playbook exists and looks up
ansible-playbook plus the optional storage diagnostic tools.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), *g)
		},
	}
}
