package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sdprov/cmd/sdprov/handlers"
)

// Cleanup returns the command removing temporary resources of an
// interrupted run.
func Cleanup(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove temporary resources left by an interrupted run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cleanup(cmd.Context(), *g)
		},
	}
}
