package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sdprov/cmd/sdprov/handlers"
)

var build = handlers.BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersionInfo sets the version information from main.
func SetVersionInfo(v, c, d string) {
	build = handlers.BuildInfo{Version: v, Commit: c, Date: d}
}

// Version returns the command that prints the build and executor versions.
func Version(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the sdprov build information and the ansible-playbook binary that
provisioning would run, as configured in the settings file.`,
		Run: func(cmd *cobra.Command, _ []string) {
			handlers.Version(cmd.Context(), *g, build, cmd.OutOrStdout())
		},
	}
}
