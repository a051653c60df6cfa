package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/sdprov/cmd/sdprov/handlers"
)

// Discover returns the command group listing block storage.
func Discover(g *handlers.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List iSCSI targets and LUNs or Fibre Channel LUNs",
	}

	cmd.AddCommand(discoverISCSI(g))
	cmd.AddCommand(discoverFC(g))

	return cmd
}

func discoverISCSI(g *handlers.Globals) *cobra.Command {
	var opts handlers.ISCSIDiscoverOptions

	cmd := &cobra.Command{
		Use:   "iscsi",
		Short: "List the targets of a portal, or the LUNs of a target",
		Long: `List the targets of an iSCSI portal, or the LUNs of one target.

Examples:
  # Targets of a portal
  sdprov discover iscsi --address 10.0.0.1

  # LUNs of a target on a multipath portal
  sdprov discover iscsi --address 10.0.0.1,10.0.1.1 --port 3260,3260 \
    --target iqn.2024-01.com.example:storage`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DiscoverISCSI(cmd.Context(), *g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Portal.Addresses, "address", "", "Portal IP addresses, comma separated")
	cmd.Flags().StringVar(&opts.Portal.Ports, "port", "", "Portal ports, comma separated (default 3260)")
	cmd.Flags().StringVar(&opts.Portal.User, "user", "", "CHAP user")
	cmd.Flags().StringVar(&opts.Portal.Password, "password", "", "CHAP password")
	cmd.Flags().StringVar(&opts.Target, "target", "", "List the LUNs of this target")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func discoverFC(g *handlers.Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "fc",
		Short: "List Fibre Channel LUNs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DiscoverFC(cmd.Context(), *g)
		},
	}
}
