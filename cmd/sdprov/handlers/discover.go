package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/provisioning"
	"github.com/imamik/sdprov/internal/storage"
)

// ISCSIDiscoverOptions holds the flags of the discover iscsi command.
type ISCSIDiscoverOptions struct {
	Portal discovery.ISCSIPortal
	// Target lists the LUNs of this target instead of the portal targets.
	Target string
}

// DiscoverISCSI prints the targets of a portal, or the LUNs of one target.
func DiscoverISCSI(ctx context.Context, g Globals, opts ISCSIDiscoverOptions) error {
	portal := opts.Portal
	if portal.Ports == "" {
		portal.Ports = storage.DefaultISCSIPort
	}
	if err := storage.ValidateIPList(portal.Addresses); err != nil {
		return fmt.Errorf("invalid portal address: %w", err)
	}
	if err := storage.ValidatePortList(portal.Ports); err != nil {
		return fmt.Errorf("invalid portal port: %w", err)
	}

	d, err := discoverer(ctx, g)
	if err != nil {
		return err
	}

	if opts.Target == "" {
		targets, err := d.ISCSITargets(ctx, portal)
		if err != nil {
			return fmt.Errorf("unable to get target list: %w", err)
		}
		fmt.Print(provisioning.FormatTargets(targets))
		return nil
	}

	luns, err := d.ISCSILUNs(ctx, portal, opts.Target)
	if err != nil {
		return fmt.Errorf("unable to get LUN list: %w", err)
	}
	fmt.Print(provisioning.FormatLUNs(luns))
	return nil
}

// DiscoverFC prints the Fibre Channel LUNs visible to the host.
func DiscoverFC(ctx context.Context, g Globals) error {
	d, err := discoverer(ctx, g)
	if err != nil {
		return err
	}

	luns, err := d.FCLUNs(ctx)
	if err != nil {
		return fmt.Errorf("unable to get LUN list: %w", err)
	}
	fmt.Print(provisioning.FormatLUNs(luns))
	return nil
}

func discoverer(ctx context.Context, g Globals) (provisioning.Discoverer, error) {
	log := g.logger()
	s, err := loadSettings(g)
	if err != nil {
		return nil, err
	}
	if err := requireExecutor(ctx, s); err != nil {
		return nil, err
	}
	return newDiscoverer(newExecutor(s, log), identityOf(s), log), nil
}
