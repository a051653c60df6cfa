package provisioning

import (
	"context"
	"fmt"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/storage"
	"github.com/imamik/sdprov/internal/util/netutil"
	"github.com/imamik/sdprov/internal/util/ptr"
)

type iscsiCollector struct{}

func (iscsiCollector) Type() storage.DomainType { return storage.ISCSI }

// Collect gathers the portal, discovers and selects a target, then logs in
// and selects a LUN. The selected target's paths replace the portal list the
// operator typed.
func (iscsiCollector) Collect(ctx context.Context, s *session, cfg *storage.Config) (Location, error) {
	if err := s.fill(ctx, &cfg.ISCSIAddress, prompt.Query{
		Name:          QueryISCSIAddress,
		Note:          "Please specify the iSCSI portal IP address",
		CaseSensitive: true,
		Validate:      storage.ValidateIPList,
	}); err != nil {
		return Location{}, err
	}
	if err := s.fill(ctx, &cfg.ISCSIPort, prompt.Query{
		Name:          QueryISCSIPort,
		Note:          "Please specify the iSCSI portal port",
		Default:       ptr.String(storage.DefaultISCSIPort),
		CaseSensitive: true,
		Validate:      storage.ValidatePortList,
	}); err != nil {
		return Location{}, err
	}
	if err := fillCredentials(ctx, s, &cfg.ISCSIDiscoverUser, &cfg.ISCSIDiscoverPassword,
		QueryISCSIDiscoverUser, QueryISCSIDiscoverPassword, "discover"); err != nil {
		return Location{}, err
	}

	if cfg.ISCSITarget == "" {
		targets, err := s.discoverer.ISCSITargets(ctx, discovery.ISCSIPortal{
			Addresses: cfg.ISCSIAddress,
			Ports:     cfg.ISCSIPort,
			User:      ptr.Deref(cfg.ISCSIDiscoverUser, ""),
			Password:  ptr.Deref(cfg.ISCSIDiscoverPassword, ""),
		})
		if err != nil {
			return Location{}, fmt.Errorf("unable to get target list: %w", err)
		}
		target, err := SelectTarget(ctx, s.prompter, targets)
		if err != nil {
			return Location{}, err
		}
		cfg.ISCSITarget = target.Name
		cfg.ISCSITPGT = target.TPGT
		cfg.ISCSIAddress = target.Addresses()
		cfg.ISCSIPort = target.Ports()
	}

	if err := fillCredentials(ctx, s, &cfg.ISCSIUser, &cfg.ISCSIPassword,
		QueryISCSIUser, QueryISCSIPassword, "portal login"); err != nil {
		return Location{}, err
	}

	if cfg.LunID == "" {
		luns, err := s.discoverer.ISCSILUNs(ctx, discovery.ISCSIPortal{
			Addresses: cfg.ISCSIAddress,
			Ports:     cfg.ISCSIPort,
			User:      ptr.Deref(cfg.ISCSIUser, ""),
			Password:  ptr.Deref(cfg.ISCSIPassword, ""),
		}, cfg.ISCSITarget)
		if err != nil {
			return Location{}, fmt.Errorf("unable to get LUN list: %w", err)
		}
		lun, err := SelectLUN(ctx, s.prompter, luns)
		if err != nil {
			return Location{}, err
		}
		cfg.LunID = lun.ID
		cfg.Discard = lun.Discard()
		s.log.Infof("iSCSI discard after delete is %s", enabled(cfg.Discard))
	}

	var address string
	if addrs := netutil.SplitList(cfg.ISCSIAddress); len(addrs) > 0 {
		address = addrs[0]
	}
	return Location{Address: address}, nil
}

func fillCredentials(ctx context.Context, s *session, user, password **string, userQuery, passwordQuery, kind string) error {
	if err := s.fillOptional(ctx, user, prompt.Query{
		Name:          userQuery,
		Note:          fmt.Sprintf("Please specify the iSCSI %s user", kind),
		Default:       ptr.String(""),
		CaseSensitive: true,
		Validate:      storage.ValidateUsername,
	}); err != nil {
		return err
	}
	return s.fillOptional(ctx, password, prompt.Query{
		Name:          passwordQuery,
		Note:          fmt.Sprintf("Please specify the iSCSI %s password", kind),
		Default:       ptr.String(""),
		CaseSensitive: true,
		Hidden:        true,
		Validate:      storage.ValidatePassword,
	})
}
