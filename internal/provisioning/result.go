package provisioning

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/storage"
	"github.com/imamik/sdprov/internal/util/netutil"
)

const (
	keyDomainDetails = "otopi_storage_domain_details"
	keyStorageDomain = "storagedomain"

	statusActive = "active"
	gib          = 1 << 30
)

// DomainDetails is the creation result as reported by the engine.
type DomainDetails struct {
	Status    string        `mapstructure:"status"`
	Available *int64        `mapstructure:"available"`
	Storage   DomainStorage `mapstructure:"storage"`
}

// DomainStorage is the storage record of a created domain.
type DomainStorage struct {
	Type        string      `mapstructure:"type"`
	Address     string      `mapstructure:"address"`
	Path        string      `mapstructure:"path"`
	NFSVersion  string      `mapstructure:"nfs_version"`
	VFSType     string      `mapstructure:"vfs_type"`
	VolumeGroup VolumeGroup `mapstructure:"volume_group"`
}

// VolumeGroup lists the logical units backing a block domain.
type VolumeGroup struct {
	LogicalUnits []LogicalUnit `mapstructure:"logical_units"`
}

// LogicalUnit is one connected path to a block domain LUN.
type LogicalUnit struct {
	ID      string `mapstructure:"id"`
	Address string `mapstructure:"address"`
	Port    string `mapstructure:"port"`
	Portal  string `mapstructure:"portal"`
	Target  string `mapstructure:"target"`
}

// InterpretResult extracts the domain details from a creation result. The
// domain counts as created only when the details are present, carry the
// available space and report status "active".
func InterpretResult(result executor.Result) (*DomainDetails, error) {
	record, ok := result[keyDomainDetails].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s missing", storage.ErrIncompleteResult, keyDomainDetails)
	}
	raw, ok := record[keyStorageDomain]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %s missing", storage.ErrIncompleteResult, keyStorageDomain)
	}

	var details DomainDetails
	if err := executor.Decode(raw, &details); err != nil {
		return nil, err
	}
	if details.Available == nil {
		return nil, fmt.Errorf("%w: available space missing", storage.ErrIncompleteResult)
	}
	if details.Status != statusActive {
		return nil, fmt.Errorf("%w: status %q", storage.ErrNotActive, details.Status)
	}
	if _, err := details.DomainType(); err != nil {
		return nil, err
	}
	return &details, nil
}

// DomainType maps the reported storage type to a backend. The engine calls
// Fibre Channel "fcp".
func (d *DomainDetails) DomainType() (storage.DomainType, error) {
	t := storage.DomainType(d.Storage.Type)
	if t == "fcp" {
		t = storage.FC
	}
	if t == "" {
		return "", fmt.Errorf("%w: storage type missing", storage.ErrIncompleteResult)
	}
	if _, ok := collectors[t]; !ok {
		return "", fmt.Errorf("%w: unknown storage type %q", storage.ErrIncompleteResult, d.Storage.Type)
	}
	return t, nil
}

// Canonicalize overwrites the backend fields of cfg with the values the
// engine reports for the created domain.
func Canonicalize(cfg *storage.Config, details *DomainDetails, loc Location, log logrus.FieldLogger) error {
	st := details.Storage

	domainType, err := details.DomainType()
	if err != nil {
		return err
	}
	cfg.DomainType = domainType
	cfg.DeviceSizeGiB = float64(*details.Available) / gib

	switch domainType {
	case storage.NFS:
		cfg.Connection = bracketIPv6(st.Address) + ":" + st.Path
		cfg.NFSVersion = st.NFSVersion
	case storage.POSIXFS:
		cfg.Connection = loc.Path
		cfg.VFSType = st.VFSType
	case storage.GlusterFS:
		cfg.Connection = st.Address + ":" + st.Path
	case storage.ISCSI:
		units := st.VolumeGroup.LogicalUnits
		if len(units) == 0 {
			return fmt.Errorf("%w: iSCSI domain without logical units", storage.ErrIncompleteResult)
		}
		log.Infof("iSCSI connected paths: %d", len(units))

		tpgt, err := discovery.PortalGroupTag(units[0].Portal)
		if err != nil {
			return err
		}
		addresses := make([]string, 0, len(units))
		ports := make([]string, 0, len(units))
		for _, u := range units {
			addresses = append(addresses, u.Address)
			ports = append(ports, u.Port)
		}

		cfg.ISCSITPGT = tpgt
		cfg.ISCSIAddress = netutil.JoinList(addresses)
		cfg.Connection = cfg.ISCSIAddress
		cfg.ISCSIPort = netutil.JoinList(ports)
		cfg.ISCSITarget = units[0].Target
		cfg.LunID = units[0].ID
	}
	return nil
}

func bracketIPv6(address string) string {
	if strings.Contains(address, ":") && !strings.HasPrefix(address, "[") {
		return "[" + address + "]"
	}
	return address
}
