package provisioning

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/storage"
	"github.com/imamik/sdprov/internal/util/ptr"
)

// Query names, also the keys of the answer file.
const (
	QueryDomainType            = "storage_domain_type"
	QueryConnection            = "storage_domain_connection"
	QueryMountOptions          = "mount_options"
	QueryNFSVersion            = "nfs_version"
	QueryVFSType               = "vfs_type"
	QueryISCSIAddress          = "iscsi_portal_address"
	QueryISCSIPort             = "iscsi_portal_port"
	QueryISCSIDiscoverUser     = "iscsi_discover_user"
	QueryISCSIDiscoverPassword = "iscsi_discover_password"
	QueryISCSIUser             = "iscsi_user"
	QueryISCSIPassword         = "iscsi_password"
)

// Discoverer finds iSCSI targets and LUNs.
type Discoverer interface {
	ISCSITargets(ctx context.Context, portal discovery.ISCSIPortal) ([]discovery.Target, error)
	ISCSILUNs(ctx context.Context, portal discovery.ISCSIPortal, target string) ([]discovery.LUN, error)
	FCLUNs(ctx context.Context) ([]discovery.LUN, error)
}

// Location is where the executor should create the domain.
type Location struct {
	Address string
	Path    string
}

// Collector gathers the parameters of one backend into cfg. Fields already
// set in cfg are validated and never asked for again.
type Collector interface {
	Type() storage.DomainType
	Collect(ctx context.Context, s *session, cfg *storage.Config) (Location, error)
}

// collectors is the closed set of supported backends.
var collectors = byType(
	nfsCollector{},
	posixfsCollector{},
	glusterfsCollector{},
	iscsiCollector{},
	fcCollector{},
)

func byType(cs ...Collector) map[storage.DomainType]Collector {
	m := make(map[storage.DomainType]Collector, len(cs))
	for _, c := range cs {
		m[c.Type()] = c
	}
	return m
}

func collectorFor(t storage.DomainType) (Collector, error) {
	c, ok := collectors[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedBackend, t)
	}
	return c, nil
}

// session is what collectors use to reach the operator and the engine during
// one attempt.
type session struct {
	prompter   prompt.Prompter
	discoverer Discoverer
	log        logrus.FieldLogger
}

// fill asks q when *field is empty, otherwise checks the preset value against
// the same rules.
func (s *session) fill(ctx context.Context, field *string, q prompt.Query) error {
	if *field == "" {
		answer, err := s.prompter.QueryString(ctx, q)
		if err != nil {
			return err
		}
		*field = answer
		return nil
	}
	return checkPreset(*field, q)
}

// fillOptional is fill for fields where an empty answer is meaningful.
func (s *session) fillOptional(ctx context.Context, field **string, q prompt.Query) error {
	if *field == nil {
		answer, err := s.prompter.QueryString(ctx, q)
		if err != nil {
			return err
		}
		*field = ptr.String(answer)
		return nil
	}
	return checkPreset(**field, q)
}

func checkPreset(value string, q prompt.Query) error {
	if len(q.ValidValues) > 0 && !slices.Contains(q.ValidValues, value) {
		return fmt.Errorf("%w: %s %q is not one of %s",
			storage.ErrInvalidFormat, q.Name, value, strings.Join(q.ValidValues, ", "))
	}
	if q.Validate != nil {
		return q.Validate(value)
	}
	return nil
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func connectionQuery() prompt.Query {
	return prompt.Query{
		Name:          QueryConnection,
		Note:          "Please specify the full shared storage connection path to use (example: host:/path)",
		CaseSensitive: true,
		Validate: func(v string) error {
			_, err := storage.ValidateConnectionPath(v)
			return err
		},
	}
}

func mountOptionsQuery() prompt.Query {
	return prompt.Query{
		Name:          QueryMountOptions,
		Note:          "If needed, specify additional mount options for the connection to the storage domain (example: rsize=32768,wsize=32768)",
		CaseSensitive: true,
		Default:       ptr.String(""),
	}
}
