package provisioning

import (
	"context"

	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/storage"
	"github.com/imamik/sdprov/internal/util/ptr"
)

type posixfsCollector struct{}

func (posixfsCollector) Type() storage.DomainType { return storage.POSIXFS }

// Collect validates the connection but mounts it verbatim; the path is not
// split from the host.
func (posixfsCollector) Collect(ctx context.Context, s *session, cfg *storage.Config) (Location, error) {
	if err := s.fill(ctx, &cfg.Connection, connectionQuery()); err != nil {
		return Location{}, err
	}
	if _, err := storage.ValidateConnectionPath(cfg.Connection); err != nil {
		return Location{}, err
	}
	if err := s.fillOptional(ctx, &cfg.MountOptions, mountOptionsQuery()); err != nil {
		return Location{}, err
	}
	if err := s.fill(ctx, &cfg.VFSType, prompt.Query{
		Name:          QueryVFSType,
		Note:          "Please specify the vfs type you would like to use",
		ValidValues:   storage.VFSTypes,
		Default:       ptr.String(storage.DefaultVFSType),
		CaseSensitive: true,
	}); err != nil {
		return Location{}, err
	}
	return Location{Path: cfg.Connection}, nil
}
