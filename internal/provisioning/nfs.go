package provisioning

import (
	"context"

	"github.com/imamik/sdprov/internal/prompt"
	"github.com/imamik/sdprov/internal/storage"
	"github.com/imamik/sdprov/internal/util/ptr"
)

type nfsCollector struct{}

func (nfsCollector) Type() storage.DomainType { return storage.NFS }

func (nfsCollector) Collect(ctx context.Context, s *session, cfg *storage.Config) (Location, error) {
	if err := s.fill(ctx, &cfg.Connection, connectionQuery()); err != nil {
		return Location{}, err
	}
	conn, err := storage.ValidateConnectionPath(cfg.Connection)
	if err != nil {
		return Location{}, err
	}
	if err := s.fillOptional(ctx, &cfg.MountOptions, mountOptionsQuery()); err != nil {
		return Location{}, err
	}
	if err := s.fill(ctx, &cfg.NFSVersion, prompt.Query{
		Name:          QueryNFSVersion,
		Note:          "Please specify the nfs version you would like to use",
		ValidValues:   storage.NFSVersions,
		Default:       ptr.String(storage.DefaultNFSVersion),
		CaseSensitive: true,
	}); err != nil {
		return Location{}, err
	}
	return Location{Address: conn.Address, Path: conn.Path}, nil
}
