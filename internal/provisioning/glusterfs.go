package provisioning

import (
	"context"

	"github.com/imamik/sdprov/internal/storage"
)

type glusterfsCollector struct{}

func (glusterfsCollector) Type() storage.DomainType { return storage.GlusterFS }

func (glusterfsCollector) Collect(ctx context.Context, s *session, cfg *storage.Config) (Location, error) {
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
	return Location{Address: conn.Address, Path: conn.Path}, nil
}
