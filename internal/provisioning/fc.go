package provisioning

import (
	"context"
	"fmt"

	"github.com/imamik/sdprov/internal/storage"
)

type fcCollector struct{}

func (fcCollector) Type() storage.DomainType { return storage.FC }

func (fcCollector) Collect(ctx context.Context, s *session, cfg *storage.Config) (Location, error) {
	if cfg.LunID != "" {
		return Location{}, nil
	}
	luns, err := s.discoverer.FCLUNs(ctx)
	if err != nil {
		return Location{}, fmt.Errorf("unable to get LUN list: %w", err)
	}
	lun, err := SelectLUN(ctx, s.prompter, luns)
	if err != nil {
		return Location{}, err
	}
	cfg.LunID = lun.ID
	cfg.Discard = lun.Discard()
	s.log.Infof("FC discard after delete is %s", enabled(cfg.Discard))
	return Location{}, nil
}
