package discovery

import (
	"fmt"
	"sort"

	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/storage"
)

const gib = 1 << 30

// LUN is a discovered logical unit.
type LUN struct {
	Index          int
	ID             string
	CapacityGiB    int64
	VendorID       string
	ProductID      string
	Status         string
	Paths          int
	DiscardMaxSize int64
}

// Discard reports whether the LUN supports discard after delete.
func (l LUN) Discard() bool {
	return l.DiscardMaxSize > 0
}

type rawLogicalUnit struct {
	Size           int64  `mapstructure:"size"`
	VendorID       string `mapstructure:"vendor_id"`
	ProductID      string `mapstructure:"product_id"`
	Status         string `mapstructure:"status"`
	Paths          int    `mapstructure:"paths"`
	DiscardMaxSize int64  `mapstructure:"discard_max_size"`
}

type rawStorage struct {
	ID           string           `mapstructure:"id"`
	LogicalUnits []rawLogicalUnit `mapstructure:"logical_units"`
}

// ParseLUNs reads the host storages under key, sorts them by id and indexes
// them from 1.
func ParseLUNs(result executor.Result, key string) ([]LUN, error) {
	entries := Extract(result, key, ListHostStorages)

	luns := make([]LUN, 0, len(entries))
	for i, entry := range entries {
		var raw rawStorage
		if err := executor.Decode(entry, &raw); err != nil {
			return nil, fmt.Errorf("lun entry %d: %w", i, err)
		}
		if len(raw.LogicalUnits) == 0 {
			return nil, fmt.Errorf("%w: lun entry %d (%s) has no logical units", storage.ErrIncompleteResult, i, raw.ID)
		}
		lu := raw.LogicalUnits[0]
		luns = append(luns, LUN{
			ID:             raw.ID,
			CapacityGiB:    lu.Size / gib,
			VendorID:       lu.VendorID,
			ProductID:      lu.ProductID,
			Status:         lu.Status,
			Paths:          lu.Paths,
			DiscardMaxSize: lu.DiscardMaxSize,
		})
	}

	if len(luns) == 0 {
		return nil, fmt.Errorf("%w: cannot find any LUN on the selected target", storage.ErrNoResourcesFound)
	}

	sort.SliceStable(luns, func(i, j int) bool { return luns[i].ID < luns[j].ID })
	for i := range luns {
		luns[i].Index = i + 1
	}
	return luns, nil
}
