package discovery

import (
	"fmt"
	"strings"

	"github.com/imamik/sdprov/internal/executor"
	"github.com/imamik/sdprov/internal/storage"
	"github.com/imamik/sdprov/internal/util/netutil"
)

// Path is one network path to an iSCSI target.
type Path struct {
	Address string
	Port    string
}

// Target is a discovered iSCSI target with its portal group.
type Target struct {
	Index int
	Name  string
	TPGT  string
	Paths []Path
}

// Addresses returns the path addresses as a comma separated list.
func (t Target) Addresses() string {
	out := make([]string, 0, len(t.Paths))
	for _, p := range t.Paths {
		out = append(out, p.Address)
	}
	return netutil.JoinList(out)
}

// Ports returns the path ports as a comma separated list.
func (t Target) Ports() string {
	out := make([]string, 0, len(t.Paths))
	for _, p := range t.Paths {
		out = append(out, p.Port)
	}
	return netutil.JoinList(out)
}

type rawTarget struct {
	Target  string `mapstructure:"target"`
	Portal  string `mapstructure:"portal"`
	Address string `mapstructure:"address"`
	Port    string `mapstructure:"port"`
}

// PortalGroupTag returns the second comma separated field of a raw portal
// such as "10.0.0.1:3260,1".
func PortalGroupTag(portal string) (string, error) {
	fields := strings.Split(portal, ",")
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: portal %q has no portal group tag", storage.ErrIncompleteResult, portal)
	}
	return fields[1], nil
}

// ParseTargets groups raw discovery entries by target name and portal group
// tag. Groups keep encounter order and are indexed from 1.
func ParseTargets(result executor.Result) ([]Target, error) {
	entries := Extract(result, KeyISCSITargets, ListISCSITargets)

	type groupKey struct{ name, tpgt string }
	var targets []Target
	index := map[groupKey]int{}

	for i, entry := range entries {
		var raw rawTarget
		if err := executor.Decode(entry, &raw); err != nil {
			return nil, fmt.Errorf("target entry %d: %w", i, err)
		}
		tpgt, err := PortalGroupTag(raw.Portal)
		if err != nil {
			return nil, fmt.Errorf("target entry %d: %w", i, err)
		}

		key := groupKey{raw.Target, tpgt}
		pos, ok := index[key]
		if !ok {
			pos = len(targets)
			index[key] = pos
			targets = append(targets, Target{Index: pos + 1, Name: raw.Target, TPGT: tpgt})
		}
		targets[pos].Paths = append(targets[pos].Paths, Path{Address: raw.Address, Port: raw.Port})
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: unable to find any target", storage.ErrNoResourcesFound)
	}
	return targets, nil
}
