package netutil

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// SplitList splits a comma-separated list and trims surrounding blanks from
// every token. Empty input yields a single empty token so callers reject it.
func SplitList(csv string) []string {
	parts := strings.Split(csv, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// ParseIP parses an IPv4 or IPv6 literal. Zones and brackets are rejected.
func ParseIP(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if addr.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("zoned address %q not allowed", s)
	}
	return addr, nil
}

// BadIPs returns every token of csv that is not an IP literal, in order.
func BadIPs(csv string) []string {
	var bad []string
	for _, tok := range SplitList(csv) {
		if _, err := ParseIP(tok); err != nil {
			bad = append(bad, tok)
		}
	}
	return bad
}

// ParsePort parses a TCP port in the range 1-65535.
func ParsePort(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("port %q is not a number", s)
	}
	if p <= 0 || p >= 65536 {
		return 0, fmt.Errorf("port %d out of range", p)
	}
	return p, nil
}

// ParsePortList parses every token of csv with ParsePort and stops at the
// first failure.
func ParsePortList(csv string) ([]int, error) {
	tokens := SplitList(csv)
	ports := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		p, err := ParsePort(tok)
		if err != nil {
			return nil, err
		}
		ports = append(ports, p)
	}
	return ports, nil
}
