// Package netutil provides parsing helpers for comma-separated address and
// port lists, as used by iSCSI portal configuration.
package netutil
