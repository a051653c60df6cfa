package executor

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/imamik/sdprov/internal/storage"
)

// Tag selects the provisioning operation.
type Tag string

// Provisioning operations.
const (
	TagISCSIDiscover       Tag = "iscsi_discover"
	TagISCSIGetDevices     Tag = "iscsi_getdevices"
	TagFCGetDevices        Tag = "fc_getdevices"
	TagCreateStorageDomain Tag = "create_storage_domain"
	TagInitialClean        Tag = "initial_clean"
	TagFinalClean          Tag = "final_clean"
)

// ReturnCodeKey holds the engine exit code in every Result.
const ReturnCodeKey = "ansible-playbook_rc"

// Result is the untyped document returned by the engine, keyed by task name.
type Result map[string]any

// ReturnCode returns the engine exit code recorded in the result.
func (r Result) ReturnCode() (int, bool) {
	switch v := r[ReturnCodeKey].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

// Err returns ErrExecutorFailure when the result records a nonzero exit
// code for tag.
func (r Result) Err(tag Tag) error {
	if rc, ok := r.ReturnCode(); ok && rc != 0 {
		return fmt.Errorf("%w: %s exited with code %d", storage.ErrExecutorFailure, tag, rc)
	}
	return nil
}

// Executor runs one tagged operation and blocks until it finishes.
type Executor interface {
	Run(ctx context.Context, tag Tag, extraVars map[string]any, inventory string) (Result, error)
}

// Vars is the parameter bag handed to an operation.
type Vars map[string]any

// Merge returns a copy of v with every entry of other added, other winning.
func (v Vars) Merge(other Vars) Vars {
	out := make(Vars, len(v)+len(other))
	maps.Copy(out, v)
	maps.Copy(out, other)
	return out
}

// Redacted returns a copy safe for logging, with secret values masked.
func (v Vars) Redacted() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		if isSecretKey(k) && val != nil && val != "" {
			out[k] = "**FILTERED**"
			continue
		}
		out[k] = val
	}
	return out
}

func isSecretKey(k string) bool {
	return strings.HasSuffix(k, "password")
}

// String renders a tag for logs.
func (t Tag) String() string { return string(t) }

// InventoryFor returns the inventory source that includes the local host and
// the engine FQDN.
func InventoryFor(fqdn string) string {
	if fqdn == "" {
		return "localhost,"
	}
	return fmt.Sprintf("localhost,%s", fqdn)
}
