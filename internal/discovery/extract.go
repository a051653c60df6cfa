package discovery

import (
	"github.com/imamik/sdprov/internal/executor"
)

// Result keys and list keys written by the engine.
const (
	KeyISCSITargets = "otopi_iscsi_targets"
	KeyISCSIDevices = "otopi_iscsi_devices"
	KeyFCDevices    = "otopi_fc_devices"

	ListISCSITargets = "iscsi_targets_struct"
	ListHostStorages = "ovirt_host_storages"

	factsKey = "ansible_facts"
)

// Extract returns the list stored under result[key], either below its
// "ansible_facts" record or directly. It returns nil when neither nesting
// holds a list.
func Extract(result executor.Result, key, listKey string) []any {
	record, ok := result[key].(map[string]any)
	if !ok {
		return nil
	}
	if facts, ok := record[factsKey].(map[string]any); ok {
		if list, ok := facts[listKey].([]any); ok {
			return list
		}
	}
	if list, ok := record[listKey].([]any); ok {
		return list
	}
	return nil
}
