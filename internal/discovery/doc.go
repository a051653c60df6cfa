// Package discovery turns raw executor results into iSCSI targets and LUNs.
//
// The engine has returned discovery lists in two nestings over time: below an
// "ansible_facts" record under the task key, or directly under the task key.
// Extract accepts both so the grouping and sorting code never sees the
// difference.
package discovery
