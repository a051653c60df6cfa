package provisioning

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/sdprov/internal/discovery"
	"github.com/imamik/sdprov/internal/prompt"
)

// Query names used by the selection menus.
const (
	QueryISCSITarget = "iscsi_target"
	QueryLUN         = "lun"
)

// FormatTargets renders targets as an indexed menu.
func FormatTargets(targets []discovery.Target) string {
	var b strings.Builder
	for _, t := range targets {
		fmt.Fprintf(&b, "\t[%d]\t%s\n\t\tTPGT: %s, portals:\n", t.Index, t.Name, t.TPGT)
		for _, p := range t.Paths {
			fmt.Fprintf(&b, "\t\t\t%s:%s\n", p.Address, p.Port)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatLUNs renders LUNs as an indexed menu.
func FormatLUNs(luns []discovery.LUN) string {
	var b strings.Builder
	for _, l := range luns {
		fmt.Fprintf(&b, "\t[%d]\t%s\t%dGiB\t%s\t%s\n\t\tstatus: %s, paths: %d active\n\n",
			l.Index, l.ID, l.CapacityGiB, l.VendorID, l.ProductID, l.Status, l.Paths)
	}
	return b.String()
}

// SelectTarget shows the target menu and returns the chosen target.
func SelectTarget(ctx context.Context, p prompt.Prompter, targets []discovery.Target) (discovery.Target, error) {
	p.Note("The following targets have been found:\n" + FormatTargets(targets))
	return selectIndexed(ctx, p, prompt.Query{
		Name: QueryISCSITarget,
		Note: "Please select a target",
	}, targets, func(t discovery.Target) int { return t.Index })
}

// SelectLUN shows the LUN menu and returns the chosen LUN.
func SelectLUN(ctx context.Context, p prompt.Prompter, luns []discovery.LUN) (discovery.LUN, error) {
	p.Note("The following luns have been found on the requested target:\n" + FormatLUNs(luns))
	return selectIndexed(ctx, p, prompt.Query{
		Name: QueryLUN,
		Note: "Please select the destination LUN",
	}, luns, func(l discovery.LUN) int { return l.Index })
}

// selectIndexed asks for one of the indices of items, defaulting to the
// first, and returns the matching item. items is never modified.
func selectIndexed[T any](ctx context.Context, p prompt.Prompter, q prompt.Query, items []T, index func(T) int) (T, error) {
	var zero T

	valid := make([]string, len(items))
	for i, item := range items {
		valid[i] = strconv.Itoa(index(item))
	}
	def := "1"
	q.ValidValues = valid
	q.Default = &def
	q.CaseSensitive = true

	answer, err := p.QueryString(ctx, q)
	if err != nil {
		return zero, err
	}

	n, err := strconv.Atoi(answer)
	if err != nil {
		return zero, fmt.Errorf("%w for %s: %q is not an index", prompt.ErrInvalidAnswer, q.Name, answer)
	}
	for _, item := range items {
		if index(item) == n {
			return item, nil
		}
	}
	return zero, fmt.Errorf("%w for %s: no entry with index %d", prompt.ErrInvalidAnswer, q.Name, n)
}
