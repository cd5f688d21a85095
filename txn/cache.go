package txn

import (
	"context"
	"strings"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/types"
)

// targetEntry is the resolved declaration of one move-call target.
// Immutable once cached.
type targetEntry struct {
	pkg      types.Address
	module   string
	function string
	meta     types.FunctionMetadata
}

// targetCache memoizes move-call target metadata per transaction,
// keyed by the exact target string (not normalized). Repeated calls
// with the same string cost zero additional round trips. Scoped to
// one transaction so independent builds never see each other's stale
// on-chain state.
type targetCache struct {
	svc     pysui.ExecutionService
	entries map[string]targetEntry
}

func newTargetCache(svc pysui.ExecutionService) *targetCache {
	return &targetCache{svc: svc, entries: make(map[string]targetEntry)}
}

// resolve returns the metadata for a "package::module::function"
// target, fetching it at most once per target string.
func (c *targetCache) resolve(ctx context.Context, target string) (targetEntry, error) {
	if entry, ok := c.entries[target]; ok {
		return entry, nil
	}
	parts := strings.Split(target, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return targetEntry{}, pysui.NewValidationError("move_call",
			"target %q is not of the form package::module::function", target)
	}
	pkg, err := types.AddressFromHex(parts[0])
	if err != nil {
		return targetEntry{}, pysui.NewValidationError("move_call",
			"target %q has an invalid package address: %v", target, err)
	}
	meta, err := c.svc.GetFunctionMetadata(ctx, pkg, parts[1], parts[2])
	if err != nil {
		return targetEntry{}, &pysui.ResolutionError{
			Reason: "unable to resolve move-call target " + target,
			Err:    err,
		}
	}
	entry := targetEntry{pkg: pkg, module: parts[1], function: parts[2], meta: meta}
	c.entries[target] = entry
	return entry, nil
}
