package txn

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/types"
)

// resolver converts the mixed argument shapes of one builder call
// into command arguments. Object identifiers that need fetching are
// collected across the whole call and fetched in a single batched
// request; result order is preserved by index, never by completion.
type resolver struct {
	svc pysui.ExecutionService
	log zerolog.Logger
}

// resolve normalizes vals into arguments, registering inputs with b.
// The returned slice is aligned with vals.
func (r *resolver) resolve(ctx context.Context, b *builder, op string, vals []Value) ([]types.Argument, error) {
	args := make([]types.Argument, len(vals))

	// First pass: everything that resolves locally, and the set of
	// identifiers that need a fetch.
	var fetchIDs []types.Address
	seen := make(map[types.Address]bool)
	for i, v := range vals {
		if v.err != nil {
			return nil, pysui.NewValidationError(op, "argument %d: %v", i, v.err)
		}
		// The configured gas coin is rejected at the call that names it,
		// not at finalization.
		if id, ok := v.objectID(); ok && b.reservesGas(id) {
			return nil, &pysui.GasError{
				Reason: "configured gas object cannot be used as a transaction input",
				Object: id,
			}
		}
		switch v.kind {
		case valueArgument:
			args[i] = v.arg
		case valuePure:
			args[i] = b.pureInput(v.pure)
		case valueRef:
			args[i] = b.objectInput(types.ImmOrOwnedObject(v.ref))
		case valueObjectArg:
			args[i] = b.objectInput(v.objArg)
		case valueRecord:
			args[i] = b.objectInput(classifyRecord(v.record))
		case valueObjectID:
			if !seen[v.id] {
				seen[v.id] = true
				fetchIDs = append(fetchIDs, v.id)
			}
		default:
			return nil, pysui.NewValidationError(op, "argument %d has unknown shape %d", i, v.kind)
		}
	}
	if len(fetchIDs) == 0 {
		return args, nil
	}

	// One batched fetch for the distinct unresolved identifiers.
	r.log.Debug().Str("op", op).Int("count", len(fetchIDs)).Msg("fetching objects")
	records, err := r.svc.GetObjectsFor(ctx, fetchIDs)
	if err != nil {
		missing := fetchIDs
		if nf, ok := pysui.IsObjectNotFound(err); ok {
			missing = []types.Address{nf.ObjectID}
		}
		return nil, &pysui.ResolutionError{
			Reason:  "unable to fetch objects",
			Missing: missing,
			Err:     err,
		}
	}
	if len(records) != len(fetchIDs) {
		return nil, &pysui.ResolutionError{
			Reason: fmt.Sprintf("object fetch returned %d records for %d identifiers", len(records), len(fetchIDs)),
		}
	}

	// Partial success is not accepted: any record that does not match
	// its requested identifier fails the whole resolution.
	byID := make(map[types.Address]types.ObjectRecord, len(records))
	var fetchErr *multierror.Error
	var missing []types.Address
	for i, rec := range records {
		if rec.ObjectID != fetchIDs[i] {
			missing = append(missing, fetchIDs[i])
			fetchErr = multierror.Append(fetchErr, &pysui.ObjectNotFoundError{ObjectID: fetchIDs[i]})
			continue
		}
		byID[rec.ObjectID] = rec
	}
	if fetchErr != nil {
		return nil, &pysui.ResolutionError{
			Reason:  "unable to resolve objects",
			Missing: missing,
			Err:     fetchErr.ErrorOrNil(),
		}
	}

	// Second pass in positional order: the input table is an ordered
	// sequence, so fetched objects must register in argument order, not
	// in fetch or map order.
	for i, v := range vals {
		if v.kind == valueObjectID {
			args[i] = b.objectInput(classifyRecord(byID[v.id]))
		}
	}
	return args, nil
}

// classifyRecord converts a fetched record into the protocol object
// argument its ownership kind requires. Shared objects carry their
// initial shared version and default to an immutable borrow; the
// move-call mutability patch upgrades them when the callee demands it.
func classifyRecord(rec types.ObjectRecord) types.ObjectArg {
	if rec.IsShared() {
		return types.SharedObject(types.SharedObjectRef{
			ObjectID:             rec.ObjectID,
			InitialSharedVersion: rec.Owner.InitialSharedVersion,
		})
	}
	return types.ImmOrOwnedObject(rec.Ref())
}
