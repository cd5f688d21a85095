// Package pysui is a client-side builder for programmable
// transaction blocks: it turns a sequence of high-level intents
// ("call this function", "split this coin", "transfer this object")
// into a single canonically-serialized transaction payload ready for
// inspection or submission.
//
// The core [ExecutionService] interface is the contract with the
// remote chain. The txn package builds transactions against it; the
// grpc package carries it over the network; the local package serves
// it from in-process state for tests and offline work.
package pysui

import (
	"context"

	"github.com/robmcl4/pysui/types"
)

// ExecutionService is the remote collaborator every transaction
// builds against. Implementations must be safe for concurrent use;
// a single transaction object is not.
//
// The builder guarantees the following call pattern per transaction:
//  1. GetObjectsFor is called at most once per builder call, with the
//     distinct unresolved identifiers of that call (never once per
//     argument).
//  2. GetFunctionMetadata is called at most once per distinct
//     move-call target string over the transaction's lifetime.
//  3. DryRun and Submit are each a single blocking round trip,
//     issued at finalize time only.
type ExecutionService interface {
	// GetObject fetches the current record of one object. A missing
	// object fails with *ObjectNotFoundError.
	GetObject(ctx context.Context, id types.Address) (types.ObjectRecord, error)

	// GetObjectsFor fetches the current records of the given objects,
	// one result per identifier, in request order. Any missing
	// identifier fails the whole call; partial results are never
	// returned.
	GetObjectsFor(ctx context.Context, ids []types.Address) ([]types.ObjectRecord, error)

	// GetCoins lists the coin objects owned by an address, used to
	// select gas payment when the caller names no explicit coin.
	GetCoins(ctx context.Context, owner types.Address) ([]types.ObjectRecord, error)

	// GetFunctionMetadata resolves the declared parameters and
	// return arity of a move function. An unknown function fails
	// with a not-found error the builder surfaces as ResolutionError.
	GetFunctionMetadata(ctx context.Context, pkg types.Address, module, function string) (types.FunctionMetadata, error)

	// ReferenceGasPrice returns the network's current gas unit price.
	ReferenceGasPrice(ctx context.Context) (uint64, error)

	// DryRun executes the base64-serialized transaction kind against
	// current state without committing, reporting the gas it would
	// consume. Used for budget inference.
	DryRun(ctx context.Context, sender types.Address, txKindB64 string) (types.InspectionResult, error)

	// Submit sends a signed, base64-serialized transaction for
	// execution. Remote execution failure is reported inside the
	// result, not as an error; errors mean the submission itself
	// could not be delivered or parsed.
	Submit(ctx context.Context, txB64 string, signatures []string, opts types.SubmitOptions) (types.ExecutionResult, error)
}

// Signer produces the signatures attached at submission. Key
// management and multi-signature composition live behind this
// interface; the builder only consumes it.
type Signer interface {
	// SignTransaction signs the base64-serialized transaction data
	// and returns one or more serialized signatures.
	SignTransaction(ctx context.Context, txB64 string) ([]string, error)
}
