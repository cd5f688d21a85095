// Package local provides an in-process, in-memory execution service.
//
// For offline transaction building, development, and tests, Ledger
// implements the full ExecutionService contract over seeded state —
// with no network and no serialization overhead. Dry runs report a
// configurable cost; submissions are recorded, not executed.
package local

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/bcs"
	"github.com/robmcl4/pysui/types"
)

// Compile-time interface check.
var _ pysui.ExecutionService = (*Ledger)(nil)

// Submission is one recorded Submit call.
type Submission struct {
	Tx         types.TransactionData
	Signatures []string
	Options    types.SubmitOptions
	Digest     types.Digest
}

// Ledger is an in-memory execution service. Safe for concurrent use.
type Ledger struct {
	mu        sync.RWMutex
	log       zerolog.Logger
	gasPrice  uint64
	dryCost   types.GasUsed
	objects   map[types.Address]types.ObjectRecord
	coins     map[types.Address][]types.Address
	functions map[string]types.FunctionMetadata
	submitted []Submission
	nextID    uint64
}

// Option configures a Ledger at creation.
type Option func(*Ledger)

// WithGasPrice sets the reference gas price. Default 1000.
func WithGasPrice(price uint64) Option {
	return func(l *Ledger) { l.gasPrice = price }
}

// WithDryRunCost sets the gas usage every dry run reports.
func WithDryRunCost(used types.GasUsed) Option {
	return func(l *Ledger) { l.dryCost = used }
}

// WithLogger sets the ledger's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		log:       zerolog.Nop(),
		gasPrice:  1000,
		dryCost:   types.GasUsed{ComputationCost: 1_000_000},
		objects:   make(map[types.Address]types.ObjectRecord),
		coins:     make(map[types.Address][]types.Address),
		functions: make(map[string]types.FunctionMetadata),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddObject seeds an object record. Coin-typed objects owned by an
// address are also registered as that address's gas coins.
func (l *Ledger) AddObject(rec types.ObjectRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.objects[rec.ObjectID] = rec
	if rec.Balance > 0 && rec.Owner.Kind == types.OwnerAddress {
		l.coins[rec.Owner.Address] = append(l.coins[rec.Owner.Address], rec.ObjectID)
	}
}

// AddFunction seeds move-call target metadata.
func (l *Ledger) AddFunction(pkg types.Address, module, function string, meta types.FunctionMetadata) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.functions[functionKey(pkg, module, function)] = meta
}

// MintCoin creates and seeds a fresh SUI coin owned by owner.
func (l *Ledger) MintCoin(owner types.Address, balance uint64) types.ObjectRecord {
	rec := types.ObjectRecord{
		ObjectID:   l.freshID(),
		Version:    1,
		Owner:      types.Owner{Kind: types.OwnerAddress, Address: owner},
		ObjectType: "0x2::coin::Coin<0x2::sui::SUI>",
		Balance:    balance,
	}
	rec.Digest = contentDigest(rec.ObjectID)
	l.AddObject(rec)
	return rec
}

// MintOwnedObject creates and seeds a fresh object owned by owner.
func (l *Ledger) MintOwnedObject(owner types.Address, objectType string) types.ObjectRecord {
	rec := types.ObjectRecord{
		ObjectID:   l.freshID(),
		Version:    1,
		Owner:      types.Owner{Kind: types.OwnerAddress, Address: owner},
		ObjectType: objectType,
	}
	rec.Digest = contentDigest(rec.ObjectID)
	l.AddObject(rec)
	return rec
}

// MintSharedObject creates and seeds a fresh shared object.
func (l *Ledger) MintSharedObject(objectType string) types.ObjectRecord {
	rec := types.ObjectRecord{
		ObjectID:   l.freshID(),
		Version:    1,
		Owner:      types.Owner{Kind: types.OwnerShared, InitialSharedVersion: 1},
		ObjectType: objectType,
	}
	rec.Digest = contentDigest(rec.ObjectID)
	l.AddObject(rec)
	return rec
}

// Submitted returns the submissions recorded so far.
func (l *Ledger) Submitted() []Submission {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Submission, len(l.submitted))
	copy(out, l.submitted)
	return out
}

func (l *Ledger) freshID() types.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	var id types.Address
	id[0] = 0x10
	binary.BigEndian.PutUint64(id[24:], l.nextID)
	return id
}

func contentDigest(id types.Address) types.Digest {
	return types.Digest(blake2b.Sum256(id[:]))
}

func functionKey(pkg types.Address, module, function string) string {
	return fmt.Sprintf("%s::%s::%s", pkg, module, function)
}

// --- ExecutionService ---

func (l *Ledger) GetObject(ctx context.Context, id types.Address) (types.ObjectRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.objects[id]
	if !ok {
		return types.ObjectRecord{}, &pysui.ObjectNotFoundError{ObjectID: id}
	}
	return rec, nil
}

func (l *Ledger) GetObjectsFor(ctx context.Context, ids []types.Address) ([]types.ObjectRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	records := make([]types.ObjectRecord, len(ids))
	var missing *multierror.Error
	for i, id := range ids {
		rec, ok := l.objects[id]
		if !ok {
			missing = multierror.Append(missing, &pysui.ObjectNotFoundError{ObjectID: id})
			continue
		}
		records[i] = rec
	}
	if err := missing.ErrorOrNil(); err != nil {
		return nil, err
	}
	return records, nil
}

func (l *Ledger) GetCoins(ctx context.Context, owner types.Address) ([]types.ObjectRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []types.ObjectRecord
	for _, id := range l.coins[owner] {
		if rec, ok := l.objects[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (l *Ledger) GetFunctionMetadata(ctx context.Context, pkg types.Address, module, function string) (types.FunctionMetadata, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	meta, ok := l.functions[functionKey(pkg, module, function)]
	if !ok {
		return types.FunctionMetadata{}, fmt.Errorf("local: unknown function %s", functionKey(pkg, module, function))
	}
	return meta, nil
}

func (l *Ledger) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gasPrice, nil
}

func (l *Ledger) DryRun(ctx context.Context, sender types.Address, txKindB64 string) (types.InspectionResult, error) {
	data, err := base64.StdEncoding.DecodeString(txKindB64)
	if err != nil {
		return types.InspectionResult{}, fmt.Errorf("local: transaction kind is not valid base64: %w", err)
	}
	var kind types.TransactionKind
	if err := bcs.Unmarshal(data, &kind); err != nil {
		return types.InspectionResult{}, fmt.Errorf("local: malformed transaction kind: %w", err)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log.Debug().
		Stringer("sender", sender).
		Int("commands", len(kind.Programmable.Commands)).
		Msg("dry run")
	return types.InspectionResult{
		Effects: &types.TransactionEffects{
			Status:  types.ExecutionStatus{Success: true},
			GasUsed: l.dryCost,
		},
	}, nil
}

func (l *Ledger) Submit(ctx context.Context, txB64 string, signatures []string, opts types.SubmitOptions) (types.ExecutionResult, error) {
	data, err := base64.StdEncoding.DecodeString(txB64)
	if err != nil {
		return types.ExecutionResult{}, fmt.Errorf("local: transaction is not valid base64: %w", err)
	}
	var td types.TransactionData
	if err := bcs.Unmarshal(data, &td); err != nil {
		return types.ExecutionResult{}, fmt.Errorf("local: malformed transaction data: %w", err)
	}
	if len(signatures) == 0 {
		return types.ExecutionResult{}, fmt.Errorf("local: at least one signature is required")
	}
	digest, err := td.Digest()
	if err != nil {
		return types.ExecutionResult{}, err
	}
	l.mu.Lock()
	l.submitted = append(l.submitted, Submission{
		Tx:         td,
		Signatures: signatures,
		Options:    opts,
		Digest:     digest,
	})
	cost := l.dryCost
	l.mu.Unlock()
	l.log.Debug().Stringer("digest", digest).Msg("transaction submitted")
	res := types.ExecutionResult{Digest: digest}
	if opts.ShowEffects {
		res.Effects = &types.TransactionEffects{
			Status:  types.ExecutionStatus{Success: true},
			GasUsed: cost,
		}
	}
	return res, nil
}
