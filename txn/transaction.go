// Package txn builds programmable transactions: an append-only
// sequence of commands over a shared input table, resolved against an
// execution service and rendered into canonically serialized
// transaction data.
//
// A Transaction is exclusively owned by its creator. Builder calls
// must be sequenced by a single writer; the embedded caches and
// command log are private to the object and never shared across
// concurrent transactions.
package txn

import (
	"context"
	"encoding/base64"

	"github.com/rs/zerolog"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/bcs"
	"github.com/robmcl4/pysui/types"
)

// Transaction accumulates commands while Building, renders and gas-
// resolves them on finalization, and submits at most once.
type Transaction struct {
	svc    pysui.ExecutionService
	signer pysui.Signer
	log    zerolog.Logger

	guard    *lifecycleGuard
	builder  *builder
	cache    *targetCache
	resolver *resolver

	sender     types.Address
	gas        gasConfig
	expiration types.TransactionExpiration

	// assembled memoizes the finalized transaction data; finalization
	// runs at most once.
	assembled *types.TransactionData
}

// Option configures a Transaction at creation.
type Option func(*Transaction)

// WithSender sets the sending address, used for dry-run inspection,
// gas selection and the final transaction data.
func WithSender(sender types.Address) Option {
	return func(t *Transaction) { t.sender = sender }
}

// WithSigner sets the signer consulted by Execute.
func WithSigner(s pysui.Signer) Option {
	return func(t *Transaction) { t.signer = s }
}

// WithLogger sets the transaction's logger. The default is a
// disabled logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Transaction) { t.log = log }
}

// WithGasObject names an explicit gas coin instead of selecting one
// from the sender's holdings.
func WithGasObject(id types.Address) Option {
	return func(t *Transaction) { t.gas.payment = &id }
}

// WithGasPrice overrides the reference gas price.
func WithGasPrice(price uint64) Option {
	return func(t *Transaction) { t.gas.price = price }
}

// WithGasBudget sets the budget floor. The resolved budget is the
// larger of this and the dry-run cost.
func WithGasBudget(budget uint64) Option {
	return func(t *Transaction) { t.gas.budget = budget }
}

// WithMergeGas allows combining several owned coins into the gas
// payment when no single coin covers the budget.
func WithMergeGas() Option {
	return func(t *Transaction) { t.gas.merge = true }
}

// WithExpiration bounds the transaction to execute no later than the
// given epoch.
func WithExpiration(epoch uint64) Option {
	return func(t *Transaction) { t.expiration = types.TransactionExpiration{Epoch: &epoch} }
}

// New creates an empty transaction in the Building state.
func New(svc pysui.ExecutionService, opts ...Option) *Transaction {
	t := &Transaction{
		svc:     svc,
		log:     zerolog.Nop(),
		guard:   newLifecycleGuard(),
		builder: newBuilder(),
		cache:   newTargetCache(svc),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.builder.reservedGas = t.gas.payment
	t.resolver = &resolver{svc: svc, log: t.log}
	return t
}

// State returns the lifecycle state name: Building, Assembled or
// Executed.
func (t *Transaction) State() string {
	return t.guard.State()
}

// Sender returns the configured sending address.
func (t *Transaction) Sender() types.Address {
	return t.sender
}

// kind renders the accumulated log into a transaction kind.
func (t *Transaction) kind() types.TransactionKind {
	return types.TransactionKind{Programmable: t.builder.render()}
}

// Kind renders the transaction kind as built so far, without
// resolving gas or advancing the lifecycle.
func (t *Transaction) Kind() types.TransactionKind {
	return t.kind()
}

// inspect dry-runs a rendered kind against the service. A response
// without effects is malformed and fails resolution; it is never
// silently defaulted.
func (t *Transaction) inspect(ctx context.Context, kind types.TransactionKind) (types.InspectionResult, error) {
	data, err := bcs.Marshal(kind)
	if err != nil {
		return types.InspectionResult{}, err
	}
	res, err := t.svc.DryRun(ctx, t.sender, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return types.InspectionResult{}, &pysui.ResolutionError{Reason: "dry-run inspection failed", Err: err}
	}
	if res.Effects == nil {
		t.log.Error().Msg("inspection response is missing effects")
		return types.InspectionResult{}, &pysui.ResolutionError{Reason: "inspection response is missing effects"}
	}
	return res, nil
}

// InspectAll dry-runs the transaction as built so far. A side channel:
// it does not resolve gas and does not advance the lifecycle.
func (t *Transaction) InspectAll(ctx context.Context) (types.InspectionResult, error) {
	if err := t.guard.checkNotExecuted("InspectAll"); err != nil {
		return types.InspectionResult{}, err
	}
	return t.inspect(ctx, t.kind())
}

// assemble renders the kind, resolves gas and wraps both into
// versioned transaction data. Caller holds the sequential lock.
func (t *Transaction) assemble(ctx context.Context) (types.TransactionData, error) {
	kind := t.kind()
	gd, err := t.resolveGas(ctx, kind)
	if err != nil {
		return types.TransactionData{}, err
	}
	return types.TransactionData{V1: types.TransactionDataV1{
		Kind:       kind,
		Sender:     t.sender,
		GasData:    gd,
		Expiration: t.expiration,
	}}, nil
}

// TransactionData finalizes the transaction: renders the kind,
// resolves gas and transitions Building → Assembled. The result is
// memoized; repeated calls return the same data without further I/O.
// Fails with StateError after execution. On a resolution or gas
// failure the transaction stays buildable.
func (t *Transaction) TransactionData(ctx context.Context) (types.TransactionData, error) {
	if err := t.guard.acquireFinalize("TransactionData"); err != nil {
		return types.TransactionData{}, err
	}
	if t.assembled != nil {
		td := *t.assembled
		t.guard.completeFinalize()
		return td, nil
	}
	td, err := t.assemble(ctx)
	if err != nil {
		t.guard.failFinalize()
		return types.TransactionData{}, err
	}
	t.assembled = &td
	t.guard.completeFinalize()
	return td, nil
}

// Execute finalizes the transaction, signs it and submits it with the
// wait-for-local-execution policy. The transaction transitions to
// Executed when submission returns, regardless of remote success:
// remote failure is carried in the result's effects, not retried. A
// second Execute fails with StateError.
func (t *Transaction) Execute(ctx context.Context, opts types.SubmitOptions) (types.ExecutionResult, error) {
	if t.signer == nil {
		return types.ExecutionResult{}, pysui.NewValidationError("execute", "no signer configured")
	}
	if err := t.guard.acquireFinalize("Execute"); err != nil {
		return types.ExecutionResult{}, err
	}
	td := t.assembled
	if td == nil {
		assembled, err := t.assemble(ctx)
		if err != nil {
			t.guard.failFinalize()
			return types.ExecutionResult{}, err
		}
		t.assembled = &assembled
		td = &assembled
	}

	data, err := bcs.Marshal(*td)
	if err != nil {
		t.guard.failFinalize()
		return types.ExecutionResult{}, err
	}
	txB64 := base64.StdEncoding.EncodeToString(data)

	sigs, err := t.signer.SignTransaction(ctx, txB64)
	if err != nil {
		// Not yet submitted; the transaction stays Assembled.
		t.guard.completeFinalize()
		return types.ExecutionResult{}, err
	}

	opts.WaitForLocalExecution = true
	t.log.Debug().Int("signatures", len(sigs)).Msg("submitting transaction")
	res, err := t.svc.Submit(ctx, txB64, sigs, opts)
	t.guard.completeExecute()
	return res, err
}
