package types

// OwnerKind classifies how an on-chain object is owned. The kind
// decides how the object embeds into a transaction: owned and
// immutable objects as direct references, shared objects with their
// initial shared version.
type OwnerKind uint8

const (
	// OwnerAddress is an object owned by an account address.
	OwnerAddress OwnerKind = iota + 1
	// OwnerShared is a shared object, usable by anyone.
	OwnerShared
	// OwnerImmutable is a frozen object.
	OwnerImmutable
	// OwnerObject is an object owned by another object.
	OwnerObject
)

// Owner describes the ownership of an object record.
type Owner struct {
	Kind OwnerKind `cramberry:"1"`
	// Address is the owning account (OwnerAddress) or parent object
	// (OwnerObject).
	Address Address `cramberry:"2"`
	// InitialSharedVersion is the version at which the object became
	// shared (OwnerShared only).
	InitialSharedVersion uint64 `cramberry:"3"`
}

// ObjectRecord is the execution service's view of one object at its
// current version.
type ObjectRecord struct {
	ObjectID   Address `cramberry:"1"`
	Version    uint64  `cramberry:"2"`
	Digest     Digest  `cramberry:"3"`
	Owner      Owner   `cramberry:"4"`
	ObjectType string  `cramberry:"5"`
	// Balance is the coin value, for coin-typed objects.
	Balance uint64 `cramberry:"6"`
	// Content is the object's canonical field encoding, when the
	// caller requested it (used to read upgrade-cap policies).
	Content []byte `cramberry:"7"`
}

// Ref returns the record's exact version reference.
func (r ObjectRecord) Ref() ObjectRef {
	return ObjectRef{ObjectID: r.ObjectID, Version: r.Version, Digest: r.Digest}
}

// IsShared reports whether the object is shared.
func (r ObjectRecord) IsShared() bool {
	return r.Owner.Kind == OwnerShared
}

// MoveParameter describes one declared parameter of a move function.
type MoveParameter struct {
	// Type is the parameter's declared type in source form.
	Type string `cramberry:"1"`
	// ByReference is set for reference parameters.
	ByReference bool `cramberry:"2"`
	// Mutable is set for mutable reference parameters. A mutable
	// parameter forces the corresponding shared-object argument into
	// a mutable borrow.
	Mutable bool `cramberry:"3"`
}

// FunctionMetadata is the resolved declaration of a move-call target:
// its parameter descriptors and return arity. Immutable once fetched.
type FunctionMetadata struct {
	Parameters  []MoveParameter `cramberry:"1"`
	ReturnCount uint32          `cramberry:"2"`
}

// GasUsed breaks down the gas consumed by an execution.
type GasUsed struct {
	ComputationCost         uint64 `cramberry:"1"`
	StorageCost             uint64 `cramberry:"2"`
	StorageRebate           uint64 `cramberry:"3"`
	NonRefundableStorageFee uint64 `cramberry:"4"`
}

// Total returns the net gas consumption.
func (g GasUsed) Total() uint64 {
	t := g.ComputationCost + g.StorageCost
	if g.StorageRebate > t {
		return 0
	}
	return t - g.StorageRebate
}

// ExecutionStatus is the chain-side verdict on an execution.
type ExecutionStatus struct {
	Success bool   `cramberry:"1"`
	Error   string `cramberry:"2"`
}

// TransactionEffects summarizes what an execution did or would do.
type TransactionEffects struct {
	Status  ExecutionStatus `cramberry:"1"`
	GasUsed GasUsed         `cramberry:"2"`
}

// InspectionResult is the response of a dry-run inspection. Effects
// is nil when the service returned a malformed or empty response;
// gas inference treats that as a resolution failure, never as a
// default budget.
type InspectionResult struct {
	Effects *TransactionEffects `cramberry:"1"`
	// Results carries the per-command return values, when requested.
	Results []byte `cramberry:"2"`
}

// SubmitOptions controls what the execution service reports back
// from a submission.
type SubmitOptions struct {
	ShowEffects       bool `cramberry:"1"`
	ShowEvents        bool `cramberry:"2"`
	ShowObjectChanges bool `cramberry:"3"`
	// WaitForLocalExecution asks the service to respond only after
	// the transaction is locally executed, so subsequent reads see
	// its effects.
	WaitForLocalExecution bool `cramberry:"4"`
}

// ExecutionResult is the service's report on a submitted transaction.
// Remote execution failure is carried in Effects.Status as a value,
// not as a transport error.
type ExecutionResult struct {
	Digest  Digest              `cramberry:"1"`
	Effects *TransactionEffects `cramberry:"2"`
	// RawEffects is the canonical effects encoding, when requested.
	RawEffects []byte `cramberry:"3"`
}
