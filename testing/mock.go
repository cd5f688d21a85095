// Package txtest provides test utilities for transaction-building
// development, including a configurable execution-service mock, a
// builder harness, and an ExecutionService compliance test suite.
package txtest

import (
	"context"
	"sync/atomic"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/types"
)

// Compile-time check that MockService satisfies the contract.
var _ pysui.ExecutionService = (*MockService)(nil)

// MockService is a configurable mock execution service for builder
// testing. All methods are configurable via function fields.
// Unconfigured methods return sensible zero-value defaults.
type MockService struct {
	// Configurable handlers. If nil, defaults are used.
	GetObjectFn           func(context.Context, types.Address) (types.ObjectRecord, error)
	GetObjectsForFn       func(context.Context, []types.Address) ([]types.ObjectRecord, error)
	GetCoinsFn            func(context.Context, types.Address) ([]types.ObjectRecord, error)
	GetFunctionMetadataFn func(context.Context, types.Address, string, string) (types.FunctionMetadata, error)
	ReferenceGasPriceFn   func(context.Context) (uint64, error)
	DryRunFn              func(context.Context, types.Address, string) (types.InspectionResult, error)
	SubmitFn              func(context.Context, string, []string, types.SubmitOptions) (types.ExecutionResult, error)

	// Call counters (atomic for concurrent access).
	GetObjectCalls           atomic.Int64
	GetObjectsForCalls       atomic.Int64
	GetCoinsCalls            atomic.Int64
	GetFunctionMetadataCalls atomic.Int64
	ReferenceGasPriceCalls   atomic.Int64
	DryRunCalls              atomic.Int64
	SubmitCalls              atomic.Int64
}

func (m *MockService) GetObject(ctx context.Context, id types.Address) (types.ObjectRecord, error) {
	m.GetObjectCalls.Add(1)
	if m.GetObjectFn != nil {
		return m.GetObjectFn(ctx, id)
	}
	return OwnedCoin(id, types.Address{}, 1_000_000_000), nil
}

func (m *MockService) GetObjectsFor(ctx context.Context, ids []types.Address) ([]types.ObjectRecord, error) {
	m.GetObjectsForCalls.Add(1)
	if m.GetObjectsForFn != nil {
		return m.GetObjectsForFn(ctx, ids)
	}
	records := make([]types.ObjectRecord, len(ids))
	for i, id := range ids {
		records[i] = OwnedObject(id, types.Address{}, "0x2::test::Object")
	}
	return records, nil
}

func (m *MockService) GetCoins(ctx context.Context, owner types.Address) ([]types.ObjectRecord, error) {
	m.GetCoinsCalls.Add(1)
	if m.GetCoinsFn != nil {
		return m.GetCoinsFn(ctx, owner)
	}
	coin := types.MustAddress("0xc01")
	return []types.ObjectRecord{OwnedCoin(coin, owner, 10_000_000_000)}, nil
}

func (m *MockService) GetFunctionMetadata(ctx context.Context, pkg types.Address, module, function string) (types.FunctionMetadata, error) {
	m.GetFunctionMetadataCalls.Add(1)
	if m.GetFunctionMetadataFn != nil {
		return m.GetFunctionMetadataFn(ctx, pkg, module, function)
	}
	return types.FunctionMetadata{ReturnCount: 1}, nil
}

func (m *MockService) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	m.ReferenceGasPriceCalls.Add(1)
	if m.ReferenceGasPriceFn != nil {
		return m.ReferenceGasPriceFn(ctx)
	}
	return 1000, nil
}

func (m *MockService) DryRun(ctx context.Context, sender types.Address, txKindB64 string) (types.InspectionResult, error) {
	m.DryRunCalls.Add(1)
	if m.DryRunFn != nil {
		return m.DryRunFn(ctx, sender, txKindB64)
	}
	return types.InspectionResult{
		Effects: &types.TransactionEffects{
			Status:  types.ExecutionStatus{Success: true},
			GasUsed: types.GasUsed{ComputationCost: 1_000_000},
		},
	}, nil
}

func (m *MockService) Submit(ctx context.Context, txB64 string, signatures []string, opts types.SubmitOptions) (types.ExecutionResult, error) {
	m.SubmitCalls.Add(1)
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, txB64, signatures, opts)
	}
	return types.ExecutionResult{
		Effects: &types.TransactionEffects{Status: types.ExecutionStatus{Success: true}},
	}, nil
}

// MockSigner is a configurable signer returning fixed signatures.
type MockSigner struct {
	// Signatures are returned by SignTransaction. Defaults to one
	// placeholder signature.
	Signatures []string

	SignCalls atomic.Int64
}

var _ pysui.Signer = (*MockSigner)(nil)

func (s *MockSigner) SignTransaction(ctx context.Context, txB64 string) ([]string, error) {
	s.SignCalls.Add(1)
	if s.Signatures != nil {
		return s.Signatures, nil
	}
	return []string{"AAtestsignature"}, nil
}

// --- Record Factories ---

// OwnedCoin builds a coin record with the given balance, owned by
// owner.
func OwnedCoin(id, owner types.Address, balance uint64) types.ObjectRecord {
	return types.ObjectRecord{
		ObjectID:   id,
		Version:    3,
		Digest:     fillDigest(id),
		Owner:      types.Owner{Kind: types.OwnerAddress, Address: owner},
		ObjectType: "0x2::coin::Coin<0x2::sui::SUI>",
		Balance:    balance,
	}
}

// OwnedObject builds an address-owned object record.
func OwnedObject(id, owner types.Address, objectType string) types.ObjectRecord {
	return types.ObjectRecord{
		ObjectID:   id,
		Version:    3,
		Digest:     fillDigest(id),
		Owner:      types.Owner{Kind: types.OwnerAddress, Address: owner},
		ObjectType: objectType,
	}
}

// SharedObject builds a shared object record.
func SharedObject(id types.Address, initialVersion uint64, objectType string) types.ObjectRecord {
	return types.ObjectRecord{
		ObjectID:   id,
		Version:    initialVersion,
		Digest:     fillDigest(id),
		Owner:      types.Owner{Kind: types.OwnerShared, InitialSharedVersion: initialVersion},
		ObjectType: objectType,
	}
}

// ImmutableObject builds a frozen object record.
func ImmutableObject(id types.Address, objectType string) types.ObjectRecord {
	return types.ObjectRecord{
		ObjectID:   id,
		Version:    3,
		Digest:     fillDigest(id),
		Owner:      types.Owner{Kind: types.OwnerImmutable},
		ObjectType: objectType,
	}
}

func fillDigest(id types.Address) types.Digest {
	var dg types.Digest
	copy(dg[:], id[:])
	return dg
}
