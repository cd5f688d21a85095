package txtest

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/bcs"
	"github.com/robmcl4/pysui/types"
)

// ComplianceTarget couples a fresh execution service with
// identifiers known to resolve in it. Every field must be populated
// by the factory.
type ComplianceTarget struct {
	Service pysui.ExecutionService
	// Owner holds at least one coin whose balance covers a typical
	// gas budget.
	Owner types.Address
	// OwnedObject and SharedObject exist in the service with the
	// corresponding ownership kinds.
	OwnedObject  types.Address
	SharedObject types.Address
	// Target is a resolvable "package::module::function" string,
	// split into its parts.
	TargetPackage  types.Address
	TargetModule   string
	TargetFunction string
}

// RunComplianceSuite runs a standard test suite against an execution
// service implementation to verify the contract the transaction
// builder depends on.
//
// The factory function should return a freshly seeded target for
// each test.
func RunComplianceSuite(t *testing.T, factory func() ComplianceTarget) {
	t.Helper()

	t.Run("get_object", func(t *testing.T) {
		tgt := factory()
		rec, err := tgt.Service.GetObject(context.Background(), tgt.OwnedObject)
		if err != nil {
			t.Fatalf("GetObject failed: %v", err)
		}
		if rec.ObjectID != tgt.OwnedObject {
			t.Errorf("record identifier %s, want %s", rec.ObjectID, tgt.OwnedObject)
		}
		if rec.Owner.Kind != types.OwnerAddress {
			t.Errorf("owned object has owner kind %d", rec.Owner.Kind)
		}
	})

	t.Run("get_object_not_found", func(t *testing.T) {
		tgt := factory()
		missing := types.MustAddress("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
		_, err := tgt.Service.GetObject(context.Background(), missing)
		if err == nil {
			t.Fatal("expected error for nonexistent object")
		}
	})

	t.Run("shared_object_carries_initial_version", func(t *testing.T) {
		tgt := factory()
		rec, err := tgt.Service.GetObject(context.Background(), tgt.SharedObject)
		if err != nil {
			t.Fatalf("GetObject failed: %v", err)
		}
		if rec.Owner.Kind != types.OwnerShared {
			t.Fatalf("owner kind %d, want shared", rec.Owner.Kind)
		}
		if rec.Owner.InitialSharedVersion == 0 {
			t.Error("shared object has zero initial shared version")
		}
	})

	t.Run("batch_fetch_preserves_order", func(t *testing.T) {
		tgt := factory()
		ids := []types.Address{tgt.SharedObject, tgt.OwnedObject}
		records, err := tgt.Service.GetObjectsFor(context.Background(), ids)
		if err != nil {
			t.Fatalf("GetObjectsFor failed: %v", err)
		}
		if len(records) != len(ids) {
			t.Fatalf("got %d records for %d identifiers", len(records), len(ids))
		}
		for i, rec := range records {
			if rec.ObjectID != ids[i] {
				t.Errorf("record %d is %s, want %s", i, rec.ObjectID, ids[i])
			}
		}
	})

	t.Run("batch_fetch_rejects_partial", func(t *testing.T) {
		tgt := factory()
		missing := types.MustAddress("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
		_, err := tgt.Service.GetObjectsFor(context.Background(), []types.Address{tgt.OwnedObject, missing})
		if err == nil {
			t.Fatal("expected error when any identifier is missing")
		}
	})

	t.Run("get_coins", func(t *testing.T) {
		tgt := factory()
		coins, err := tgt.Service.GetCoins(context.Background(), tgt.Owner)
		if err != nil {
			t.Fatalf("GetCoins failed: %v", err)
		}
		if len(coins) == 0 {
			t.Fatal("owner has no coins")
		}
		for _, c := range coins {
			if c.Owner.Address != tgt.Owner {
				t.Errorf("coin %s owned by %s, want %s", c.ObjectID, c.Owner.Address, tgt.Owner)
			}
		}
	})

	t.Run("function_metadata", func(t *testing.T) {
		tgt := factory()
		_, err := tgt.Service.GetFunctionMetadata(context.Background(),
			tgt.TargetPackage, tgt.TargetModule, tgt.TargetFunction)
		if err != nil {
			t.Fatalf("GetFunctionMetadata failed: %v", err)
		}
	})

	t.Run("function_metadata_not_found", func(t *testing.T) {
		tgt := factory()
		_, err := tgt.Service.GetFunctionMetadata(context.Background(),
			tgt.TargetPackage, tgt.TargetModule, "no_such_function_exists")
		if err == nil {
			t.Fatal("expected error for unknown function")
		}
	})

	t.Run("reference_gas_price", func(t *testing.T) {
		tgt := factory()
		price, err := tgt.Service.ReferenceGasPrice(context.Background())
		if err != nil {
			t.Fatalf("ReferenceGasPrice failed: %v", err)
		}
		if price == 0 {
			t.Error("reference gas price is zero")
		}
	})

	t.Run("dry_run_reports_effects", func(t *testing.T) {
		tgt := factory()
		kind := types.TransactionKind{}
		data, err := bcs.Marshal(kind)
		if err != nil {
			t.Fatal(err)
		}
		res, err := tgt.Service.DryRun(context.Background(), tgt.Owner,
			base64.StdEncoding.EncodeToString(data))
		if err != nil {
			t.Fatalf("DryRun failed: %v", err)
		}
		if res.Effects == nil {
			t.Fatal("dry run returned no effects")
		}
	})

	t.Run("dry_run_rejects_garbage", func(t *testing.T) {
		tgt := factory()
		if _, err := tgt.Service.DryRun(context.Background(), tgt.Owner, "!!not-base64!!"); err == nil {
			t.Error("expected error for invalid payload")
		}
	})

	t.Run("concurrent_reads", func(t *testing.T) {
		tgt := factory()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := tgt.Service.GetObject(context.Background(), tgt.OwnedObject); err != nil {
					t.Errorf("concurrent GetObject failed: %v", err)
				}
				if _, err := tgt.Service.ReferenceGasPrice(context.Background()); err != nil {
					t.Errorf("concurrent ReferenceGasPrice failed: %v", err)
				}
			}()
		}
		wg.Wait()
	})
}
