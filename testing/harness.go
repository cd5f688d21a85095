package txtest

import (
	"context"
	"testing"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/txn"
	"github.com/robmcl4/pysui/types"
)

// Harness provides a convenient test harness for building
// transactions against a service and asserting on the outcome.
type Harness struct {
	t  *testing.T
	tx *txn.Transaction
}

// NewHarness creates a harness with a fresh transaction over svc.
func NewHarness(t *testing.T, svc pysui.ExecutionService, opts ...txn.Option) *Harness {
	t.Helper()
	return &Harness{t: t, tx: txn.New(svc, opts...)}
}

// Tx returns the underlying transaction for direct access.
func (h *Harness) Tx() *txn.Transaction {
	return h.tx
}

// MustMoveCall appends a move call, failing the test on error.
func (h *Harness) MustMoveCall(target string, args []txn.Value, typeArgs ...string) []types.Argument {
	h.t.Helper()
	out, err := h.tx.MoveCall(context.Background(), target, args, typeArgs)
	if err != nil {
		h.t.Fatalf("MoveCall %s failed: %v", target, err)
	}
	return out
}

// MustSplitCoin splits amounts off a coin, failing the test on error.
func (h *Harness) MustSplitCoin(coin txn.Value, amounts ...uint64) []types.Argument {
	h.t.Helper()
	vals := make([]txn.Value, len(amounts))
	for i, a := range amounts {
		vals[i] = txn.U64(a)
	}
	out, err := h.tx.SplitCoin(context.Background(), coin, vals)
	if err != nil {
		h.t.Fatalf("SplitCoin failed: %v", err)
	}
	return out
}

// MustMergeCoins merges coins, failing the test on error.
func (h *Harness) MustMergeCoins(mergeTo txn.Value, sources ...txn.Value) types.Argument {
	h.t.Helper()
	out, err := h.tx.MergeCoins(context.Background(), mergeTo, sources)
	if err != nil {
		h.t.Fatalf("MergeCoins failed: %v", err)
	}
	return out
}

// MustTransferObjects transfers objects to a recipient, failing the
// test on error.
func (h *Harness) MustTransferObjects(recipient types.Address, objects ...txn.Value) types.Argument {
	h.t.Helper()
	out, err := h.tx.TransferObjects(context.Background(), objects, txn.Address(recipient))
	if err != nil {
		h.t.Fatalf("TransferObjects failed: %v", err)
	}
	return out
}

// MustData finalizes the transaction, failing the test on error.
func (h *Harness) MustData() types.TransactionData {
	h.t.Helper()
	td, err := h.tx.TransactionData(context.Background())
	if err != nil {
		h.t.Fatalf("TransactionData failed: %v", err)
	}
	return td
}

// MustExecute signs and submits the transaction, failing the test on
// error.
func (h *Harness) MustExecute(opts types.SubmitOptions) types.ExecutionResult {
	h.t.Helper()
	res, err := h.tx.Execute(context.Background(), opts)
	if err != nil {
		h.t.Fatalf("Execute failed: %v", err)
	}
	return res
}

// MustInspect dry-runs the transaction as built, failing the test on
// error.
func (h *Harness) MustInspect() types.InspectionResult {
	h.t.Helper()
	res, err := h.tx.InspectAll(context.Background())
	if err != nil {
		h.t.Fatalf("InspectAll failed: %v", err)
	}
	return res
}
