package txn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmcl4/pysui"
	txtest "github.com/robmcl4/pysui/testing"
	"github.com/robmcl4/pysui/txn"
	"github.com/robmcl4/pysui/types"
)

func TestSingleExecution(t *testing.T) {
	svc := &txtest.MockService{}
	signer := &txtest.MockSigner{}
	tx := txn.New(svc, txn.WithSender(sender), txn.WithSigner(signer))
	ctx := context.Background()

	_, err := tx.TransferObjects(ctx, []txn.Value{txn.Object(types.MustAddress("0x0b1"))}, txn.Address(recipient))
	require.NoError(t, err)

	_, err = tx.Execute(ctx, types.SubmitOptions{ShowEffects: true})
	require.NoError(t, err)
	assert.Equal(t, "Executed", tx.State())
	assert.Equal(t, int64(1), svc.SubmitCalls.Load())

	// The command log is frozen after execution.
	_, err = tx.TransferObjects(ctx, []txn.Value{txn.Object(types.MustAddress("0x0b2"))}, txn.Address(recipient))
	se, ok := pysui.IsState(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "Executed", se.State)

	// And so is resubmission.
	_, err = tx.Execute(ctx, types.SubmitOptions{})
	_, ok = pysui.IsState(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, int64(1), svc.SubmitCalls.Load())
}

func TestExecuteWithoutSigner(t *testing.T) {
	tx := txn.New(&txtest.MockService{}, txn.WithSender(sender))
	_, err := tx.Execute(context.Background(), types.SubmitOptions{})
	_, ok := pysui.IsValidation(err)
	require.True(t, ok, "got %v", err)
}

func TestExecuteRequestsLocalExecution(t *testing.T) {
	svc := &txtest.MockService{}
	var submitted types.SubmitOptions
	svc.SubmitFn = func(_ context.Context, _ string, _ []string, opts types.SubmitOptions) (types.ExecutionResult, error) {
		submitted = opts
		return types.ExecutionResult{}, nil
	}
	tx := txn.New(svc, txn.WithSender(sender), txn.WithSigner(&txtest.MockSigner{}))

	_, err := tx.Execute(context.Background(), types.SubmitOptions{ShowEffects: true})
	require.NoError(t, err)
	assert.True(t, submitted.WaitForLocalExecution)
	assert.True(t, submitted.ShowEffects)
}

func TestRemoteFailureIsStillExecuted(t *testing.T) {
	svc := &txtest.MockService{}
	svc.SubmitFn = func(context.Context, string, []string, types.SubmitOptions) (types.ExecutionResult, error) {
		return types.ExecutionResult{
			Effects: &types.TransactionEffects{
				Status: types.ExecutionStatus{Error: "MoveAbort(7)"},
			},
		}, nil
	}
	tx := txn.New(svc, txn.WithSender(sender), txn.WithSigner(&txtest.MockSigner{}))

	// Remote failure is a result, not a transport error; the
	// transaction is spent either way.
	res, err := tx.Execute(context.Background(), types.SubmitOptions{})
	require.NoError(t, err)
	assert.False(t, res.Effects.Status.Success)
	assert.Equal(t, "Executed", tx.State())
}

type failingSigner struct{}

func (failingSigner) SignTransaction(context.Context, string) ([]string, error) {
	return nil, errors.New("key unavailable")
}

func TestSignFailureLeavesAssembled(t *testing.T) {
	svc := &txtest.MockService{}
	tx := txn.New(svc, txn.WithSender(sender), txn.WithSigner(failingSigner{}))

	_, err := tx.Execute(context.Background(), types.SubmitOptions{})
	require.Error(t, err)
	assert.Equal(t, "Assembled", tx.State())
	assert.Equal(t, int64(0), svc.SubmitCalls.Load())
}

func TestFinalizationMemoized(t *testing.T) {
	svc := &txtest.MockService{}
	tx := txn.New(svc, txn.WithSender(sender))
	ctx := context.Background()

	first, err := tx.TransactionData(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Assembled", tx.State())

	second, err := tx.TransactionData(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Gas was resolved exactly once.
	assert.Equal(t, int64(1), svc.DryRunCalls.Load())
	assert.Equal(t, int64(1), svc.GetCoinsCalls.Load())

	// No further mutation once assembled.
	_, err = tx.TransferObjects(ctx, []txn.Value{txn.Object(types.MustAddress("0x0b1"))}, txn.Address(recipient))
	_, ok := pysui.IsState(err)
	require.True(t, ok, "got %v", err)
}

func TestInspectionIsASideChannel(t *testing.T) {
	svc := &txtest.MockService{}
	tx := txn.New(svc, txn.WithSender(sender), txn.WithSigner(&txtest.MockSigner{}))
	ctx := context.Background()

	res, err := tx.InspectAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Effects)
	assert.Equal(t, "Building", tx.State())

	// Building continues after inspection.
	_, err = tx.TransferObjects(ctx, []txn.Value{txn.Object(types.MustAddress("0x0b1"))}, txn.Address(recipient))
	require.NoError(t, err)

	_, err = tx.Execute(ctx, types.SubmitOptions{})
	require.NoError(t, err)
	_, err = tx.InspectAll(ctx)
	_, ok := pysui.IsState(err)
	require.True(t, ok, "got %v", err)
}

func TestTransactionDataShape(t *testing.T) {
	svc := &txtest.MockService{}
	tx := txn.New(svc, txn.WithSender(sender), txn.WithExpiration(9))
	ctx := context.Background()

	_, err := tx.TransferObjects(ctx, []txn.Value{txn.Object(types.MustAddress("0x0b1"))}, txn.Address(recipient))
	require.NoError(t, err)

	td, err := tx.TransactionData(ctx)
	require.NoError(t, err)
	assert.Equal(t, sender, td.V1.Sender)
	require.NotNil(t, td.V1.Expiration.Epoch)
	assert.Equal(t, uint64(9), *td.V1.Expiration.Epoch)
	assert.NotEmpty(t, td.V1.Kind.Programmable.Commands)
	assert.NotEmpty(t, td.V1.GasData.Payment)
}
