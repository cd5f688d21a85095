package txn_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmcl4/pysui"
	txtest "github.com/robmcl4/pysui/testing"
	"github.com/robmcl4/pysui/txn"
	"github.com/robmcl4/pysui/types"
)

// moveCallAt asserts that command i is a move call on the given target
// and returns it.
func moveCallAt(t *testing.T, tx *txn.Transaction, i int, module, function string) *types.ProgrammableMoveCall {
	t.Helper()
	cmds := tx.Kind().Programmable.Commands
	require.Greater(t, len(cmds), i)
	require.Equal(t, types.CommandMoveCall, cmds[i].Kind, "command %d", i)
	mc := cmds[i].MoveCall
	assert.Equal(t, module, mc.Module, "command %d", i)
	assert.Equal(t, function, mc.Function, "command %d", i)
	return mc
}

func TestSplitCoinResultArity(t *testing.T) {
	coin := types.MustAddress("0xc0")
	svc := serviceWith(txtest.OwnedCoin(coin, sender, 1_000_000))
	ctx := context.Background()

	t.Run("one amount yields one result", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		out, err := tx.SplitCoin(ctx, txn.Object(coin), []txn.Value{txn.U64(10)})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, types.ResultArg(0), out[0])
	})

	t.Run("many amounts yield nested results", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		out, err := tx.SplitCoin(ctx, txn.Object(coin), []txn.Value{txn.U64(10), txn.U64(20), txn.U64(30)})
		require.NoError(t, err)
		require.Len(t, out, 3)
		for i, arg := range out {
			assert.Equal(t, types.NestedResultArg(0, uint16(i)), arg)
		}
	})

	t.Run("no amounts rejected", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.SplitCoin(ctx, txn.Object(coin), nil)
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})
}

func TestSplitCoinEqual(t *testing.T) {
	coin := types.MustAddress("0xc0")
	svc := serviceWith(txtest.OwnedCoin(coin, sender, 1_000_000))
	ctx := context.Background()

	t.Run("divide and keep", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		out, err := tx.SplitCoinEqual(ctx, txn.Object(coin), 4, "")
		require.NoError(t, err)
		assert.Equal(t, types.ResultArg(0), out)

		mc := moveCallAt(t, tx, 0, "pay", "divide_and_keep")
		require.Len(t, mc.TypeArguments, 1)
		assert.Equal(t, "0x2::sui::SUI", mc.TypeArguments[0].String())
	})

	t.Run("zero count rejected", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.SplitCoinEqual(ctx, txn.Object(coin), 0, "")
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})
}

func TestSplitCoinAndReturn(t *testing.T) {
	coin := types.MustAddress("0xc0")
	svc := serviceWith(txtest.OwnedCoin(coin, sender, 1_000_000))
	ctx := context.Background()

	t.Run("expansion for three parts", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		out, err := tx.SplitCoinAndReturn(ctx, txn.Object(coin), 3, "")
		require.NoError(t, err)
		// The remainder stays in the source coin.
		require.Len(t, out, 2)

		cmds := tx.Kind().Programmable.Commands
		require.Len(t, cmds, 4)
		divide := moveCallAt(t, tx, 0, "coin", "divide_into_n")
		assert.Equal(t, "0x2::sui::SUI", divide.TypeArguments[0].String())

		for i := 1; i <= 2; i++ {
			remove := moveCallAt(t, tx, i, "vector", "remove")
			// Each extraction pops the head of the returned vector.
			require.Len(t, remove.Arguments, 2)
			assert.Equal(t, types.ResultArg(0), remove.Arguments[0])
			assert.Equal(t, "0x2::coin::Coin<0x2::sui::SUI>", remove.TypeArguments[0].String())
		}

		destroy := moveCallAt(t, tx, 3, "vector", "destroy_empty")
		require.Len(t, destroy.Arguments, 1)
		assert.Equal(t, types.ResultArg(0), destroy.Arguments[0])

		assert.Equal(t, []types.Argument{types.ResultArg(1), types.ResultArg(2)}, out)
	})

	t.Run("count below two rejected", func(t *testing.T) {
		for _, count := range []uint64{0, 1} {
			tx := txn.New(svc, txn.WithSender(sender))
			_, err := tx.SplitCoinAndReturn(ctx, txn.Object(coin), count, "")
			_, ok := pysui.IsValidation(err)
			require.True(t, ok, "count %d: got %v", count, err)
			assert.Empty(t, tx.Kind().Programmable.Commands)
		}
	})
}

func TestMergeCoinsValidation(t *testing.T) {
	coin := types.MustAddress("0xc0")
	other := types.MustAddress("0xc1")
	svc := serviceWith(
		txtest.OwnedCoin(coin, sender, 1_000_000),
		txtest.OwnedCoin(other, sender, 1_000_000),
	)
	ctx := context.Background()

	t.Run("returns the destination handle", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		dest, err := tx.MergeCoins(ctx, txn.Object(coin), []txn.Value{txn.Object(other)})
		require.NoError(t, err)
		cmd := tx.Kind().Programmable.Commands[0]
		require.Equal(t, types.CommandMergeCoins, cmd.Kind)
		assert.Equal(t, cmd.MergeCoins.Destination, dest)
	})

	t.Run("pure destination rejected", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.MergeCoins(ctx, txn.U64(1), []txn.Value{txn.Object(other)})
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})

	t.Run("no sources rejected", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.MergeCoins(ctx, txn.Object(coin), nil)
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})
}

func TestTransferObjectsValidation(t *testing.T) {
	obj := types.MustAddress("0x0b1")
	svc := serviceWith(txtest.OwnedObject(obj, sender, "0x2::test::Thing"))
	ctx := context.Background()

	t.Run("object recipient rejected", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.TransferObjects(ctx, []txn.Value{txn.Object(obj)}, txn.Object(obj))
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})

	t.Run("pure object rejected", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.TransferObjects(ctx, []txn.Value{txn.U64(1)}, txn.Address(recipient))
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})
}

func TestTransferSui(t *testing.T) {
	coin := types.MustAddress("0xc0")
	svc := serviceWith(txtest.OwnedCoin(coin, sender, 1_000_000))
	ctx := context.Background()

	t.Run("whole coin", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.TransferSui(ctx, recipient, txn.Object(coin), nil)
		require.NoError(t, err)
		cmds := tx.Kind().Programmable.Commands
		require.Len(t, cmds, 1)
		assert.Equal(t, types.CommandTransferObjects, cmds[0].Kind)
	})

	t.Run("partial amount splits first", func(t *testing.T) {
		amount := uint64(2500)
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.TransferSui(ctx, recipient, txn.Object(coin), &amount)
		require.NoError(t, err)

		cmds := tx.Kind().Programmable.Commands
		require.Len(t, cmds, 2)
		require.Equal(t, types.CommandSplitCoins, cmds[0].Kind)
		require.Equal(t, types.CommandTransferObjects, cmds[1].Kind)
		// The freshly split coin is what moves.
		assert.Equal(t, types.ResultArg(0), cmds[1].TransferObjects.Objects[0])
	})
}

func TestPublicTransferObject(t *testing.T) {
	obj := types.MustAddress("0x0b1")
	svc := serviceWith(txtest.OwnedObject(obj, sender, "0x2::test::Thing"))
	tx := txn.New(svc, txn.WithSender(sender))

	_, err := tx.PublicTransferObject(context.Background(), txn.Object(obj), recipient, "0x2::test::Thing")
	require.NoError(t, err)

	mc := moveCallAt(t, tx, 0, "transfer", "public_transfer")
	require.Len(t, mc.TypeArguments, 1)
	assert.Equal(t, "0x2::test::Thing", mc.TypeArguments[0].String())
	require.Len(t, mc.Arguments, 2)
}

func TestStakeCoin(t *testing.T) {
	coin := types.MustAddress("0xc0")
	validator := types.MustAddress("0x7a11")
	svc := serviceWith(txtest.OwnedCoin(coin, sender, 1_000_000))
	tx := txn.New(svc, txn.WithSender(sender))

	_, err := tx.StakeCoin(context.Background(), []txn.Value{txn.Object(coin)}, validator, nil)
	require.NoError(t, err)

	cmds := tx.Kind().Programmable.Commands
	require.Len(t, cmds, 2)
	require.Equal(t, types.CommandMakeMoveVec, cmds[0].Kind)
	mc := moveCallAt(t, tx, 1, "sui_system", "request_add_stake_mul_coin")
	require.Len(t, mc.Arguments, 4)
	assert.Equal(t, types.ResultArg(0), mc.Arguments[1])

	// The first argument is the shared system state, mutably borrowed.
	state := mc.Arguments[0]
	require.Equal(t, types.ArgInput, state.Kind)
	in := tx.Kind().Programmable.Inputs[state.Input]
	require.Equal(t, types.ObjectArgShared, in.Object.Kind)
	assert.Equal(t, types.MustAddress("0x5"), in.Object.SharedRef.ObjectID)
	assert.Equal(t, uint64(1), in.Object.SharedRef.InitialSharedVersion)
	assert.True(t, in.Object.SharedRef.Mutable)
}

func TestUnstakeCoin(t *testing.T) {
	staked := types.MustAddress("0x57a4e")
	svc := serviceWith(txtest.OwnedObject(staked, sender, "0x3::staking_pool::StakedSui"))
	tx := txn.New(svc, txn.WithSender(sender))

	_, err := tx.UnstakeCoin(context.Background(), txn.Object(staked))
	require.NoError(t, err)

	mc := moveCallAt(t, tx, 0, "sui_system", "request_withdraw_stake")
	require.Len(t, mc.Arguments, 2)
}

func TestOversizedPureValueFailsTheCall(t *testing.T) {
	svc := &txtest.MockService{}
	tx := txn.New(svc, txn.WithSender(sender))

	// 2^200 does not fit u128; the carried error surfaces here.
	big := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	_, err := tx.MoveCall(context.Background(), "0x42::demo::take_u128",
		[]txn.Value{txn.U128(big)}, nil)
	_, ok := pysui.IsValidation(err)
	require.True(t, ok, "got %v", err)
}
