package txn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmcl4/pysui"
	txtest "github.com/robmcl4/pysui/testing"
	"github.com/robmcl4/pysui/txn"
	"github.com/robmcl4/pysui/types"
)

// upgradeCapContent lays out a capability's canonical fields: UID,
// package address, version, policy byte.
func upgradeCapContent(policy byte) []byte {
	content := make([]byte, 73)
	content[72] = policy
	return content
}

func upgradeCap(id types.Address, policy byte) types.ObjectRecord {
	rec := txtest.OwnedObject(id, sender, "0x2::package::UpgradeCap")
	rec.Content = upgradeCapContent(policy)
	return rec
}

func TestPublish(t *testing.T) {
	modules := [][]byte{{0xa1, 0x1c, 0xeb, 0x0b}}
	deps := []types.Address{types.MustAddress("0x1"), types.MustAddress("0x2")}

	t.Run("appends one command", func(t *testing.T) {
		tx := txn.New(&txtest.MockService{}, txn.WithSender(sender))
		cap, err := tx.Publish(modules, deps)
		require.NoError(t, err)
		assert.Equal(t, types.ResultArg(0), cap)

		cmds := tx.Kind().Programmable.Commands
		require.Len(t, cmds, 1)
		require.Equal(t, types.CommandPublish, cmds[0].Kind)
		assert.Equal(t, modules, cmds[0].Publish.Modules)
		assert.Equal(t, deps, cmds[0].Publish.Dependencies)
	})

	t.Run("no modules rejected", func(t *testing.T) {
		tx := txn.New(&txtest.MockService{}, txn.WithSender(sender))
		_, err := tx.Publish(nil, deps)
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})
}

func TestPublishUpgrade(t *testing.T) {
	capID := types.MustAddress("0xca9")
	packageID := types.MustAddress("0x9c6")
	modules := [][]byte{{0xa1, 0x1c, 0xeb, 0x0b}}
	deps := []types.Address{types.MustAddress("0x1")}

	svc := serviceWith(upgradeCap(capID, 192))
	tx := txn.New(svc, txn.WithSender(sender))

	receipt, err := tx.PublishUpgrade(context.Background(), modules, deps, packageID, txn.Object(capID))
	require.NoError(t, err)

	// Authorize, upgrade, commit, in that order.
	cmds := tx.Kind().Programmable.Commands
	require.Len(t, cmds, 3)

	authorize := moveCallAt(t, tx, 0, "package", "authorize_upgrade")
	require.Len(t, authorize.Arguments, 3)

	require.Equal(t, types.CommandUpgrade, cmds[1].Kind)
	assert.Equal(t, packageID, cmds[1].Upgrade.Package)
	assert.Equal(t, modules, cmds[1].Upgrade.Modules)
	assert.Equal(t, types.ResultArg(0), cmds[1].Upgrade.Ticket)

	commit := moveCallAt(t, tx, 2, "package", "commit_upgrade")
	require.Len(t, commit.Arguments, 2)
	assert.Equal(t, types.ResultArg(1), commit.Arguments[1])
	assert.Equal(t, types.ResultArg(2), receipt)

	// The capability's stored policy rides along as a pure input.
	var policies [][]byte
	for _, in := range tx.Kind().Programmable.Inputs {
		if in.Kind == types.CallArgPure && len(in.Pure) == 1 {
			policies = append(policies, in.Pure)
		}
	}
	require.Len(t, policies, 1)
	assert.Equal(t, []byte{192}, policies[0])
}

func TestUpgradeCapVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong type rejected", func(t *testing.T) {
		notACap := txtest.OwnedObject(types.MustAddress("0x0b1"), sender, "0x2::coin::Coin<0x2::sui::SUI>")
		tx := txn.New(serviceWith(notACap), txn.WithSender(sender))
		_, err := tx.PublishUpgrade(ctx, [][]byte{{1}}, nil, types.MustAddress("0x9c6"), txn.Record(notACap))
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
		assert.Empty(t, tx.Kind().Programmable.Commands)
	})

	t.Run("pure capability rejected", func(t *testing.T) {
		tx := txn.New(&txtest.MockService{}, txn.WithSender(sender))
		_, err := tx.PublishUpgrade(ctx, [][]byte{{1}}, nil, types.MustAddress("0x9c6"), txn.U64(1))
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})

	t.Run("unknown capability id", func(t *testing.T) {
		tx := txn.New(serviceWith(), txn.WithSender(sender))
		missing := types.MustAddress("0xdead")
		_, err := tx.PublishUpgrade(ctx, [][]byte{{1}}, nil, types.MustAddress("0x9c6"), txn.Object(missing))
		res, ok := pysui.IsResolution(err)
		require.True(t, ok, "got %v", err)
		assert.Contains(t, res.Missing, missing)
	})

	t.Run("malformed content", func(t *testing.T) {
		cap := txtest.OwnedObject(types.MustAddress("0xca9"), sender, "0x2::package::UpgradeCap")
		cap.Content = []byte{1, 2, 3}
		tx := txn.New(serviceWith(cap), txn.WithSender(sender))
		_, err := tx.PublishUpgrade(ctx, [][]byte{{1}}, nil, types.MustAddress("0x9c6"), txn.Record(cap))
		_, ok := pysui.IsResolution(err)
		require.True(t, ok, "got %v", err)
	})
}

func TestCustomUpgradeStrategies(t *testing.T) {
	capID := types.MustAddress("0xca9")
	packageID := types.MustAddress("0x9c6")
	svc := serviceWith(upgradeCap(capID, 0))
	tx := txn.New(svc, txn.WithSender(sender))
	ctx := context.Background()

	var sawDigest []byte
	_, err := tx.CustomUpgrade(ctx,
		func(ctx context.Context, tr *txn.Transaction, cap types.ObjectRecord, digest []byte) (types.Argument, error) {
			sawDigest = digest
			args, err := tr.MoveCall(ctx, "0x42::policy::authorize", []txn.Value{txn.Record(cap)}, nil)
			if err != nil {
				return types.Argument{}, err
			}
			return args[0], nil
		},
		func(ctx context.Context, tr *txn.Transaction, cap types.ObjectRecord, receipt types.Argument) (types.Argument, error) {
			return receipt, nil
		},
		[][]byte{{1}}, nil, packageID, txn.Object(capID))
	require.NoError(t, err)

	// The package digest is computed before authorization runs.
	assert.Len(t, sawDigest, 32)

	cmds := tx.Kind().Programmable.Commands
	require.Len(t, cmds, 2)
	moveCallAt(t, tx, 0, "policy", "authorize")
	require.Equal(t, types.CommandUpgrade, cmds[1].Kind)
	assert.Equal(t, types.ResultArg(0), cmds[1].Upgrade.Ticket)

	t.Run("nil strategies rejected", func(t *testing.T) {
		tx := txn.New(svc, txn.WithSender(sender))
		_, err := tx.CustomUpgrade(ctx, nil, nil, [][]byte{{1}}, nil, packageID, txn.Object(capID))
		_, ok := pysui.IsValidation(err)
		require.True(t, ok, "got %v", err)
	})
}
