package txn

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/bcs"
	"github.com/robmcl4/pysui/types"
)

const upgradeCapTypeSuffix = "::package::UpgradeCap"

// AuthorizeUpgradeFunc produces the upgrade ticket consumed by the
// upgrade command. The default implementation calls the framework's
// authorize_upgrade with the capability's stored policy; callers with
// custom upgrade protocols supply their own.
type AuthorizeUpgradeFunc func(ctx context.Context, t *Transaction, cap types.ObjectRecord, digest []byte) (types.Argument, error)

// CommitUpgradeFunc finalizes an upgrade from its receipt. The
// default implementation calls the framework's commit_upgrade.
type CommitUpgradeFunc func(ctx context.Context, t *Transaction, cap types.ObjectRecord, receipt types.Argument) (types.Argument, error)

// Publish appends a publish command for compiled module bytes and
// their dependency packages. Returns the handle of the new package's
// upgrade capability, which the caller should transfer or keep.
func (t *Transaction) Publish(modules [][]byte, dependencies []types.Address) (types.Argument, error) {
	if err := t.guard.checkBuilding("Publish"); err != nil {
		return types.Argument{}, err
	}
	if len(modules) == 0 {
		return types.Argument{}, pysui.NewValidationError("publish", "at least one module is required")
	}
	idx := t.builder.command(types.Command{
		Kind:    types.CommandPublish,
		Publish: &types.PublishCommand{Modules: modules, Dependencies: dependencies},
	})
	return types.ResultArg(idx), nil
}

// PublishUpgrade upgrades the package at packageID using the
// framework's standard authorize/commit protocol around the upgrade
// command.
func (t *Transaction) PublishUpgrade(ctx context.Context, modules [][]byte, dependencies []types.Address, packageID types.Address, upgradeCap Value) (types.Argument, error) {
	return t.CustomUpgrade(ctx, authorizeUpgrade, commitUpgrade, modules, dependencies, packageID, upgradeCap)
}

// CustomUpgrade upgrades a package with caller-supplied authorize and
// commit steps: authorize produces the upgrade ticket, the upgrade
// command consumes it, and commit consumes the resulting receipt. The
// capability is verified to be an upgrade capability before any
// command is appended.
func (t *Transaction) CustomUpgrade(ctx context.Context, authorize AuthorizeUpgradeFunc, commit CommitUpgradeFunc, modules [][]byte, dependencies []types.Address, packageID types.Address, upgradeCap Value) (types.Argument, error) {
	const op = "custom_upgrade"
	if err := t.guard.checkBuilding("CustomUpgrade"); err != nil {
		return types.Argument{}, err
	}
	if authorize == nil || commit == nil {
		return types.Argument{}, pysui.NewValidationError(op, "authorize and commit steps are required")
	}
	if len(modules) == 0 {
		return types.Argument{}, pysui.NewValidationError(op, "at least one module is required")
	}
	cap, err := t.upgradeCapRecord(ctx, upgradeCap)
	if err != nil {
		return types.Argument{}, err
	}

	ticket, err := authorize(ctx, t, cap, packageDigest(modules, dependencies))
	if err != nil {
		return types.Argument{}, err
	}
	idx := t.builder.command(types.Command{
		Kind: types.CommandUpgrade,
		Upgrade: &types.UpgradeCommand{
			Modules:      modules,
			Dependencies: dependencies,
			Package:      packageID,
			Ticket:       ticket,
		},
	})
	return commit(ctx, t, cap, types.ResultArg(idx))
}

// upgradeCapRecord fetches and verifies the upgrade capability.
func (t *Transaction) upgradeCapRecord(ctx context.Context, cap Value) (types.ObjectRecord, error) {
	const op = "custom_upgrade"
	var rec types.ObjectRecord
	switch cap.kind {
	case valueRecord:
		rec = cap.record
	case valueObjectID:
		fetched, err := t.svc.GetObject(ctx, cap.id)
		if err != nil {
			return types.ObjectRecord{}, &pysui.ResolutionError{
				Reason:  "unable to fetch upgrade capability",
				Missing: []types.Address{cap.id},
				Err:     err,
			}
		}
		rec = fetched
	default:
		return types.ObjectRecord{}, pysui.NewValidationError(op,
			"upgrade capability must be an object identifier or record")
	}
	if !strings.HasSuffix(rec.ObjectType, upgradeCapTypeSuffix) {
		return types.ObjectRecord{}, pysui.NewValidationError(op,
			"object %s is a %s, not an upgrade capability", rec.ObjectID, rec.ObjectType)
	}
	return rec, nil
}

// upgradeCapPolicy reads the capability's upgrade policy byte from
// its canonical content: UID, package address and version precede it.
func upgradeCapPolicy(rec types.ObjectRecord) (uint8, error) {
	d := bcs.NewDecoder(rec.Content)
	if _, err := d.ReadFixedBytes(32); err == nil {
		if _, err := d.ReadFixedBytes(32); err == nil {
			if _, err := d.ReadU64(); err == nil {
				if policy, err := d.ReadU8(); err == nil {
					return policy, nil
				}
			}
		}
	}
	return 0, &pysui.ResolutionError{
		Reason: "upgrade capability " + rec.ObjectID.String() + " has malformed content",
	}
}

// packageDigest hashes the package's identity for upgrade
// authorization: all module byte strings and dependency addresses,
// sorted, under blake2b-256.
func packageDigest(modules [][]byte, dependencies []types.Address) []byte {
	items := make([][]byte, 0, len(modules)+len(dependencies))
	items = append(items, modules...)
	for _, dep := range dependencies {
		dep := dep
		items = append(items, dep[:])
	}
	sort.Slice(items, func(i, j int) bool { return bytes.Compare(items[i], items[j]) < 0 })
	h, _ := blake2b.New256(nil)
	for _, it := range items {
		h.Write(it)
	}
	return h.Sum(nil)
}

func authorizeUpgrade(ctx context.Context, t *Transaction, cap types.ObjectRecord, digest []byte) (types.Argument, error) {
	policy, err := upgradeCapPolicy(cap)
	if err != nil {
		return types.Argument{}, err
	}
	return t.rawMoveCall(ctx, "publish_upgrade", suiFramework, "package", "authorize_upgrade", nil,
		[]Value{Record(cap), U8(policy), Bytes(digest)})
}

func commitUpgrade(ctx context.Context, t *Transaction, cap types.ObjectRecord, receipt types.Argument) (types.Argument, error) {
	return t.rawMoveCall(ctx, "publish_upgrade", suiFramework, "package", "commit_upgrade", nil,
		[]Value{Record(cap), Arg(receipt)})
}
