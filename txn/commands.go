package txn

import (
	"context"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/types"
)

// Well-known framework packages and objects.
var (
	stdPackage       = types.MustAddress("0x1")
	suiFramework     = types.MustAddress("0x2")
	suiSystemPackage = types.MustAddress("0x3")
	suiSystemStateID = types.MustAddress("0x5")
)

// suiCoinType is the default coin type of the split helpers.
const suiCoinType = "0x2::sui::SUI"

// systemState is the shared system-state object consumed by staking
// calls. Shared at genesis with version 1; staking mutates it.
func systemState() Value {
	return ObjectArgument(types.SharedObject(types.SharedObjectRef{
		ObjectID:             suiSystemStateID,
		InitialSharedVersion: 1,
		Mutable:              true,
	}))
}

// resultHandles returns the argument handles produced by command cmd
// with the given return arity: a single Result for arity ≤ 1, one
// NestedResult per return value otherwise.
func resultHandles(cmd uint16, returnCount uint32) []types.Argument {
	if returnCount <= 1 {
		return []types.Argument{types.ResultArg(cmd)}
	}
	out := make([]types.Argument, returnCount)
	for i := range out {
		out[i] = types.NestedResultArg(cmd, uint16(i))
	}
	return out
}

// rawMoveCall appends a move call whose target needs no metadata
// lookup (the framework helpers the composite expansions use). The
// single result handle is returned.
func (t *Transaction) rawMoveCall(ctx context.Context, op string, pkg types.Address, module, function string, typeArgs []types.TypeTag, vals []Value) (types.Argument, error) {
	args, err := t.resolver.resolve(ctx, t.builder, op, vals)
	if err != nil {
		return types.Argument{}, err
	}
	idx := t.builder.command(types.Command{
		Kind: types.CommandMoveCall,
		MoveCall: &types.ProgrammableMoveCall{
			Package:       pkg,
			Module:        module,
			Function:      function,
			TypeArguments: typeArgs,
			Arguments:     args,
		},
	})
	return types.ResultArg(idx), nil
}

func parseTypeArgs(op string, typeArgs []string) ([]types.TypeTag, error) {
	if len(typeArgs) == 0 {
		return nil, nil
	}
	tags := make([]types.TypeTag, len(typeArgs))
	for i, s := range typeArgs {
		tag, err := types.ParseTypeTag(s)
		if err != nil {
			return nil, pysui.NewValidationError(op, "type argument %d: %v", i, err)
		}
		tags[i] = tag
	}
	return tags, nil
}

// MoveCall appends a call to target, a "package::module::function"
// string. Target metadata is resolved through the per-transaction
// cache; argument positions whose declared parameter is mutable have
// their shared-object inputs patched to mutable borrows. Returns one
// argument handle per declared return value.
func (t *Transaction) MoveCall(ctx context.Context, target string, args []Value, typeArgs []string) ([]types.Argument, error) {
	if err := t.guard.checkBuilding("MoveCall"); err != nil {
		return nil, err
	}
	entry, err := t.cache.resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	tags, err := parseTypeArgs("move_call", typeArgs)
	if err != nil {
		return nil, err
	}
	resolved, err := t.resolver.resolve(ctx, t.builder, "move_call", args)
	if err != nil {
		return nil, err
	}
	for i, v := range args {
		if v.isObject() && i < len(entry.meta.Parameters) && entry.meta.Parameters[i].Mutable {
			t.builder.markMutable(resolved[i])
		}
	}
	idx := t.builder.command(types.Command{
		Kind: types.CommandMoveCall,
		MoveCall: &types.ProgrammableMoveCall{
			Package:       entry.pkg,
			Module:        entry.module,
			Function:      entry.function,
			TypeArguments: tags,
			Arguments:     resolved,
		},
	})
	return resultHandles(idx, entry.meta.ReturnCount), nil
}

// MakeMoveVector assembles items into a move vector. Elements must be
// homogeneous: with no declared element type the vector is
// object-only and rejects pure values; with a declared type, pure
// elements must all share the same scalar subtype.
func (t *Transaction) MakeMoveVector(ctx context.Context, items []Value, elemType string) (types.Argument, error) {
	const op = "make_move_vector"
	if err := t.guard.checkBuilding("MakeMoveVector"); err != nil {
		return types.Argument{}, err
	}
	var tag *types.TypeTag
	if elemType != "" {
		parsed, err := types.ParseTypeTag(elemType)
		if err != nil {
			return types.Argument{}, pysui.NewValidationError(op, "element type: %v", err)
		}
		tag = &parsed
	}

	// Pre-built arguments have unknown origin and are exempt from the
	// homogeneity check; everything else must share one category.
	category := ""
	for i, v := range items {
		if v.kind == valueArgument {
			continue
		}
		c := v.category()
		if category == "" {
			category = c
			continue
		}
		if c != category {
			return types.Argument{}, pysui.NewValidationError(op,
				"element %d is %s, previous elements are %s", i, c, category)
		}
	}
	if tag == nil && category != "" && category != "object" {
		return types.Argument{}, pysui.NewValidationError(op,
			"vector without a declared element type is object-only, got %s elements", category)
	}

	resolved, err := t.resolver.resolve(ctx, t.builder, op, items)
	if err != nil {
		return types.Argument{}, err
	}
	idx := t.builder.command(types.Command{
		Kind:        types.CommandMakeMoveVec,
		MakeMoveVec: &types.MakeMoveVecCommand{TypeTag: tag, Elements: resolved},
	})
	return types.ResultArg(idx), nil
}

// SplitCoin splits amounts off coin, producing one new coin per
// amount. Returns one handle per split: a single Result for one
// amount, NestedResults otherwise.
func (t *Transaction) SplitCoin(ctx context.Context, coin Value, amounts []Value) ([]types.Argument, error) {
	const op = "split_coin"
	if err := t.guard.checkBuilding("SplitCoin"); err != nil {
		return nil, err
	}
	if len(amounts) == 0 {
		return nil, pysui.NewValidationError(op, "at least one amount is required")
	}
	if coin.kind == valuePure {
		return nil, pysui.NewValidationError(op, "coin must be an object or argument, not a pure value")
	}
	resolved, err := t.resolver.resolve(ctx, t.builder, op, append([]Value{coin}, amounts...))
	if err != nil {
		return nil, err
	}
	idx := t.builder.command(types.Command{
		Kind:       types.CommandSplitCoins,
		SplitCoins: &types.SplitCoinsCommand{Coin: resolved[0], Amounts: resolved[1:]},
	})
	return resultHandles(idx, uint32(len(amounts))), nil
}

// SplitCoinEqual divides coin into splitCount equal parts, all kept
// by the sender. coinType defaults to the SUI coin.
func (t *Transaction) SplitCoinEqual(ctx context.Context, coin Value, splitCount uint64, coinType string) (types.Argument, error) {
	const op = "split_coin_equal"
	if err := t.guard.checkBuilding("SplitCoinEqual"); err != nil {
		return types.Argument{}, err
	}
	if splitCount == 0 {
		return types.Argument{}, pysui.NewValidationError(op, "split count must be positive")
	}
	if coinType == "" {
		coinType = suiCoinType
	}
	tag, err := types.ParseTypeTag(coinType)
	if err != nil {
		return types.Argument{}, pysui.NewValidationError(op, "coin type: %v", err)
	}
	return t.rawMoveCall(ctx, op, suiFramework, "pay", "divide_and_keep",
		[]types.TypeTag{tag}, []Value{coin, U64(splitCount)})
}

// SplitCoinAndReturn divides coin into splitCount parts and unpacks
// the callee's returned vector into discrete coin handles: one
// divide call, splitCount−1 vector removes, and a final destroy of
// the emptied vector. Returns the splitCount−1 extracted coins; the
// remainder stays in the original coin.
func (t *Transaction) SplitCoinAndReturn(ctx context.Context, coin Value, splitCount uint64, coinType string) ([]types.Argument, error) {
	const op = "split_coin_and_return"
	if err := t.guard.checkBuilding("SplitCoinAndReturn"); err != nil {
		return nil, err
	}
	if splitCount < 2 {
		return nil, pysui.NewValidationError(op, "split count %d must be at least 2", splitCount)
	}
	if coinType == "" {
		coinType = suiCoinType
	}
	coinTag, err := types.ParseTypeTag(coinType)
	if err != nil {
		return nil, pysui.NewValidationError(op, "coin type: %v", err)
	}
	wrappedTag, err := types.ParseTypeTag("0x2::coin::Coin<" + coinType + ">")
	if err != nil {
		return nil, pysui.NewValidationError(op, "coin type: %v", err)
	}

	vec, err := t.rawMoveCall(ctx, op, suiFramework, "coin", "divide_into_n",
		[]types.TypeTag{coinTag}, []Value{coin, U64(splitCount)})
	if err != nil {
		return nil, err
	}
	coins := make([]types.Argument, 0, splitCount-1)
	for i := uint64(0); i < splitCount-1; i++ {
		c, err := t.rawMoveCall(ctx, op, stdPackage, "vector", "remove",
			[]types.TypeTag{wrappedTag}, []Value{Arg(vec), U64(0)})
		if err != nil {
			return nil, err
		}
		coins = append(coins, c)
	}
	// The emptied vector must be destroyed last.
	if _, err := t.rawMoveCall(ctx, op, stdPackage, "vector", "destroy_empty",
		[]types.TypeTag{wrappedTag}, []Value{Arg(vec)}); err != nil {
		return nil, err
	}
	return coins, nil
}

// MergeCoins merges sources into mergeTo and returns the destination
// handle.
func (t *Transaction) MergeCoins(ctx context.Context, mergeTo Value, sources []Value) (types.Argument, error) {
	const op = "merge_coins"
	if err := t.guard.checkBuilding("MergeCoins"); err != nil {
		return types.Argument{}, err
	}
	if len(sources) == 0 {
		return types.Argument{}, pysui.NewValidationError(op, "at least one source coin is required")
	}
	if mergeTo.kind == valuePure {
		return types.Argument{}, pysui.NewValidationError(op, "destination must be an object or argument, not a pure value")
	}
	resolved, err := t.resolver.resolve(ctx, t.builder, op, append([]Value{mergeTo}, sources...))
	if err != nil {
		return types.Argument{}, err
	}
	t.builder.command(types.Command{
		Kind:       types.CommandMergeCoins,
		MergeCoins: &types.MergeCoinsCommand{Destination: resolved[0], Sources: resolved[1:]},
	})
	return resolved[0], nil
}

// TransferObjects sends objects to recipient, an address value or a
// pre-built argument.
func (t *Transaction) TransferObjects(ctx context.Context, objects []Value, recipient Value) (types.Argument, error) {
	const op = "transfer_objects"
	if err := t.guard.checkBuilding("TransferObjects"); err != nil {
		return types.Argument{}, err
	}
	if len(objects) == 0 {
		return types.Argument{}, pysui.NewValidationError(op, "at least one object is required")
	}
	if recipient.isObject() {
		return types.Argument{}, pysui.NewValidationError(op, "recipient must be an address, not an object")
	}
	for i, o := range objects {
		if o.kind == valuePure {
			return types.Argument{}, pysui.NewValidationError(op, "object %d is a pure value", i)
		}
	}
	resolved, err := t.resolver.resolve(ctx, t.builder, op, append(objects[:len(objects):len(objects)], recipient))
	if err != nil {
		return types.Argument{}, err
	}
	idx := t.builder.command(types.Command{
		Kind: types.CommandTransferObjects,
		TransferObjects: &types.TransferObjectsCommand{
			Objects:   resolved[:len(objects)],
			Recipient: resolved[len(objects)],
		},
	})
	return types.ResultArg(idx), nil
}

// TransferSui sends amount from fromCoin to recipient, or the whole
// coin when amount is nil. With an amount, the coin is split first
// and the new coin transferred; the original stays with the sender.
func (t *Transaction) TransferSui(ctx context.Context, recipient types.Address, fromCoin Value, amount *uint64) (types.Argument, error) {
	const op = "transfer_sui"
	if err := t.guard.checkBuilding("TransferSui"); err != nil {
		return types.Argument{}, err
	}
	if fromCoin.kind == valuePure {
		return types.Argument{}, pysui.NewValidationError(op, "coin must be an object or argument, not a pure value")
	}
	toSend := fromCoin
	if amount != nil {
		split, err := t.SplitCoin(ctx, fromCoin, []Value{U64(*amount)})
		if err != nil {
			return types.Argument{}, err
		}
		toSend = Arg(split[0])
	}
	return t.TransferObjects(ctx, []Value{toSend}, Address(recipient))
}

// PublicTransferObject transfers an object through the framework's
// public_transfer entry point, which works for any object with the
// store ability. objectType names the object's full move type.
func (t *Transaction) PublicTransferObject(ctx context.Context, object Value, recipient types.Address, objectType string) (types.Argument, error) {
	const op = "public_transfer_object"
	if err := t.guard.checkBuilding("PublicTransferObject"); err != nil {
		return types.Argument{}, err
	}
	if object.kind == valuePure {
		return types.Argument{}, pysui.NewValidationError(op, "object must be an object or argument, not a pure value")
	}
	tag, err := types.ParseTypeTag(objectType)
	if err != nil {
		return types.Argument{}, pysui.NewValidationError(op, "object type: %v", err)
	}
	return t.rawMoveCall(ctx, op, suiFramework, "transfer", "public_transfer",
		[]types.TypeTag{tag}, []Value{object, Address(recipient)})
}

// StakeCoin stakes coins with a validator. With a nil amount the
// whole combined balance is staked; otherwise only amount is.
func (t *Transaction) StakeCoin(ctx context.Context, coins []Value, validator types.Address, amount *uint64) (types.Argument, error) {
	const op = "stake_coin"
	if err := t.guard.checkBuilding("StakeCoin"); err != nil {
		return types.Argument{}, err
	}
	if len(coins) == 0 {
		return types.Argument{}, pysui.NewValidationError(op, "at least one coin is required")
	}
	vec, err := t.MakeMoveVector(ctx, coins, "0x2::coin::Coin<"+suiCoinType+">")
	if err != nil {
		return types.Argument{}, err
	}
	return t.rawMoveCall(ctx, op, suiSystemPackage, "sui_system", "request_add_stake_mul_coin", nil,
		[]Value{systemState(), Arg(vec), OptionU64(amount), Address(validator)})
}

// UnstakeCoin withdraws a staked position.
func (t *Transaction) UnstakeCoin(ctx context.Context, stakedSui Value) (types.Argument, error) {
	const op = "unstake_coin"
	if err := t.guard.checkBuilding("UnstakeCoin"); err != nil {
		return types.Argument{}, err
	}
	if stakedSui.kind == valuePure {
		return types.Argument{}, pysui.NewValidationError(op, "staked object must be an object or argument, not a pure value")
	}
	return t.rawMoveCall(ctx, op, suiSystemPackage, "sui_system", "request_withdraw_stake", nil,
		[]Value{systemState(), stakedSui})
}
