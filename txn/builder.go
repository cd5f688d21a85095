package txn

import (
	"github.com/robmcl4/pysui/types"
)

// builder is the append-only input table and command log of one
// transaction. Object inputs are deduplicated by identifier: the same
// object reused across commands binds to the same input-table slot.
// Pure inputs are never deduplicated; each occurrence is a fresh
// entry. Private to one transaction, single-writer.
type builder struct {
	inputs   []types.CallArg
	commands []types.Command
	// objectSlots maps an object identifier to its input-table index.
	objectSlots map[types.Address]uint16
	// reservedGas is the explicitly configured gas coin, if any. It may
	// never appear as a transaction input.
	reservedGas *types.Address
}

// reservesGas reports whether id is the configured gas coin.
func (b *builder) reservesGas(id types.Address) bool {
	return b.reservedGas != nil && *b.reservedGas == id
}

func newBuilder() *builder {
	return &builder{objectSlots: make(map[types.Address]uint16)}
}

// pureInput appends an already-encoded pure payload and returns its
// input handle.
func (b *builder) pureInput(payload []byte) types.Argument {
	idx := uint16(len(b.inputs))
	b.inputs = append(b.inputs, types.PureCallArg(payload))
	return types.InputArg(idx)
}

// objectInput appends an object argument, or returns the existing
// handle if the object is already in the table.
func (b *builder) objectInput(oa types.ObjectArg) types.Argument {
	id := oa.ID()
	if idx, ok := b.objectSlots[id]; ok {
		return types.InputArg(idx)
	}
	idx := uint16(len(b.inputs))
	b.inputs = append(b.inputs, types.ObjectCallArg(oa))
	b.objectSlots[id] = idx
	return types.InputArg(idx)
}

// hasObject reports whether an object is already registered as an
// input. Used for the gas-object-in-use check.
func (b *builder) hasObject(id types.Address) bool {
	_, ok := b.objectSlots[id]
	return ok
}

// command appends cmd to the log and returns its index. Later commands
// may reference results of strictly earlier indices.
func (b *builder) command(cmd types.Command) uint16 {
	idx := uint16(len(b.commands))
	b.commands = append(b.commands, cmd)
	return idx
}

// markMutable patches the shared-object input behind arg to a mutable
// borrow. Move-call resolution applies this to argument positions
// whose declared parameter is mutable; without the patch the shared
// reference would default to an immutable borrow. No-op for non-input
// arguments and non-shared objects.
func (b *builder) markMutable(arg types.Argument) {
	if arg.Kind != types.ArgInput || int(arg.Input) >= len(b.inputs) {
		return
	}
	in := &b.inputs[arg.Input]
	if in.Kind == types.CallArgObject && in.Object.Kind == types.ObjectArgShared {
		in.Object.SharedRef.Mutable = true
	}
}

// render walks the accumulated tables into the wire-level transaction
// kind. The builder is not consumed; rendering is repeatable.
func (b *builder) render() types.ProgrammableTransaction {
	return types.ProgrammableTransaction{
		Inputs:   b.inputs,
		Commands: b.commands,
	}
}
