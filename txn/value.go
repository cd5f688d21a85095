package txn

import (
	"github.com/holiman/uint256"

	"github.com/robmcl4/pysui/bcs"
	"github.com/robmcl4/pysui/types"
)

// valueKind discriminates the Value union.
type valueKind uint8

const (
	// valuePure is an already-encoded canonical byte payload.
	valuePure valueKind = iota
	// valueObjectID is an object identifier that still needs a fetch.
	valueObjectID
	// valueRecord is a pre-fetched object record with ownership info.
	valueRecord
	// valueRef is an exact object reference, taken as owned.
	valueRef
	// valueObjectArg is a fully-formed protocol object argument.
	valueObjectArg
	// valueArgument is a pre-built command argument, passed through.
	valueArgument
)

// Value is the closed union of shapes a builder call accepts as an
// argument. Each accepted shape has exactly one constructor; builder
// calls normalize a Value at the boundary instead of dispatching on
// runtime types. A Value carrying a construction error fails the
// builder call it is passed to with a ValidationError.
type Value struct {
	kind valueKind
	err  error

	pure []byte
	// pureType names the scalar subtype of a pure payload, for
	// vector homogeneity checks.
	pureType string

	id     types.Address
	record types.ObjectRecord
	ref    types.ObjectRef
	objArg types.ObjectArg
	arg    types.Argument
}

// Object references an on-chain object by identifier; resolution
// fetches its record to classify ownership.
func Object(id types.Address) Value {
	return Value{kind: valueObjectID, id: id}
}

// Record wraps a pre-fetched object record; resolution classifies it
// without another fetch.
func Record(rec types.ObjectRecord) Value {
	return Value{kind: valueRecord, record: rec}
}

// Ref wraps an exact object reference, embedded as an owned object
// without a fetch.
func Ref(ref types.ObjectRef) Value {
	return Value{kind: valueRef, ref: ref}
}

// ObjectArgument wraps a fully-formed protocol object argument.
func ObjectArgument(oa types.ObjectArg) Value {
	return Value{kind: valueObjectArg, objArg: oa}
}

// Arg passes a previously returned command argument through unchanged.
func Arg(a types.Argument) Value {
	return Value{kind: valueArgument, arg: a}
}

func pure(subtype string, encode func(e *bcs.Encoder) error) Value {
	e := bcs.NewEncoder()
	if err := encode(e); err != nil {
		return Value{kind: valuePure, err: err}
	}
	return Value{kind: valuePure, pure: e.Bytes(), pureType: subtype}
}

// Bool encodes a pure bool.
func Bool(v bool) Value {
	return pure("bool", func(e *bcs.Encoder) error { e.WriteBool(v); return nil })
}

// U8 encodes a pure u8.
func U8(v uint8) Value {
	return pure("u8", func(e *bcs.Encoder) error { e.WriteU8(v); return nil })
}

// U16 encodes a pure u16.
func U16(v uint16) Value {
	return pure("u16", func(e *bcs.Encoder) error { e.WriteU16(v); return nil })
}

// U32 encodes a pure u32.
func U32(v uint32) Value {
	return pure("u32", func(e *bcs.Encoder) error { e.WriteU32(v); return nil })
}

// U64 encodes a pure u64.
func U64(v uint64) Value {
	return pure("u64", func(e *bcs.Encoder) error { e.WriteU64(v); return nil })
}

// U128 encodes a pure u128. Values wider than 128 bits fail the
// builder call the Value is passed to.
func U128(v *uint256.Int) Value {
	return pure("u128", func(e *bcs.Encoder) error { return e.WriteU128(v) })
}

// U256 encodes a pure u256.
func U256(v *uint256.Int) Value {
	return pure("u256", func(e *bcs.Encoder) error { e.WriteU256(v); return nil })
}

// Address encodes a pure address.
func Address(a types.Address) Value {
	return pure("address", func(e *bcs.Encoder) error { return a.MarshalBCS(e) })
}

// String encodes a pure length-prefixed UTF-8 string.
func String(s string) Value {
	return pure("string", func(e *bcs.Encoder) error { return e.WriteString(s) })
}

// Bytes encodes a pure vector<u8>.
func Bytes(b []byte) Value {
	return pure("vector<u8>", func(e *bcs.Encoder) error { return e.WriteBytes(b) })
}

// OptionU64 encodes a pure Option<u64>: nil is none.
func OptionU64(v *uint64) Value {
	return pure("option<u64>", func(e *bcs.Encoder) error {
		e.WriteOptionTag(v != nil)
		if v != nil {
			e.WriteU64(*v)
		}
		return nil
	})
}

// RawPure wraps bytes already in canonical form, inserted verbatim as
// a pure input. The caller is responsible for the encoding.
func RawPure(b []byte) Value {
	return Value{kind: valuePure, pure: b, pureType: "raw"}
}

// isObject reports whether the value resolves to an object input.
// Pre-built arguments are not objects: their origin is unknown.
func (v Value) isObject() bool {
	switch v.kind {
	case valueObjectID, valueRecord, valueRef, valueObjectArg:
		return true
	default:
		return false
	}
}

// objectID returns the on-chain identifier an object-like value names.
// Pure values and pre-built arguments carry no identifier.
func (v Value) objectID() (types.Address, bool) {
	switch v.kind {
	case valueObjectID:
		return v.id, true
	case valueRecord:
		return v.record.ObjectID, true
	case valueRef:
		return v.ref.ObjectID, true
	case valueObjectArg:
		return v.objArg.ID(), true
	default:
		return types.Address{}, false
	}
}

// category names the value's shape class for vector homogeneity
// checks: "object" for object-likes, the scalar subtype for pures.
func (v Value) category() string {
	if v.isObject() {
		return "object"
	}
	if v.kind == valuePure {
		return v.pureType
	}
	return "argument"
}
