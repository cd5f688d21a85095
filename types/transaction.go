package types

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/robmcl4/pysui/bcs"
)

// CallArgKind discriminates the CallArg union.
type CallArgKind uint8

const (
	// CallArgPure is an opaque canonical byte payload.
	CallArgPure CallArgKind = iota
	// CallArgObject is an object reference.
	CallArgObject
)

// CallArg is one entry of a transaction's input table: either a pure
// byte payload or an object reference.
type CallArg struct {
	Kind   CallArgKind
	Pure   []byte
	Object ObjectArg
}

// PureCallArg wraps already-encoded pure bytes.
func PureCallArg(b []byte) CallArg {
	return CallArg{Kind: CallArgPure, Pure: b}
}

// ObjectCallArg wraps an object argument.
func ObjectCallArg(o ObjectArg) CallArg {
	return CallArg{Kind: CallArgObject, Object: o}
}

func (c CallArg) MarshalBCS(e *bcs.Encoder) error {
	e.WriteVariant(uint8(c.Kind))
	switch c.Kind {
	case CallArgPure:
		return e.WriteBytes(c.Pure)
	case CallArgObject:
		return c.Object.MarshalBCS(e)
	default:
		return fmt.Errorf("types: unknown CallArg kind %d", c.Kind)
	}
}

func (c *CallArg) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	*c = CallArg{Kind: CallArgKind(tag)}
	switch c.Kind {
	case CallArgPure:
		b, err := d.ReadBytes()
		if err != nil {
			return err
		}
		c.Pure = b
		return nil
	case CallArgObject:
		return c.Object.UnmarshalBCS(d)
	default:
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unknown CallArg tag %d", tag)}
	}
}

// ProgrammableTransaction is the rendered command/input log: an
// ordered input table and an ordered command list.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

func (p ProgrammableTransaction) MarshalBCS(e *bcs.Encoder) error {
	if err := e.WriteLen(len(p.Inputs)); err != nil {
		return err
	}
	for _, in := range p.Inputs {
		if err := in.MarshalBCS(e); err != nil {
			return err
		}
	}
	if err := e.WriteLen(len(p.Commands)); err != nil {
		return err
	}
	for _, cmd := range p.Commands {
		if err := cmd.MarshalBCS(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProgrammableTransaction) UnmarshalBCS(d *bcs.Decoder) error {
	n, err := d.ReadLen()
	if err != nil {
		return err
	}
	// Empty sequences stay nil so decode(encode(v)) == v for values
	// built with nil slices.
	p.Inputs = nil
	if n > 0 {
		p.Inputs = make([]CallArg, n)
	}
	for i := range p.Inputs {
		if err := p.Inputs[i].UnmarshalBCS(d); err != nil {
			return err
		}
	}
	if n, err = d.ReadLen(); err != nil {
		return err
	}
	p.Commands = nil
	if n > 0 {
		p.Commands = make([]Command, n)
	}
	for i := range p.Commands {
		if err := p.Commands[i].UnmarshalBCS(d); err != nil {
			return err
		}
	}
	return nil
}

// TransactionKind is the union of transaction bodies. Only the
// programmable kind is built by this library; system transaction
// variants are produced by validators, never by clients.
type TransactionKind struct {
	Programmable ProgrammableTransaction
}

func (k TransactionKind) MarshalBCS(e *bcs.Encoder) error {
	e.WriteVariant(0)
	return k.Programmable.MarshalBCS(e)
}

func (k *TransactionKind) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	if tag != 0 {
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unsupported TransactionKind tag %d", tag)}
	}
	return k.Programmable.UnmarshalBCS(d)
}

// GasData names the fee payment: one or more coin references, the
// owner those coins belong to, the gas unit price and the budget.
// Computed once at finalize time and never mutated afterward.
type GasData struct {
	Payment []ObjectRef `cramberry:"1"`
	Owner   Address     `cramberry:"2"`
	Price   uint64      `cramberry:"3"`
	Budget  uint64      `cramberry:"4"`
}

func (g GasData) MarshalBCS(e *bcs.Encoder) error {
	if err := e.WriteLen(len(g.Payment)); err != nil {
		return err
	}
	for _, p := range g.Payment {
		if err := p.MarshalBCS(e); err != nil {
			return err
		}
	}
	if err := g.Owner.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteU64(g.Price)
	e.WriteU64(g.Budget)
	return nil
}

func (g *GasData) UnmarshalBCS(d *bcs.Decoder) error {
	n, err := d.ReadLen()
	if err != nil {
		return err
	}
	g.Payment = nil
	if n > 0 {
		g.Payment = make([]ObjectRef, n)
	}
	for i := range g.Payment {
		if err := g.Payment[i].UnmarshalBCS(d); err != nil {
			return err
		}
	}
	if err := g.Owner.UnmarshalBCS(d); err != nil {
		return err
	}
	if g.Price, err = d.ReadU64(); err != nil {
		return err
	}
	g.Budget, err = d.ReadU64()
	return err
}

// TransactionExpiration bounds the validity of a transaction: either
// none, or a last epoch in which it may execute.
type TransactionExpiration struct {
	// Epoch is the last valid epoch; nil means no expiration.
	Epoch *uint64
}

func (x TransactionExpiration) MarshalBCS(e *bcs.Encoder) error {
	if x.Epoch == nil {
		e.WriteVariant(0)
		return nil
	}
	e.WriteVariant(1)
	e.WriteU64(*x.Epoch)
	return nil
}

func (x *TransactionExpiration) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	switch tag {
	case 0:
		x.Epoch = nil
		return nil
	case 1:
		v, err := d.ReadU64()
		if err != nil {
			return err
		}
		x.Epoch = &v
		return nil
	default:
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unknown TransactionExpiration tag %d", tag)}
	}
}

// TransactionDataV1 binds a transaction kind to its sender, gas data
// and expiration policy.
type TransactionDataV1 struct {
	Kind       TransactionKind
	Sender     Address
	GasData    GasData
	Expiration TransactionExpiration
}

// TransactionData is the versioned envelope serialized for dry-run
// and execution. Only version 1 exists.
type TransactionData struct {
	V1 TransactionDataV1
}

func (t TransactionData) MarshalBCS(e *bcs.Encoder) error {
	e.WriteVariant(0)
	if err := t.V1.Kind.MarshalBCS(e); err != nil {
		return err
	}
	if err := t.V1.Sender.MarshalBCS(e); err != nil {
		return err
	}
	if err := t.V1.GasData.MarshalBCS(e); err != nil {
		return err
	}
	return t.V1.Expiration.MarshalBCS(e)
}

func (t *TransactionData) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	if tag != 0 {
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unsupported TransactionData version %d", tag)}
	}
	if err := t.V1.Kind.UnmarshalBCS(d); err != nil {
		return err
	}
	if err := t.V1.Sender.UnmarshalBCS(d); err != nil {
		return err
	}
	if err := t.V1.GasData.UnmarshalBCS(d); err != nil {
		return err
	}
	return t.V1.Expiration.UnmarshalBCS(d)
}

// transactionDataSalt is the domain separator prepended to the
// canonical bytes before hashing.
const transactionDataSalt = "TransactionData::"

// Digest returns the transaction digest: a 32-byte blake2b hash over
// the salted canonical encoding.
func (t TransactionData) Digest() (Digest, error) {
	data, err := bcs.Marshal(t)
	if err != nil {
		return Digest{}, err
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return Digest{}, err
	}
	h.Write([]byte(transactionDataSalt))
	h.Write(data)
	var dg Digest
	copy(dg[:], h.Sum(nil))
	return dg, nil
}
