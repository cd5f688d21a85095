package types

import (
	"fmt"

	"github.com/robmcl4/pysui/bcs"
)

// ObjectRef pins one exact version of an on-chain object:
// identifier, monotonic version counter, and content digest.
type ObjectRef struct {
	ObjectID Address `cramberry:"1"`
	Version  uint64  `cramberry:"2"`
	Digest   Digest  `cramberry:"3"`
}

func (r ObjectRef) MarshalBCS(e *bcs.Encoder) error {
	if err := r.ObjectID.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteU64(r.Version)
	return r.Digest.MarshalBCS(e)
}

func (r *ObjectRef) UnmarshalBCS(d *bcs.Decoder) error {
	if err := r.ObjectID.UnmarshalBCS(d); err != nil {
		return err
	}
	v, err := d.ReadU64()
	if err != nil {
		return err
	}
	r.Version = v
	return r.Digest.UnmarshalBCS(d)
}

// SharedObjectRef references a shared object by its identifier and
// the version at which it first became shared. Mutable marks the
// access as a mutable borrow; move-call resolution patches it after
// the fact for parameters the callee declares mutable.
type SharedObjectRef struct {
	ObjectID             Address `cramberry:"1"`
	InitialSharedVersion uint64  `cramberry:"2"`
	Mutable              bool    `cramberry:"3"`
}

func (r SharedObjectRef) MarshalBCS(e *bcs.Encoder) error {
	if err := r.ObjectID.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteU64(r.InitialSharedVersion)
	e.WriteBool(r.Mutable)
	return nil
}

func (r *SharedObjectRef) UnmarshalBCS(d *bcs.Decoder) error {
	if err := r.ObjectID.UnmarshalBCS(d); err != nil {
		return err
	}
	v, err := d.ReadU64()
	if err != nil {
		return err
	}
	r.InitialSharedVersion = v
	m, err := d.ReadBool()
	if err != nil {
		return err
	}
	r.Mutable = m
	return nil
}

// ObjectArgKind discriminates the ObjectArg union.
type ObjectArgKind uint8

const (
	// ObjectArgImmOrOwned wraps an owned or immutable object.
	ObjectArgImmOrOwned ObjectArgKind = iota
	// ObjectArgShared wraps a shared object.
	ObjectArgShared
	// ObjectArgReceiving wraps an object being received by another
	// object. Never produced by argument resolution; round-trips
	// through the codec.
	ObjectArgReceiving
)

// ObjectArg is the protocol-level object argument union. Exactly one
// field, selected by Kind, is meaningful.
type ObjectArg struct {
	Kind      ObjectArgKind
	Ref       ObjectRef       // ImmOrOwned, Receiving
	SharedRef SharedObjectRef // Shared
}

// ImmOrOwnedObject wraps an owned or immutable object reference.
func ImmOrOwnedObject(ref ObjectRef) ObjectArg {
	return ObjectArg{Kind: ObjectArgImmOrOwned, Ref: ref}
}

// SharedObject wraps a shared object reference.
func SharedObject(ref SharedObjectRef) ObjectArg {
	return ObjectArg{Kind: ObjectArgShared, SharedRef: ref}
}

// ReceivingObject wraps a receiving object reference.
func ReceivingObject(ref ObjectRef) ObjectArg {
	return ObjectArg{Kind: ObjectArgReceiving, Ref: ref}
}

// ID returns the referenced object's identifier regardless of kind.
func (o ObjectArg) ID() Address {
	if o.Kind == ObjectArgShared {
		return o.SharedRef.ObjectID
	}
	return o.Ref.ObjectID
}

func (o ObjectArg) MarshalBCS(e *bcs.Encoder) error {
	e.WriteVariant(uint8(o.Kind))
	switch o.Kind {
	case ObjectArgImmOrOwned, ObjectArgReceiving:
		return o.Ref.MarshalBCS(e)
	case ObjectArgShared:
		return o.SharedRef.MarshalBCS(e)
	default:
		return fmt.Errorf("types: unknown ObjectArg kind %d", o.Kind)
	}
}

func (o *ObjectArg) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	o.Kind = ObjectArgKind(tag)
	switch o.Kind {
	case ObjectArgImmOrOwned, ObjectArgReceiving:
		return o.Ref.UnmarshalBCS(d)
	case ObjectArgShared:
		return o.SharedRef.UnmarshalBCS(d)
	default:
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unknown ObjectArg tag %d", tag)}
	}
}
