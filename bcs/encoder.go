package bcs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// Encoder accumulates canonically encoded bytes. Encoding of in-domain
// values is total and deterministic; the only error cases are length
// overflows and out-of-range values, which are caller bugs.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the bytes written so far.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

func (e *Encoder) WriteU8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *Encoder) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// WriteU128 writes the low 128 bits of v little-endian. Values wider
// than 128 bits are rejected.
func (e *Encoder) WriteU128(v *uint256.Int) error {
	if v[2] != 0 || v[3] != 0 {
		return fmt.Errorf("bcs: value %s overflows u128", v)
	}
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], v[0])
	binary.LittleEndian.PutUint64(b[8:16], v[1])
	e.buf.Write(b[:])
	return nil
}

// WriteU256 writes all 256 bits of v little-endian.
func (e *Encoder) WriteU256(v *uint256.Int) {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[0:8], v[0])
	binary.LittleEndian.PutUint64(b[8:16], v[1])
	binary.LittleEndian.PutUint64(b[16:24], v[2])
	binary.LittleEndian.PutUint64(b[24:32], v[3])
	e.buf.Write(b[:])
}

// WriteULEB128 writes v in the variable-length unsigned encoding used
// for sequence lengths and wide enum discriminants.
func (e *Encoder) WriteULEB128(v uint64) {
	for v >= 0x80 {
		e.buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	e.buf.WriteByte(byte(v))
}

// WriteLen writes a sequence length prefix.
func (e *Encoder) WriteLen(n int) error {
	if n < 0 || uint64(n) > MaxSequenceLength {
		return fmt.Errorf("bcs: sequence length %d out of range", n)
	}
	e.WriteULEB128(uint64(n))
	return nil
}

// WriteBytes writes a length-prefixed byte vector.
func (e *Encoder) WriteBytes(b []byte) error {
	if err := e.WriteLen(len(b)); err != nil {
		return err
	}
	e.buf.Write(b)
	return nil
}

// WriteString writes a length-prefixed UTF-8 string.
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteLen(len(s)); err != nil {
		return err
	}
	e.buf.WriteString(s)
	return nil
}

// WriteFixedBytes writes b raw, with no length prefix. Used for
// addresses and other fixed-size arrays.
func (e *Encoder) WriteFixedBytes(b []byte) {
	e.buf.Write(b)
}

// WriteOptionTag writes the presence tag of an optional value. The
// caller writes the payload itself when present is true.
func (e *Encoder) WriteOptionTag(present bool) {
	e.WriteBool(present)
}

// WriteVariant writes a one-byte enum discriminant. Unions with more
// than 127 variants must use WriteULEB128 instead; none of the
// protocol's unions are that wide.
func (e *Encoder) WriteVariant(tag uint8) {
	e.buf.WriteByte(tag)
}
