package bcs

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// Decoder reads canonically encoded values from a byte slice. All
// read methods fail with a *FormatError on truncated or malformed
// input; the decoder never reads past the end of its buffer.
type Decoder struct {
	data []byte
	off  int
}

// NewDecoder returns a Decoder over data. The decoder does not copy
// the slice; byte-vector reads alias it.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Offset returns the current read position.
func (d *Decoder) Offset() int { return d.off }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.data) - d.off }

// ExpectEOF fails unless the input is fully consumed.
func (d *Decoder) ExpectEOF() error {
	if d.off != len(d.data) {
		return &FormatError{Offset: d.off, What: fmt.Sprintf("%d trailing bytes", len(d.data)-d.off)}
	}
	return nil
}

func (d *Decoder) errf(format string, args ...any) error {
	return &FormatError{Offset: d.off, What: fmt.Sprintf(format, args...)}
}

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, d.errf("need %d bytes, have %d", n, d.Remaining())
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, d.errf("invalid bool byte 0x%02x", b[0])
	}
}

func (d *Decoder) ReadU8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadU16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) ReadU64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) ReadU128() (*uint256.Int, error) {
	b, err := d.take(16)
	if err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	v[0] = binary.LittleEndian.Uint64(b[0:8])
	v[1] = binary.LittleEndian.Uint64(b[8:16])
	return v, nil
}

func (d *Decoder) ReadU256() (*uint256.Int, error) {
	b, err := d.take(32)
	if err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	v[0] = binary.LittleEndian.Uint64(b[0:8])
	v[1] = binary.LittleEndian.Uint64(b[8:16])
	v[2] = binary.LittleEndian.Uint64(b[16:24])
	v[3] = binary.LittleEndian.Uint64(b[24:32])
	return v, nil
}

// ReadULEB128 reads a variable-length unsigned value, rejecting
// non-minimal encodings and values beyond the u32 bound.
func (d *Decoder) ReadULEB128() (uint64, error) {
	start := d.off
	var v uint64
	var shift uint
	for {
		b, err := d.take(1)
		if err != nil {
			return 0, err
		}
		digit := b[0] & 0x7f
		v |= uint64(digit) << shift
		if b[0]&0x80 == 0 {
			if digit == 0 && shift > 0 {
				d.off = start
				return 0, d.errf("non-minimal uleb128 encoding")
			}
			if v > MaxSequenceLength {
				d.off = start
				return 0, d.errf("uleb128 value %d exceeds u32", v)
			}
			return v, nil
		}
		shift += 7
		if shift > 32 {
			d.off = start
			return 0, d.errf("uleb128 encoding too long")
		}
	}
}

// ReadLen reads a sequence length prefix.
func (d *Decoder) ReadLen() (int, error) {
	n, err := d.ReadULEB128()
	if err != nil {
		return 0, err
	}
	// Every element costs at least one byte; a length beyond the
	// remaining input is malformed, not merely large.
	if n > uint64(d.Remaining()) {
		return 0, d.errf("length %d exceeds remaining input %d", n, d.Remaining())
	}
	return int(n), nil
}

// ReadBytes reads a length-prefixed byte vector. The returned slice
// aliases the decoder's buffer.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadLen()
	if err != nil {
		return nil, err
	}
	return d.take(n)
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadFixedBytes reads exactly n raw bytes.
func (d *Decoder) ReadFixedBytes(n int) ([]byte, error) {
	return d.take(n)
}

// ReadOptionTag reads the presence tag of an optional value.
func (d *Decoder) ReadOptionTag() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, d.errf("invalid option tag 0x%02x", b[0])
	}
}

// ReadVariant reads a one-byte enum discriminant.
func (d *Decoder) ReadVariant() (uint8, error) {
	return d.ReadU8()
}
