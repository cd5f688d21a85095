package bcs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestULEB128_Fixtures(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{MaxSequenceLength, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, c := range cases {
		e := NewEncoder()
		e.WriteULEB128(c.v)
		if !bytes.Equal(e.Bytes(), c.want) {
			t.Errorf("encode %d: got %x, want %x", c.v, e.Bytes(), c.want)
		}
		d := NewDecoder(c.want)
		got, err := d.ReadULEB128()
		if err != nil {
			t.Fatalf("decode %x: %v", c.want, err)
		}
		if got != c.v {
			t.Errorf("decode %x: got %d, want %d", c.want, got, c.v)
		}
	}
}

func TestULEB128_RejectsNonMinimal(t *testing.T) {
	for _, in := range [][]byte{
		{0x80, 0x00},       // 0 encoded in two bytes
		{0xff, 0xff, 0x00}, // trailing zero digit
	} {
		d := NewDecoder(in)
		if _, err := d.ReadULEB128(); err == nil {
			t.Errorf("decode %x: expected error for non-minimal encoding", in)
		}
	}
}

func TestULEB128_RejectsOverlong(t *testing.T) {
	d := NewDecoder([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	_, err := d.ReadULEB128()
	if err == nil {
		t.Fatal("expected error for value beyond u32")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T", err)
	}
}

func TestFixedWidth_LittleEndian(t *testing.T) {
	e := NewEncoder()
	e.WriteU8(0x11)
	e.WriteU16(0x2233)
	e.WriteU32(0x44556677)
	e.WriteU64(0x8899aabbccddeeff)
	want := []byte{
		0x11,
		0x33, 0x22,
		0x77, 0x66, 0x55, 0x44,
		0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("got %x, want %x", e.Bytes(), want)
	}

	d := NewDecoder(want)
	if v, _ := d.ReadU8(); v != 0x11 {
		t.Fatalf("u8: got %#x", v)
	}
	if v, _ := d.ReadU16(); v != 0x2233 {
		t.Fatalf("u16: got %#x", v)
	}
	if v, _ := d.ReadU32(); v != 0x44556677 {
		t.Fatalf("u32: got %#x", v)
	}
	if v, _ := d.ReadU64(); v != 0x8899aabbccddeeff {
		t.Fatalf("u64: got %#x", v)
	}
	if err := d.ExpectEOF(); err != nil {
		t.Fatalf("ExpectEOF: %v", err)
	}
}

func TestU128_RoundTrip(t *testing.T) {
	v := uint256.MustFromHex("0x102030405060708090a0b0c0d0e0f10")
	e := NewEncoder()
	if err := e.WriteU128(v); err != nil {
		t.Fatalf("WriteU128: %v", err)
	}
	if e.Len() != 16 {
		t.Fatalf("u128 width: got %d", e.Len())
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadU128()
	if err != nil {
		t.Fatalf("ReadU128: %v", err)
	}
	if !got.Eq(v) {
		t.Fatalf("round-trip: got %s, want %s", got, v)
	}
}

func TestU128_Overflow(t *testing.T) {
	v := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	e := NewEncoder()
	if err := e.WriteU128(v); err == nil {
		t.Fatal("expected overflow error for 2^128")
	}
}

func TestU256_RoundTrip(t *testing.T) {
	v := uint256.MustFromHex("0xdeadbeefcafebabe00112233445566778899aabbccddeeff0102030405060708")
	e := NewEncoder()
	e.WriteU256(v)
	if e.Len() != 32 {
		t.Fatalf("u256 width: got %d", e.Len())
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadU256()
	if err != nil {
		t.Fatalf("ReadU256: %v", err)
	}
	if !got.Eq(v) {
		t.Fatalf("round-trip: got %s, want %s", got, v)
	}
}

func TestBytes_LengthPrefixed(t *testing.T) {
	e := NewEncoder()
	if err := e.WriteBytes([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x05, 'h', 'e', 'l', 'l', 'o'}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("got %x, want %x", e.Bytes(), want)
	}
	d := NewDecoder(want)
	got, err := d.ReadBytes()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestBytes_TruncatedInput(t *testing.T) {
	// Length prefix promises 10 bytes, only 3 present.
	d := NewDecoder([]byte{0x0a, 0x01, 0x02, 0x03})
	if _, err := d.ReadBytes(); err == nil {
		t.Fatal("expected error for truncated vector")
	}
}

func TestBool_RejectsInvalid(t *testing.T) {
	d := NewDecoder([]byte{0x02})
	if _, err := d.ReadBool(); err == nil {
		t.Fatal("expected error for bool byte 0x02")
	}
}

func TestUnmarshal_RejectsTrailingGarbage(t *testing.T) {
	var v boolBox
	if err := Unmarshal([]byte{0x01, 0xff}, &v); err == nil {
		t.Fatal("expected error for trailing byte")
	}
	if err := Unmarshal([]byte{0x01}, &v); err != nil {
		t.Fatalf("clean input failed: %v", err)
	}
	if !bool(v) {
		t.Fatal("decoded wrong value")
	}
}

// boolBox is a minimal Unmarshaler for exercising Unmarshal's
// trailing-byte check.
type boolBox bool

func (b *boolBox) UnmarshalBCS(d *Decoder) error {
	v, err := d.ReadBool()
	if err != nil {
		return err
	}
	*b = boolBox(v)
	return nil
}

func TestOptionTag(t *testing.T) {
	e := NewEncoder()
	e.WriteOptionTag(false)
	e.WriteOptionTag(true)
	e.WriteU64(7)
	d := NewDecoder(e.Bytes())
	if ok, _ := d.ReadOptionTag(); ok {
		t.Fatal("expected absent option")
	}
	ok, err := d.ReadOptionTag()
	if err != nil || !ok {
		t.Fatalf("expected present option, ok=%v err=%v", ok, err)
	}
	if v, _ := d.ReadU64(); v != 7 {
		t.Fatalf("option payload: got %d", v)
	}
}
