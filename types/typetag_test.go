package types_test

import (
	"bytes"
	"testing"

	"github.com/robmcl4/pysui/bcs"
	"github.com/robmcl4/pysui/types"
)

func TestParseTypeTag_Primitives(t *testing.T) {
	cases := map[string]byte{
		"bool":    0,
		"u8":      1,
		"u64":     2,
		"u128":    3,
		"address": 4,
		"signer":  5,
		"u16":     8,
		"u32":     9,
		"u256":    10,
	}
	for src, wantTag := range cases {
		tt, err := types.ParseTypeTag(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		data, err := bcs.Marshal(tt)
		if err != nil {
			t.Fatalf("marshal %q: %v", src, err)
		}
		if !bytes.Equal(data, []byte{wantTag}) {
			t.Errorf("%q: encoded %x, want %02x", src, data, wantTag)
		}
		if tt.String() != src {
			t.Errorf("%q: String() gave %q", src, tt.String())
		}
	}
}

func TestParseTypeTag_Vector(t *testing.T) {
	tt, err := types.ParseTypeTag("vector<u8>")
	if err != nil {
		t.Fatal(err)
	}
	data, err := bcs.Marshal(tt)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0x06, 0x01}) {
		t.Fatalf("encoded %x, want 0601", data)
	}

	nested, err := types.ParseTypeTag("vector<vector<address>>")
	if err != nil {
		t.Fatal(err)
	}
	if nested.String() != "vector<vector<address>>" {
		t.Fatalf("String() gave %q", nested.String())
	}
}

func TestParseTypeTag_Struct(t *testing.T) {
	tt, err := types.ParseTypeTag("0x2::sui::SUI")
	if err != nil {
		t.Fatal(err)
	}
	if tt.Kind != types.TypeTagStruct {
		t.Fatalf("kind %d", tt.Kind)
	}
	st := tt.Struct
	if st.Module != "sui" || st.Name != "SUI" || st.Address != types.MustAddress("0x2") {
		t.Fatalf("struct tag %+v", st)
	}

	var got types.TypeTag
	data, err := bcs.Marshal(tt)
	if err != nil {
		t.Fatal(err)
	}
	if err := bcs.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.String() != tt.String() {
		t.Fatalf("round-trip gave %q, want %q", got.String(), tt.String())
	}
}

func TestParseTypeTag_GenericStruct(t *testing.T) {
	src := "0x2::coin::Coin<0x2::sui::SUI>"
	tt, err := types.ParseTypeTag(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(tt.Struct.TypeParams) != 1 {
		t.Fatalf("type params: %+v", tt.Struct.TypeParams)
	}
	inner := tt.Struct.TypeParams[0]
	if inner.Kind != types.TypeTagStruct || inner.Struct.Name != "SUI" {
		t.Fatalf("inner param %+v", inner)
	}

	multi, err := types.ParseTypeTag("0x2::table::Table<address, vector<u64>>")
	if err != nil {
		t.Fatal(err)
	}
	if len(multi.Struct.TypeParams) != 2 {
		t.Fatalf("type params: %+v", multi.Struct.TypeParams)
	}
	if multi.Struct.TypeParams[1].String() != "vector<u64>" {
		t.Fatalf("second param %q", multi.Struct.TypeParams[1])
	}
}

func TestParseTypeTag_Invalid(t *testing.T) {
	for _, src := range []string{
		"",
		"vector<u8",
		"0x2::coin",
		"::module::Name",
		"notahex::module::Name",
	} {
		if _, err := types.ParseTypeTag(src); err == nil {
			t.Errorf("parse %q: expected error", src)
		}
	}
}

func TestAddressFromHex(t *testing.T) {
	a, err := types.AddressFromHex("0x2")
	if err != nil {
		t.Fatal(err)
	}
	if a[31] != 0x02 {
		t.Fatalf("short address not left-padded: %s", a)
	}
	if a.String() != "0x0000000000000000000000000000000000000000000000000000000000000002" {
		t.Fatalf("String() gave %s", a)
	}

	if _, err := types.AddressFromHex(""); err == nil {
		t.Error("empty address accepted")
	}
	if _, err := types.AddressFromHex("0x" + string(make([]byte, 100))); err == nil {
		t.Error("overlong address accepted")
	}
	if _, err := types.AddressFromHex("0xzz"); err == nil {
		t.Error("non-hex address accepted")
	}
}

func TestDigest_Base58(t *testing.T) {
	var dg types.Digest
	for i := range dg {
		dg[i] = byte(i)
	}
	parsed, err := types.DigestFromBase58(dg.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != dg {
		t.Fatalf("base58 round-trip gave %s", parsed)
	}

	if _, err := types.DigestFromBase58("abc"); err == nil {
		t.Error("short digest accepted")
	}
	if _, err := types.DigestFromBase58("0OIl"); err == nil {
		t.Error("invalid base58 accepted")
	}
}

func TestDigest_BCSLengthPrefixed(t *testing.T) {
	var dg types.Digest
	dg[0] = 0xff
	data, err := bcs.Marshal(dg)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 33 || data[0] != 0x20 {
		t.Fatalf("digest encoding %x, want 0x20 length prefix and 32 bytes", data)
	}
}
