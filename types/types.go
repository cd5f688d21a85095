// Package types defines the protocol-level data types for
// programmable transaction blocks: addresses, digests, object
// references, arguments, commands and the transaction envelope.
//
// All wire types carry canonical binary encodings via the bcs
// package. Structs that also cross the transport boundary as
// request/response payloads carry cramberry struct tags; transport
// concerns (gRPC codec registration) live in the transport packages.
package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/robmcl4/pysui/bcs"
)

// AddressLength is the fixed byte length of account and object
// addresses.
const AddressLength = 32

// Address is a 32-byte account or object address. Object identifiers
// share the address space.
type Address [AddressLength]byte

// AddressFromHex parses a 0x-prefixed hex address. Short forms are
// accepted and left-padded with zeros ("0x2" is the framework
// package).
func AddressFromHex(s string) (Address, error) {
	var a Address
	h := strings.TrimPrefix(s, "0x")
	if h == "" || len(h) > 2*AddressLength {
		return a, fmt.Errorf("types: invalid address %q", s)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("types: invalid address %q: %w", s, err)
	}
	copy(a[AddressLength-len(raw):], raw)
	return a, nil
}

// MustAddress parses a hex address and panics on failure. For
// constants and tests.
func MustAddress(s string) Address {
	a, err := AddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the address as 0x-prefixed full-width hex.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalBCS writes the address as a raw fixed-length array with no
// length prefix.
func (a Address) MarshalBCS(e *bcs.Encoder) error {
	e.WriteFixedBytes(a[:])
	return nil
}

func (a *Address) UnmarshalBCS(d *bcs.Decoder) error {
	b, err := d.ReadFixedBytes(AddressLength)
	if err != nil {
		return err
	}
	copy(a[:], b)
	return nil
}
