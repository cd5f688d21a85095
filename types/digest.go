package types

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/robmcl4/pysui/bcs"
)

// DigestLength is the fixed byte length of content digests.
const DigestLength = 32

// Digest is a 32-byte content digest. The canonical display form is
// base58.
type Digest [DigestLength]byte

// DigestFromBase58 parses a base58-encoded digest.
func DigestFromBase58(s string) (Digest, error) {
	var dg Digest
	raw, err := base58.Decode(s)
	if err != nil {
		return dg, fmt.Errorf("types: invalid digest %q: %w", s, err)
	}
	if len(raw) != DigestLength {
		return dg, fmt.Errorf("types: digest %q is %d bytes, want %d", s, len(raw), DigestLength)
	}
	copy(dg[:], raw)
	return dg, nil
}

// MustDigest parses a base58 digest and panics on failure.
func MustDigest(s string) Digest {
	dg, err := DigestFromBase58(s)
	if err != nil {
		panic(err)
	}
	return dg
}

// String renders the digest in base58.
func (dg Digest) String() string {
	return base58.Encode(dg[:])
}

// MarshalBCS writes the digest as a length-prefixed byte vector.
// Unlike addresses, digests carry their length on the wire.
func (dg Digest) MarshalBCS(e *bcs.Encoder) error {
	return e.WriteBytes(dg[:])
}

func (dg *Digest) UnmarshalBCS(d *bcs.Decoder) error {
	b, err := d.ReadBytes()
	if err != nil {
		return err
	}
	if len(b) != DigestLength {
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("digest length %d, want %d", len(b), DigestLength)}
	}
	copy(dg[:], b)
	return nil
}
