// Package bcs implements the canonical binary serialization format
// used on the wire between the transaction builder and the chain's
// execution service.
//
// The format is fixed and deterministic:
//   - fixed-width integers serialize little-endian with no padding
//   - sequence lengths and enum discriminants beyond one byte use a
//     variable-length unsigned encoding (7 bits per byte, continuation
//     bit set on all but the last byte)
//   - byte vectors and strings are length-prefixed
//   - addresses are raw fixed-length arrays with no prefix
//   - enums serialize as a discriminant followed by the variant fields
//     in declared order
//
// Any deviation from this format is a silent protocol break rather
// than a local bug, so decoding is strict: truncated input, non-minimal
// length encodings and trailing garbage all fail with a *FormatError.
package bcs

import "fmt"

// MaxSequenceLength is the largest sequence length the codec accepts,
// matching the wire format's u32 bound on ULEB128 lengths.
const MaxSequenceLength = 1<<32 - 1

// Marshaler is implemented by types that can write themselves to an
// Encoder in canonical form.
type Marshaler interface {
	MarshalBCS(e *Encoder) error
}

// Unmarshaler is implemented by types that can read themselves from
// a Decoder.
type Unmarshaler interface {
	UnmarshalBCS(d *Decoder) error
}

// Marshal serializes v to canonical bytes.
func Marshal(v Marshaler) ([]byte, error) {
	e := NewEncoder()
	if err := v.MarshalBCS(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// MustMarshal serializes v and panics on failure. Intended for values
// whose encoding is total (all in-domain values encode successfully).
func MustMarshal(v Marshaler) []byte {
	data, err := Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("bcs: marshal: %v", err))
	}
	return data
}

// Unmarshal deserializes data into v. The entire input must be
// consumed: trailing bytes fail with a *FormatError.
func Unmarshal(data []byte, v Unmarshaler) error {
	d := NewDecoder(data)
	if err := v.UnmarshalBCS(d); err != nil {
		return err
	}
	return d.ExpectEOF()
}

// FormatError reports malformed input encountered while decoding.
type FormatError struct {
	Offset int    // byte offset at which decoding failed
	What   string // description of the malformation
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bcs: invalid input at offset %d: %s", e.Offset, e.What)
}
