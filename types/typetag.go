package types

import (
	"fmt"
	"strings"

	"github.com/robmcl4/pysui/bcs"
)

// TypeTagKind discriminates the TypeTag union. The numeric values are
// the wire discriminants; the unsigned widths added after the original
// set sort at the end.
type TypeTagKind uint8

const (
	TypeTagBool TypeTagKind = iota
	TypeTagU8
	TypeTagU64
	TypeTagU128
	TypeTagAddress
	TypeTagSigner
	TypeTagVector
	TypeTagStruct
	TypeTagU16
	TypeTagU32
	TypeTagU256
)

// TypeTag identifies a move type: a primitive, a vector of another
// type, or a struct.
type TypeTag struct {
	Kind   TypeTagKind
	Elem   *TypeTag   // Vector
	Struct *StructTag // Struct
}

// StructTag is the fully-qualified name of a move struct, with any
// type parameters.
type StructTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

var primitiveTags = map[string]TypeTagKind{
	"bool":    TypeTagBool,
	"u8":      TypeTagU8,
	"u16":     TypeTagU16,
	"u32":     TypeTagU32,
	"u64":     TypeTagU64,
	"u128":    TypeTagU128,
	"u256":    TypeTagU256,
	"address": TypeTagAddress,
	"signer":  TypeTagSigner,
}

// ParseTypeTag parses a type expression such as "u64",
// "vector<u8>" or "0x2::coin::Coin<0x2::sui::SUI>".
func ParseTypeTag(s string) (TypeTag, error) {
	s = strings.TrimSpace(s)
	if kind, ok := primitiveTags[s]; ok {
		return TypeTag{Kind: kind}, nil
	}
	if inner, ok := strings.CutPrefix(s, "vector<"); ok {
		if !strings.HasSuffix(inner, ">") {
			return TypeTag{}, fmt.Errorf("types: unterminated vector in %q", s)
		}
		elem, err := ParseTypeTag(inner[:len(inner)-1])
		if err != nil {
			return TypeTag{}, err
		}
		return TypeTag{Kind: TypeTagVector, Elem: &elem}, nil
	}
	st, err := parseStructTag(s)
	if err != nil {
		return TypeTag{}, err
	}
	return TypeTag{Kind: TypeTagStruct, Struct: &st}, nil
}

// MustTypeTag parses a type expression and panics on failure.
func MustTypeTag(s string) TypeTag {
	tt, err := ParseTypeTag(s)
	if err != nil {
		panic(err)
	}
	return tt
}

func parseStructTag(s string) (StructTag, error) {
	var st StructTag
	base := s
	if i := strings.IndexByte(s, '<'); i >= 0 {
		if !strings.HasSuffix(s, ">") {
			return st, fmt.Errorf("types: unterminated type parameters in %q", s)
		}
		base = s[:i]
		for _, part := range splitTopLevel(s[i+1 : len(s)-1]) {
			tp, err := ParseTypeTag(part)
			if err != nil {
				return st, err
			}
			st.TypeParams = append(st.TypeParams, tp)
		}
	}
	parts := strings.Split(base, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return st, fmt.Errorf("types: invalid struct type %q, want package::module::name", s)
	}
	addr, err := AddressFromHex(parts[0])
	if err != nil {
		return st, err
	}
	st.Address = addr
	st.Module = parts[1]
	st.Name = parts[2]
	return st, nil
}

// splitTopLevel splits a comma-separated list, ignoring commas nested
// inside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// String renders the tag in source form.
func (t TypeTag) String() string {
	switch t.Kind {
	case TypeTagBool:
		return "bool"
	case TypeTagU8:
		return "u8"
	case TypeTagU16:
		return "u16"
	case TypeTagU32:
		return "u32"
	case TypeTagU64:
		return "u64"
	case TypeTagU128:
		return "u128"
	case TypeTagU256:
		return "u256"
	case TypeTagAddress:
		return "address"
	case TypeTagSigner:
		return "signer"
	case TypeTagVector:
		return "vector<" + t.Elem.String() + ">"
	case TypeTagStruct:
		return t.Struct.String()
	default:
		return fmt.Sprintf("unknown(%d)", t.Kind)
	}
}

func (st StructTag) String() string {
	s := fmt.Sprintf("%s::%s::%s", st.Address, st.Module, st.Name)
	if len(st.TypeParams) > 0 {
		params := make([]string, len(st.TypeParams))
		for i, tp := range st.TypeParams {
			params[i] = tp.String()
		}
		s += "<" + strings.Join(params, ", ") + ">"
	}
	return s
}

func (t TypeTag) MarshalBCS(e *bcs.Encoder) error {
	e.WriteVariant(uint8(t.Kind))
	switch t.Kind {
	case TypeTagVector:
		if t.Elem == nil {
			return fmt.Errorf("types: vector TypeTag with nil element")
		}
		return t.Elem.MarshalBCS(e)
	case TypeTagStruct:
		if t.Struct == nil {
			return fmt.Errorf("types: struct TypeTag with nil StructTag")
		}
		return t.Struct.MarshalBCS(e)
	case TypeTagBool, TypeTagU8, TypeTagU16, TypeTagU32, TypeTagU64,
		TypeTagU128, TypeTagU256, TypeTagAddress, TypeTagSigner:
		return nil
	default:
		return fmt.Errorf("types: unknown TypeTag kind %d", t.Kind)
	}
}

func (t *TypeTag) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	*t = TypeTag{Kind: TypeTagKind(tag)}
	switch t.Kind {
	case TypeTagVector:
		t.Elem = new(TypeTag)
		return t.Elem.UnmarshalBCS(d)
	case TypeTagStruct:
		t.Struct = new(StructTag)
		return t.Struct.UnmarshalBCS(d)
	case TypeTagBool, TypeTagU8, TypeTagU16, TypeTagU32, TypeTagU64,
		TypeTagU128, TypeTagU256, TypeTagAddress, TypeTagSigner:
		return nil
	default:
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unknown TypeTag tag %d", tag)}
	}
}

func (st StructTag) MarshalBCS(e *bcs.Encoder) error {
	if err := st.Address.MarshalBCS(e); err != nil {
		return err
	}
	if err := e.WriteString(st.Module); err != nil {
		return err
	}
	if err := e.WriteString(st.Name); err != nil {
		return err
	}
	if err := e.WriteLen(len(st.TypeParams)); err != nil {
		return err
	}
	for _, tp := range st.TypeParams {
		if err := tp.MarshalBCS(e); err != nil {
			return err
		}
	}
	return nil
}

func (st *StructTag) UnmarshalBCS(d *bcs.Decoder) error {
	if err := st.Address.UnmarshalBCS(d); err != nil {
		return err
	}
	var err error
	if st.Module, err = d.ReadString(); err != nil {
		return err
	}
	if st.Name, err = d.ReadString(); err != nil {
		return err
	}
	n, err := d.ReadLen()
	if err != nil {
		return err
	}
	st.TypeParams = nil
	for i := 0; i < n; i++ {
		var tp TypeTag
		if err := tp.UnmarshalBCS(d); err != nil {
			return err
		}
		st.TypeParams = append(st.TypeParams, tp)
	}
	return nil
}
