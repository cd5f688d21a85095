package types

import (
	"fmt"

	"github.com/robmcl4/pysui/bcs"
)

// ArgumentKind discriminates the Argument union.
type ArgumentKind uint8

const (
	// ArgGasCoin is the gas payment coin of the enclosing transaction.
	ArgGasCoin ArgumentKind = iota
	// ArgInput references an entry of the input table by index.
	ArgInput
	// ArgResult references the (single) result of an earlier command.
	ArgResult
	// ArgNestedResult references one element of an earlier command's
	// result list.
	ArgNestedResult
)

// Argument is a handle to a value usable as a command input: the gas
// coin, an input-table entry, or the result of an earlier command.
// Arguments are immutable once created.
type Argument struct {
	Kind ArgumentKind
	// Input is the input-table index (ArgInput).
	Input uint16
	// Command is the index of the producing command (ArgResult,
	// ArgNestedResult).
	Command uint16
	// Result is the index into the producing command's result list
	// (ArgNestedResult).
	Result uint16
}

// GasCoin returns the gas coin argument.
func GasCoin() Argument {
	return Argument{Kind: ArgGasCoin}
}

// InputArg references input-table entry i.
func InputArg(i uint16) Argument {
	return Argument{Kind: ArgInput, Input: i}
}

// ResultArg references the result of command c.
func ResultArg(c uint16) Argument {
	return Argument{Kind: ArgResult, Command: c}
}

// NestedResultArg references element r of command c's result list.
func NestedResultArg(c, r uint16) Argument {
	return Argument{Kind: ArgNestedResult, Command: c, Result: r}
}

func (a Argument) String() string {
	switch a.Kind {
	case ArgGasCoin:
		return "GasCoin"
	case ArgInput:
		return fmt.Sprintf("Input(%d)", a.Input)
	case ArgResult:
		return fmt.Sprintf("Result(%d)", a.Command)
	case ArgNestedResult:
		return fmt.Sprintf("NestedResult(%d,%d)", a.Command, a.Result)
	default:
		return fmt.Sprintf("unknown(%d)", a.Kind)
	}
}

func (a Argument) MarshalBCS(e *bcs.Encoder) error {
	e.WriteVariant(uint8(a.Kind))
	switch a.Kind {
	case ArgGasCoin:
	case ArgInput:
		e.WriteU16(a.Input)
	case ArgResult:
		e.WriteU16(a.Command)
	case ArgNestedResult:
		e.WriteU16(a.Command)
		e.WriteU16(a.Result)
	default:
		return fmt.Errorf("types: unknown Argument kind %d", a.Kind)
	}
	return nil
}

func (a *Argument) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	*a = Argument{Kind: ArgumentKind(tag)}
	switch a.Kind {
	case ArgGasCoin:
		return nil
	case ArgInput:
		a.Input, err = d.ReadU16()
		return err
	case ArgResult:
		a.Command, err = d.ReadU16()
		return err
	case ArgNestedResult:
		if a.Command, err = d.ReadU16(); err != nil {
			return err
		}
		a.Result, err = d.ReadU16()
		return err
	default:
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unknown Argument tag %d", tag)}
	}
}
