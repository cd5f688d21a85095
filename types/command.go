package types

import (
	"fmt"

	"github.com/robmcl4/pysui/bcs"
)

// CommandKind discriminates the Command union.
type CommandKind uint8

const (
	CommandMoveCall CommandKind = iota
	CommandTransferObjects
	CommandSplitCoins
	CommandMergeCoins
	CommandPublish
	CommandMakeMoveVec
	CommandUpgrade
)

// ProgrammableMoveCall invokes an entry or public move function.
type ProgrammableMoveCall struct {
	Package       Address
	Module        string
	Function      string
	TypeArguments []TypeTag
	Arguments     []Argument
}

// Command is a single step of a programmable transaction. Exactly one
// variant field, selected by Kind, is populated. Commands are ordered;
// later commands may reference results of strictly earlier ones.
type Command struct {
	Kind CommandKind

	MoveCall        *ProgrammableMoveCall
	TransferObjects *TransferObjectsCommand
	SplitCoins      *SplitCoinsCommand
	MergeCoins      *MergeCoinsCommand
	Publish         *PublishCommand
	MakeMoveVec     *MakeMoveVecCommand
	Upgrade         *UpgradeCommand
}

// TransferObjectsCommand sends Objects to Recipient.
type TransferObjectsCommand struct {
	Objects   []Argument
	Recipient Argument
}

// SplitCoinsCommand splits Amounts off Coin, producing one new coin
// per amount.
type SplitCoinsCommand struct {
	Coin    Argument
	Amounts []Argument
}

// MergeCoinsCommand merges Sources into Destination.
type MergeCoinsCommand struct {
	Destination Argument
	Sources     []Argument
}

// PublishCommand publishes compiled module bytes with their
// dependency package addresses.
type PublishCommand struct {
	Modules      [][]byte
	Dependencies []Address
}

// MakeMoveVecCommand assembles Elements into a move vector, with an
// optional declared element type.
type MakeMoveVecCommand struct {
	TypeTag  *TypeTag
	Elements []Argument
}

// UpgradeCommand upgrades the package at Package using an upgrade
// ticket produced by an authorization call.
type UpgradeCommand struct {
	Modules      [][]byte
	Dependencies []Address
	Package      Address
	Ticket       Argument
}

func writeArguments(e *bcs.Encoder, args []Argument) error {
	if err := e.WriteLen(len(args)); err != nil {
		return err
	}
	for _, a := range args {
		if err := a.MarshalBCS(e); err != nil {
			return err
		}
	}
	return nil
}

func readArguments(d *bcs.Decoder) ([]Argument, error) {
	n, err := d.ReadLen()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	args := make([]Argument, n)
	for i := range args {
		if err := args[i].UnmarshalBCS(d); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func writeModules(e *bcs.Encoder, modules [][]byte, deps []Address) error {
	if err := e.WriteLen(len(modules)); err != nil {
		return err
	}
	for _, m := range modules {
		if err := e.WriteBytes(m); err != nil {
			return err
		}
	}
	if err := e.WriteLen(len(deps)); err != nil {
		return err
	}
	for _, dep := range deps {
		if err := dep.MarshalBCS(e); err != nil {
			return err
		}
	}
	return nil
}

func readModules(d *bcs.Decoder) ([][]byte, []Address, error) {
	n, err := d.ReadLen()
	if err != nil {
		return nil, nil, err
	}
	var modules [][]byte
	if n > 0 {
		modules = make([][]byte, n)
	}
	for i := range modules {
		b, err := d.ReadBytes()
		if err != nil {
			return nil, nil, err
		}
		modules[i] = b
	}
	n, err = d.ReadLen()
	if err != nil {
		return nil, nil, err
	}
	var deps []Address
	if n > 0 {
		deps = make([]Address, n)
	}
	for i := range deps {
		if err := deps[i].UnmarshalBCS(d); err != nil {
			return nil, nil, err
		}
	}
	return modules, deps, nil
}

func (c Command) MarshalBCS(e *bcs.Encoder) error {
	e.WriteVariant(uint8(c.Kind))
	switch c.Kind {
	case CommandMoveCall:
		mc := c.MoveCall
		if err := mc.Package.MarshalBCS(e); err != nil {
			return err
		}
		if err := e.WriteString(mc.Module); err != nil {
			return err
		}
		if err := e.WriteString(mc.Function); err != nil {
			return err
		}
		if err := e.WriteLen(len(mc.TypeArguments)); err != nil {
			return err
		}
		for _, tt := range mc.TypeArguments {
			if err := tt.MarshalBCS(e); err != nil {
				return err
			}
		}
		return writeArguments(e, mc.Arguments)
	case CommandTransferObjects:
		if err := writeArguments(e, c.TransferObjects.Objects); err != nil {
			return err
		}
		return c.TransferObjects.Recipient.MarshalBCS(e)
	case CommandSplitCoins:
		if err := c.SplitCoins.Coin.MarshalBCS(e); err != nil {
			return err
		}
		return writeArguments(e, c.SplitCoins.Amounts)
	case CommandMergeCoins:
		if err := c.MergeCoins.Destination.MarshalBCS(e); err != nil {
			return err
		}
		return writeArguments(e, c.MergeCoins.Sources)
	case CommandPublish:
		return writeModules(e, c.Publish.Modules, c.Publish.Dependencies)
	case CommandMakeMoveVec:
		e.WriteOptionTag(c.MakeMoveVec.TypeTag != nil)
		if c.MakeMoveVec.TypeTag != nil {
			if err := c.MakeMoveVec.TypeTag.MarshalBCS(e); err != nil {
				return err
			}
		}
		return writeArguments(e, c.MakeMoveVec.Elements)
	case CommandUpgrade:
		if err := writeModules(e, c.Upgrade.Modules, c.Upgrade.Dependencies); err != nil {
			return err
		}
		if err := c.Upgrade.Package.MarshalBCS(e); err != nil {
			return err
		}
		return c.Upgrade.Ticket.MarshalBCS(e)
	default:
		return fmt.Errorf("types: unknown Command kind %d", c.Kind)
	}
}

func (c *Command) UnmarshalBCS(d *bcs.Decoder) error {
	tag, err := d.ReadVariant()
	if err != nil {
		return err
	}
	*c = Command{Kind: CommandKind(tag)}
	switch c.Kind {
	case CommandMoveCall:
		mc := new(ProgrammableMoveCall)
		if err := mc.Package.UnmarshalBCS(d); err != nil {
			return err
		}
		if mc.Module, err = d.ReadString(); err != nil {
			return err
		}
		if mc.Function, err = d.ReadString(); err != nil {
			return err
		}
		n, err := d.ReadLen()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			var tt TypeTag
			if err := tt.UnmarshalBCS(d); err != nil {
				return err
			}
			mc.TypeArguments = append(mc.TypeArguments, tt)
		}
		if mc.Arguments, err = readArguments(d); err != nil {
			return err
		}
		c.MoveCall = mc
		return nil
	case CommandTransferObjects:
		to := new(TransferObjectsCommand)
		if to.Objects, err = readArguments(d); err != nil {
			return err
		}
		if err := to.Recipient.UnmarshalBCS(d); err != nil {
			return err
		}
		c.TransferObjects = to
		return nil
	case CommandSplitCoins:
		sc := new(SplitCoinsCommand)
		if err := sc.Coin.UnmarshalBCS(d); err != nil {
			return err
		}
		if sc.Amounts, err = readArguments(d); err != nil {
			return err
		}
		c.SplitCoins = sc
		return nil
	case CommandMergeCoins:
		mc := new(MergeCoinsCommand)
		if err := mc.Destination.UnmarshalBCS(d); err != nil {
			return err
		}
		if mc.Sources, err = readArguments(d); err != nil {
			return err
		}
		c.MergeCoins = mc
		return nil
	case CommandPublish:
		p := new(PublishCommand)
		if p.Modules, p.Dependencies, err = readModules(d); err != nil {
			return err
		}
		c.Publish = p
		return nil
	case CommandMakeMoveVec:
		mv := new(MakeMoveVecCommand)
		present, err := d.ReadOptionTag()
		if err != nil {
			return err
		}
		if present {
			mv.TypeTag = new(TypeTag)
			if err := mv.TypeTag.UnmarshalBCS(d); err != nil {
				return err
			}
		}
		if mv.Elements, err = readArguments(d); err != nil {
			return err
		}
		c.MakeMoveVec = mv
		return nil
	case CommandUpgrade:
		u := new(UpgradeCommand)
		if u.Modules, u.Dependencies, err = readModules(d); err != nil {
			return err
		}
		if err := u.Package.UnmarshalBCS(d); err != nil {
			return err
		}
		if err := u.Ticket.UnmarshalBCS(d); err != nil {
			return err
		}
		c.Upgrade = u
		return nil
	default:
		return &bcs.FormatError{Offset: d.Offset(), What: fmt.Sprintf("unknown Command tag %d", tag)}
	}
}
