package emit

import (
	"github.com/dgallion1/opgen/internal/optable"
)

// Strategy turns walked entries of one scope into records.
type Strategy interface {
	Scope() optable.Scope
	MapName() string
	Record(e optable.Entry) (Record, error)
}

// NewStrategy returns the strategy for scope s.
func NewStrategy(s optable.Scope, opts Options) Strategy {
	if s == optable.Extended {
		reserved := make(map[string]bool)
		for _, name := range opts.declared() {
			reserved[name] = true
		}
		return &ExtendedStrategy{opts: opts, idents: make(map[string]optable.Entry), reserved: reserved}
	}
	return &BaseStrategy{opts: opts}
}

// BaseStrategy maps opcodes straight to their records.
type BaseStrategy struct {
	opts Options
}

func (s *BaseStrategy) Scope() optable.Scope { return optable.Base }
func (s *BaseStrategy) MapName() string      { return s.opts.BaseMap }

func (s *BaseStrategy) Record(e optable.Entry) (Record, error) {
	return Record{
		Scope:       optable.Base,
		Opcode:      e.Opcode,
		Disassembly: e.Mnemonic,
		Description: e.Description,
	}, nil
}

// ExtendedStrategy names every record with an identifier synthesized from
// its mnemonic and maps opcodes to those identifiers. Identifiers must be
// unique within one run and may not reuse any other declared name.
type ExtendedStrategy struct {
	opts     Options
	idents   map[string]optable.Entry
	reserved map[string]bool
}

func (s *ExtendedStrategy) Scope() optable.Scope { return optable.Extended }
func (s *ExtendedStrategy) MapName() string      { return s.opts.ExtMap }

func (s *ExtendedStrategy) Record(e optable.Entry) (Record, error) {
	id := optable.Synthesize(e.Mnemonic, s.opts.ExtTag)
	if s.reserved[id] {
		return Record{}, &optable.TableError{
			Err:       optable.ErrDuplicateIdentifier,
			Pos:       e.Pos,
			Scope:     optable.Extended,
			Detail:    id + " for " + e.Opcode.String() + " is already a declared name",
			Mnemonics: []string{e.Mnemonic},
		}
	}
	if prev, dup := s.idents[id]; dup {
		return Record{}, &optable.TableError{
			Err:       optable.ErrDuplicateIdentifier,
			Pos:       e.Pos,
			Scope:     optable.Extended,
			Detail:    id + " for " + prev.Opcode.String() + " and " + e.Opcode.String(),
			Mnemonics: []string{prev.Mnemonic, e.Mnemonic},
		}
	}
	s.idents[id] = e
	return Record{
		Scope:         optable.Extended,
		Opcode:        e.Opcode,
		Disassembly:   e.Mnemonic,
		Description:   e.Description,
		Identifier:    id,
		OperandCount:  s.opts.OperandCount,
		ImmediateFlag: s.opts.ImmediateFlag,
	}, nil
}
