package emit

import (
	"fmt"
	"go/token"

	"github.com/dgallion1/opgen/internal/optable"
)

// Record is one generated table entry.
type Record struct {
	Scope       optable.Scope
	Opcode      optable.Opcode
	Disassembly string
	Description string

	// Extended table only.
	Identifier    string
	OperandCount  int
	ImmediateFlag int
}

// Writer receives records and maps in emission order. Nothing reaches the
// writer's destination before Close.
type Writer interface {
	Emit(rec Record) error
	EmitMap(scope optable.Scope, name string, recs []Record) error
	Close() error
}

// Options control naming in the generated tables.
type Options struct {
	BaseMap   string // name of the base opcode map
	ExtMap    string // name of the extended opcode map
	ExtTag    string // prefix of synthesized extended identifiers
	BaseSlice string // name of the base record slice

	// Placeholders carried into every extended record.
	OperandCount  int
	ImmediateFlag int

	// Reserved lists further top-level names the output declares, such as
	// record types and the lookup function. Identifiers may not reuse them.
	Reserved []string
}

// DefaultOptions returns the names used by the cpu package.
func DefaultOptions() Options {
	return Options{
		BaseMap:       "opcodeMap",
		ExtMap:        "opcodeMapExt",
		ExtTag:        "OpcodeExt",
		BaseSlice:     "opcodes",
		OperandCount:  0,
		ImmediateFlag: 1,
		Reserved:      GoOptions{}.Names(),
	}
}

// Validate checks that every configured name can appear in Go source.
func (o Options) Validate() error {
	for _, n := range []struct{ what, name string }{
		{"base map", o.BaseMap},
		{"extended map", o.ExtMap},
		{"extended tag", o.ExtTag},
		{"base slice", o.BaseSlice},
	} {
		if !token.IsIdentifier(n.name) {
			return fmt.Errorf("%s name %q is not a Go identifier", n.what, n.name)
		}
	}
	seen := make(map[string]bool)
	for _, name := range o.declared() {
		if seen[name] {
			return fmt.Errorf("name %q is declared twice", name)
		}
		seen[name] = true
	}
	return nil
}

// declared returns every fixed top-level name of the generated output.
func (o Options) declared() []string {
	names := []string{o.BaseMap, o.ExtMap, o.BaseSlice}
	for _, r := range o.Reserved {
		if r != "" {
			names = append(names, r)
		}
	}
	return names
}
