package optable

import (
	"errors"
	"fmt"
)

// Fatal table conditions. Any of them aborts a generation run.
var (
	ErrMalformedGroupHeader = errors.New("malformed group header")
	ErrIndexOverflow        = errors.New("index overflow")
	ErrDuplicateOpcode      = errors.New("duplicate opcode")
	ErrDuplicateIdentifier  = errors.New("duplicate identifier")
)

// Position locates a cell in the document: zero-based row and column.
type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("row %d, cell %d", p.Row+1, p.Col+1)
}

// TableError reports a fatal condition together with where it happened.
type TableError struct {
	Err    error // wraps one of the Err* sentinels
	Pos    Position
	Scope  Scope
	Detail string

	// Mnemonics that produced a duplicate, first occurrence first.
	Mnemonics []string
}

func (e *TableError) Error() string {
	msg := fmt.Sprintf("%s table, %s: %v", e.Scope, e.Pos, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.Mnemonics) == 2 {
		msg += fmt.Sprintf(" (%q and %q)", e.Mnemonics[0], e.Mnemonics[1])
	}
	return msg
}

func (e *TableError) Unwrap() error {
	return e.Err
}
