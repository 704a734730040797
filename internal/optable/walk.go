package optable

import (
	"errors"
	"iter"

	"github.com/dgallion1/opgen/internal/doctree"
)

// Entry is one resolved data cell.
type Entry struct {
	Scope       Scope
	Opcode      Opcode
	Mnemonic    string
	Description string
	Pos         Position
}

// Walker interprets table cells one at a time, in document order. The zero
// value is ready to use and starts in the base scope.
type Walker struct {
	state PrefixState
	scope Scope
	seen  [2]map[Opcode]string
}

// Scope reports the scope the walker is currently in.
func (w *Walker) Scope() Scope {
	return w.scope
}

// Step feeds one cell to the walker. It returns the resolved entry and true
// for a data cell, false for every other kind of cell.
func (w *Walker) Step(n *doctree.Node, pos Position) (Entry, bool, error) {
	switch c := Classify(n).(type) {
	case ScopeMarker:
		w.scope = Extended
		return Entry{}, false, nil

	case GroupHeader:
		if err := w.state.Reset(c.Text); err != nil {
			return Entry{}, false, w.fail(err, pos, "")
		}
		return Entry{}, false, nil

	case EmptyCell:
		if err := w.state.Skip(); err != nil {
			return Entry{}, false, w.fail(err, pos, "")
		}
		return Entry{}, false, nil

	case DataCell:
		op, err := w.state.Next()
		if err != nil {
			return Entry{}, false, w.fail(err, pos, c.Mnemonic)
		}
		seen := w.seen[w.scope]
		if seen == nil {
			seen = make(map[Opcode]string)
			w.seen[w.scope] = seen
		}
		if prev, dup := seen[op]; dup {
			return Entry{}, false, &TableError{
				Err:       ErrDuplicateOpcode,
				Pos:       pos,
				Scope:     w.scope,
				Detail:    op.String(),
				Mnemonics: []string{prev, c.Mnemonic},
			}
		}
		seen[op] = c.Mnemonic
		return Entry{
			Scope:       w.scope,
			Opcode:      op,
			Mnemonic:    c.Mnemonic,
			Description: c.Description,
			Pos:         pos,
		}, true, nil
	}
	return Entry{}, false, nil
}

func (w *Walker) fail(err error, pos Position, mnemonic string) error {
	te := &TableError{Err: err, Pos: pos, Scope: w.scope}
	if errors.Is(err, ErrIndexOverflow) && mnemonic != "" {
		te.Detail = "at " + mnemonic
	}
	return te
}

// Walk yields one entry per data cell of rows, in document order. Iteration
// stops after the first error.
func Walk(rows []*doctree.Node) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		var w Walker
		for r, row := range rows {
			for c, cell := range row.Children {
				e, ok, err := w.Step(cell, Position{Row: r, Col: c})
				if err != nil {
					yield(Entry{}, err)
					return
				}
				if ok && !yield(e, nil) {
					return
				}
			}
		}
	}
}
