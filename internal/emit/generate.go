package emit

import (
	"fmt"

	"github.com/dgallion1/opgen/internal/doctree"
	"github.com/dgallion1/opgen/internal/optable"
)

// Tables holds every record of one run, split by scope, in document order.
type Tables struct {
	Base     []Record
	Extended []Record

	// HasExtended is set once the walk has entered the extended scope,
	// even if no extended records followed.
	HasExtended bool

	opts Options
}

// Build walks rows and resolves every data cell into a record. The whole
// document is validated before anything can be emitted.
func Build(rows []*doctree.Node, opts Options) (*Tables, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &Tables{opts: opts}
	strategy := NewStrategy(optable.Base, opts)
	for e, err := range optable.Walk(rows) {
		if err != nil {
			return nil, err
		}
		if e.Scope != strategy.Scope() {
			strategy = NewStrategy(e.Scope, opts)
		}
		rec, err := strategy.Record(e)
		if err != nil {
			return nil, err
		}
		switch e.Scope {
		case optable.Base:
			t.Base = append(t.Base, rec)
		case optable.Extended:
			t.HasExtended = true
			t.Extended = append(t.Extended, rec)
		}
	}
	if !t.HasExtended {
		t.HasExtended = enteredExtended(rows)
	}
	return t, nil
}

// enteredExtended reports whether rows contain a scope marker.
func enteredExtended(rows []*doctree.Node) bool {
	for _, row := range rows {
		for _, cell := range row.Children {
			if _, ok := optable.Classify(cell).(optable.ScopeMarker); ok {
				return true
			}
		}
	}
	return false
}

// Emit sends the tables to w: base declarations, the base map, then the
// extended declarations and the extended map. The base map is emitted
// exactly once, before the first extended declaration.
func (t *Tables) Emit(w Writer) error {
	for _, rec := range t.Base {
		if err := w.Emit(rec); err != nil {
			return fmt.Errorf("emit %s: %w", rec.Opcode, err)
		}
	}
	if err := w.EmitMap(optable.Base, t.opts.BaseMap, t.Base); err != nil {
		return fmt.Errorf("emit %s: %w", t.opts.BaseMap, err)
	}
	if !t.HasExtended {
		return nil
	}
	for _, rec := range t.Extended {
		if err := w.Emit(rec); err != nil {
			return fmt.Errorf("emit %s: %w", rec.Identifier, err)
		}
	}
	if err := w.EmitMap(optable.Extended, t.opts.ExtMap, t.Extended); err != nil {
		return fmt.Errorf("emit %s: %w", t.opts.ExtMap, err)
	}
	return nil
}

// Generate builds the tables for doc and writes them through w. On any
// error w is not closed, so nothing reaches its destination.
func Generate(doc *doctree.Document, opts Options, w Writer) error {
	t, err := Build(doc.Rows, opts)
	if err != nil {
		return err
	}
	if err := t.Emit(w); err != nil {
		return err
	}
	return w.Close()
}
