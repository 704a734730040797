package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strconv"

	"github.com/dgallion1/opgen/internal/optable"
)

// GoOptions configure the generated Go file.
type GoOptions struct {
	Package       string // package clause of the generated file
	Source        string // document the tables came from, for the header
	RecordType    string // struct type of base records, "opcode" by default
	ExtRecordType string // struct type of extended records, "extOpcode" by default

	// DeclareTypes emits both record struct types so the file compiles on
	// its own.
	DeclareTypes bool

	// LookupFunc, when set, names a switch-based lookup function generated
	// over the extended identifiers.
	LookupFunc string
}

func (o GoOptions) withDefaults() GoOptions {
	if o.Package == "" {
		o.Package = "cpu"
	}
	if o.RecordType == "" {
		o.RecordType = "opcode"
	}
	if o.ExtRecordType == "" {
		o.ExtRecordType = "extOpcode"
	}
	return o
}

// Names returns the top-level names the writer declares besides the
// tables themselves. Feed them to Options.Reserved.
func (o GoOptions) Names() []string {
	o = o.withDefaults()
	names := []string{o.RecordType, o.ExtRecordType}
	if o.LookupFunc != "" {
		names = append(names, o.LookupFunc)
	}
	return names
}

// Validate checks that the options produce compilable source. Base and
// extended records differ in arity, so they need distinct types.
func (o GoOptions) Validate() error {
	o = o.withDefaults()
	for _, n := range []struct{ what, name string }{
		{"package", o.Package},
		{"record type", o.RecordType},
		{"extended record type", o.ExtRecordType},
	} {
		if !token.IsIdentifier(n.name) {
			return fmt.Errorf("%s %q is not a Go identifier", n.what, n.name)
		}
	}
	if o.LookupFunc != "" && !token.IsIdentifier(o.LookupFunc) {
		return fmt.Errorf("lookup function %q is not a Go identifier", o.LookupFunc)
	}
	if o.RecordType == o.ExtRecordType {
		return fmt.Errorf("base and extended records share the type %q", o.RecordType)
	}
	return nil
}

// GoWriter renders tables as Go source. Output is buffered, gofmt'ed and
// written to the destination by Close.
type GoWriter struct {
	dst  io.Writer
	opts GoOptions
	buf  bytes.Buffer

	block    bool
	scope    optable.Scope
	lookup   []Record
	base     string
	finished bool
}

// NewGoWriter returns a writer producing Go source on dst. baseSlice names
// the slice holding base records.
func NewGoWriter(dst io.Writer, baseSlice string, opts GoOptions) *GoWriter {
	opts = opts.withDefaults()
	w := &GoWriter{dst: dst, opts: opts, base: baseSlice}
	if opts.Source != "" {
		fmt.Fprintf(&w.buf, "// Code generated by opgen from %s. DO NOT EDIT.\n\n", opts.Source)
	} else {
		w.buf.WriteString("// Code generated by opgen. DO NOT EDIT.\n\n")
	}
	fmt.Fprintf(&w.buf, "package %s\n", opts.Package)
	if opts.DeclareTypes {
		fmt.Fprintf(&w.buf, "\ntype %s struct {\n\tcode        uint8\n\tdisassembly string\n\tdescription string\n}\n", opts.RecordType)
		fmt.Fprintf(&w.buf, "\ntype %s struct {\n\tcode          uint8\n\tdisassembly   string\n\tdescription   string\n\toperandCount  int\n\timmediateFlag int\n}\n", opts.ExtRecordType)
	}
	return w
}

func (w *GoWriter) Emit(rec Record) error {
	if w.finished {
		return fmt.Errorf("writer closed")
	}
	if !w.block || w.scope != rec.Scope {
		w.closeBlock()
		w.openBlock(rec.Scope)
	}
	switch rec.Scope {
	case optable.Base:
		fmt.Fprintf(&w.buf, "\t%s,\n", w.literal(rec, false))
	case optable.Extended:
		fmt.Fprintf(&w.buf, "\t%s = %s\n", rec.Identifier, w.literal(rec, true))
	}
	return nil
}

func (w *GoWriter) EmitMap(scope optable.Scope, name string, recs []Record) error {
	if w.finished {
		return fmt.Errorf("writer closed")
	}
	w.closeBlock()
	fmt.Fprintf(&w.buf, "\nvar %s = map[uint8]%s{\n", name, w.recordType(scope))
	for _, rec := range recs {
		if rec.Identifier != "" {
			fmt.Fprintf(&w.buf, "\t%s: %s,\n", rec.Opcode, rec.Identifier)
			w.lookup = append(w.lookup, rec)
			continue
		}
		fmt.Fprintf(&w.buf, "\t%s: %s,\n", rec.Opcode, w.literal(rec, false))
	}
	w.buf.WriteString("}\n")
	return nil
}

// Close formats the buffered source and writes it out.
func (w *GoWriter) Close() error {
	if w.finished {
		return nil
	}
	w.finished = true
	w.closeBlock()
	if w.opts.LookupFunc != "" && len(w.lookup) > 0 {
		w.writeLookup()
	}
	src, err := format.Source(w.buf.Bytes())
	if err != nil {
		return fmt.Errorf("go/format: %w", err)
	}
	_, err = w.dst.Write(src)
	return err
}

func (w *GoWriter) openBlock(s optable.Scope) {
	w.block = true
	w.scope = s
	switch s {
	case optable.Base:
		fmt.Fprintf(&w.buf, "\nvar %s = []%s{\n", w.base, w.opts.RecordType)
	case optable.Extended:
		w.buf.WriteString("\nvar (\n")
	}
}

func (w *GoWriter) closeBlock() {
	if !w.block {
		return
	}
	w.block = false
	switch w.scope {
	case optable.Base:
		w.buf.WriteString("}\n")
	case optable.Extended:
		w.buf.WriteString(")\n")
	}
}

func (w *GoWriter) writeLookup() {
	fmt.Fprintf(&w.buf, "\nfunc %s(opcodeByte byte) %s {\n", w.opts.LookupFunc, w.opts.ExtRecordType)
	w.buf.WriteString("\tswitch opcodeByte {\n")
	for _, rec := range w.lookup {
		fmt.Fprintf(&w.buf, "\tcase %s:\n\t\treturn %s\n", rec.Opcode, rec.Identifier)
	}
	w.buf.WriteString("\t}\n")
	fmt.Fprintf(&w.buf, "\tpanic(%q)\n}\n", "unknown opcode")
}

func (w *GoWriter) literal(rec Record, extended bool) string {
	s := fmt.Sprintf("{%s, %s, %s", rec.Opcode, strconv.Quote(rec.Disassembly), strconv.Quote(rec.Description))
	if extended {
		s = w.opts.ExtRecordType + s + fmt.Sprintf(", %d, %d", rec.OperandCount, rec.ImmediateFlag)
	}
	return s + "}"
}

func (w *GoWriter) recordType(s optable.Scope) string {
	if s == optable.Extended {
		return w.opts.ExtRecordType
	}
	return w.opts.RecordType
}
