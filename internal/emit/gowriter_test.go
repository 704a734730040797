package emit

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/dgallion1/opgen/internal/optable"
)

func generateGo(t *testing.T, opts GoOptions) string {
	t.Helper()
	var out bytes.Buffer
	w := NewGoWriter(&out, "opcodes", opts)
	if err := Generate(sampleDoc(), DefaultOptions(), w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String()
}

func TestGoWriter_Output(t *testing.T) {
	src := generateGo(t, GoOptions{Package: "cpu", Source: "opcodes.html"})

	if _, err := parser.ParseFile(token.NewFileSet(), "opcodes.go", src, 0); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}

	wants := []string{
		"// Code generated by opgen from opcodes.html. DO NOT EDIT.",
		"package cpu",
		"var opcodes = []opcode{",
		`{0x00, "NOP", "No Operation"},`,
		`{0xC0, "RET NZ", "Return if last result was not zero"},`,
		"var opcodeMap = map[uint8]opcode{",
		`0x01: {0x01, "LD BC,nn", "Load 16-bit immediate into BC"},`,
		`OpcodeExtRlcB = extOpcode{0x00, "RLC B", "Rotate B left with carry", 0, 1}`,
		"var opcodeMapExt = map[uint8]extOpcode{",
		"0x01: OpcodeExtRlcC,",
	}
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, src)
		}
	}
}

func TestGoWriter_BaseMapBeforeExtendedDeclarations(t *testing.T) {
	src := generateGo(t, GoOptions{})
	baseMap := strings.Index(src, "var opcodeMap =")
	firstExt := strings.Index(src, "OpcodeExtRlcB =")
	if baseMap < 0 || firstExt < 0 || baseMap > firstExt {
		t.Errorf("expected base map (at %d) before first extended declaration (at %d)", baseMap, firstExt)
	}
	if strings.Count(src, "var opcodeMap =") != 1 {
		t.Errorf("expected exactly one base map, got:\n%s", src)
	}
}

func TestGoWriter_Idempotent(t *testing.T) {
	a := generateGo(t, GoOptions{Source: "opcodes.html"})
	b := generateGo(t, GoOptions{Source: "opcodes.html"})
	if a != b {
		t.Errorf("expected byte-identical output across runs")
	}
}

func TestGoWriter_LookupFunc(t *testing.T) {
	src := generateGo(t, GoOptions{LookupFunc: "LookupExtOpcode"})
	if _, err := parser.ParseFile(token.NewFileSet(), "opcodes.go", src, 0); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
	for _, want := range []string{
		"func LookupExtOpcode(opcodeByte byte) extOpcode {",
		"case 0x01:",
		"return OpcodeExtRlcC",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, src)
		}
	}
}

func TestGoWriter_QuotesText(t *testing.T) {
	var out bytes.Buffer
	w := NewGoWriter(&out, "opcodes", GoOptions{})
	if err := w.Emit(Record{Opcode: 0x22, Disassembly: `LDI (HL),A`, Description: `Save A to "HL", increment`}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"Save A to \"HL\", increment"`) {
		t.Errorf("expected quoted description, got:\n%s", out.String())
	}
}

func TestGoWriter_NothingBeforeClose(t *testing.T) {
	var out bytes.Buffer
	w := NewGoWriter(&out, "opcodes", GoOptions{})
	_ = w.Emit(Record{Opcode: 0x00, Disassembly: "NOP"})
	_ = w.EmitMap(optable.Base, "opcodeMap", nil)
	if out.Len() != 0 {
		t.Errorf("expected no output before Close, got %q", out.String())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected output after Close")
	}
	if err := w.Emit(Record{}); err == nil {
		t.Error("expected error emitting after Close")
	}
}

func TestTreeWriter(t *testing.T) {
	var out bytes.Buffer
	if err := Generate(sampleDoc(), DefaultOptions(), NewTreeWriter(&out, "sample")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.String()
	for _, want := range []string{
		"sample",
		"base",
		"extended",
		"0x0x",
		"0xCx",
		"[0x00]  NOP: No Operation",
		"RLC B (OpcodeExtRlcB): Rotate B left with carry",
		"[3]  opcodeMap",
		"[2]  opcodeMapExt",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected tree to contain %q, got:\n%s", want, s)
		}
	}
}

// typeCheck compiles the given files as one package.
func typeCheck(t *testing.T, sources map[string]string) error {
	t.Helper()
	fset := token.NewFileSet()
	var files []*ast.File
	for name, src := range sources {
		f, err := parser.ParseFile(fset, name, src, 0)
		if err != nil {
			t.Fatalf("%s does not parse: %v\n%s", name, err, src)
		}
		files = append(files, f)
	}
	_, err := (&types.Config{}).Check("cpu", fset, files, nil)
	return err
}

func TestGoWriter_Compiles(t *testing.T) {
	src := generateGo(t, GoOptions{LookupFunc: "LookupExtOpcode"})
	decls := `package cpu

type opcode struct {
	code        uint8
	disassembly string
	description string
}

type extOpcode struct {
	code          uint8
	disassembly   string
	description   string
	payloadLength uint8
	cycles        uint8
}
`
	if err := typeCheck(t, map[string]string{"opcodes.go": src, "types.go": decls}); err != nil {
		t.Errorf("expected generated source to type-check, got %v\n%s", err, src)
	}
}

func TestGoWriter_DeclareTypes(t *testing.T) {
	src := generateGo(t, GoOptions{DeclareTypes: true, LookupFunc: "LookupExtOpcode"})
	if err := typeCheck(t, map[string]string{"opcodes.go": src}); err != nil {
		t.Errorf("expected self-contained source to type-check, got %v\n%s", err, src)
	}
	if !strings.Contains(src, "type extOpcode struct {") {
		t.Errorf("expected extended record type declaration, got:\n%s", src)
	}
}

func TestGoOptions_Validate(t *testing.T) {
	if err := (GoOptions{}).Validate(); err != nil {
		t.Fatalf("expected defaults to be valid, got %v", err)
	}
	tests := []struct {
		name string
		opts GoOptions
	}{
		{"shared record type", GoOptions{RecordType: "opcode", ExtRecordType: "opcode"}},
		{"bad package", GoOptions{Package: "my-cpu"}},
		{"bad lookup", GoOptions{LookupFunc: "Lookup Ext"}},
	}
	for _, tt := range tests {
		if err := tt.opts.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
	if got := (GoOptions{LookupFunc: "Find"}).Names(); strings.Join(got, ",") != "opcode,extOpcode,Find" {
		t.Errorf("expected opcode,extOpcode,Find, got %v", got)
	}
}
