package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/opgen/internal/optable"
)

const markdownTable = `# LR35902

|   |   |   |
|---|---|---|
| **0** | [NOP](# "No Operation") | [LD BC,d16](# "Load 16-bit immediate into BC") |

| CB prefix |   |   |
|---|---|---|
| **3** | [SWAP B](# "Swap nibbles in B") | [SWAP C](# "Swap nibbles in C") |
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestGenerate_Stdout(t *testing.T) {
	in := writeFile(t, "lr35902.md", markdownTable)
	out, _, err := run(t, "generate", in, "--package", "lr35902", "--lookup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"// Code generated by opgen from lr35902.md. DO NOT EDIT.",
		"package lr35902",
		`{0x01, "LD BC,d16", "Load 16-bit immediate into BC"},`,
		`OpcodeExtSwapC = extOpcode{0x31, "SWAP C", "Swap nibbles in C", 0, 1}`,
		"func LookupExtOpcode(opcodeByte byte) extOpcode {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerate_OutputFile(t *testing.T) {
	in := writeFile(t, "lr35902.md", markdownTable)
	dst := filepath.Join(t.TempDir(), "opcodes.go")
	out, _, err := run(t, "generate", in, "-o", dst, "--ext-tag", "OpcodeCB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "OpcodeCBSwapB") {
		t.Errorf("expected custom tag in output, got:\n%s", data)
	}
}

func TestGenerate_ErrorWritesNothing(t *testing.T) {
	table := "**A**" + strings.Repeat(",NOP", 17) + "\n"
	in := writeFile(t, "overflow.csv", table)
	dst := filepath.Join(t.TempDir(), "opcodes.go")

	_, _, err := run(t, "generate", in, "-o", dst)
	if !errors.Is(err, optable.ErrIndexOverflow) {
		t.Fatalf("expected ErrIndexOverflow, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, got %v", statErr)
	}
}

func TestGenerate_Dump(t *testing.T) {
	in := writeFile(t, "lr35902.md", markdownTable)
	_, stderr, err := run(t, "generate", in, "--dump")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "OpcodeExtSwapB") {
		t.Errorf("expected dump on stderr, got:\n%s", stderr)
	}
}

func TestGenerate_InvalidFlags(t *testing.T) {
	in := writeFile(t, "lr35902.md", markdownTable)
	if _, _, err := run(t, "generate", in, "--package", "not-valid"); err == nil {
		t.Error("expected error for invalid package name")
	}
	if _, _, err := run(t, "generate"); err == nil {
		t.Error("expected error without a file argument")
	}
	if _, _, err := run(t, "generate", writeFile(t, "opcodes.txt", "x")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestTree_UsesConfiguredNames(t *testing.T) {
	t.Setenv("OPGEN_EXT_TAG", "OpcodeCB")
	in := writeFile(t, "lr35902.md", markdownTable)
	out, _, err := run(t, "tree", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "SWAP C (OpcodeCBSwapC)") {
		t.Errorf("expected identifiers tagged from the environment, got:\n%s", out)
	}

	t.Setenv("OPGEN_EXT_TAG", "1bad")
	if _, _, err := run(t, "tree", in); err == nil {
		t.Error("expected error for invalid configuration")
	}
}

func TestGenerate_DeclareTypes(t *testing.T) {
	in := writeFile(t, "lr35902.md", markdownTable)
	out, _, err := run(t, "generate", in, "--declare-types", "--ext-record-type", "cbOpcode")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"type opcode struct {", "type cbOpcode struct {", "OpcodeExtSwapB = cbOpcode{0x30"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTree(t *testing.T) {
	in := writeFile(t, "lr35902.md", markdownTable)
	out, _, err := run(t, "tree", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"LR35902", "base", "extended", "0x3x", "SWAP C (OpcodeExtSwapC): Swap nibbles in C"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected tree to contain %q, got:\n%s", want, out)
		}
	}
}
