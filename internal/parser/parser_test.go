package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/opgen/internal/doctree"
)

// shape renders rows compactly: S:x is a group header, T:mn|desc an opcode,
// H:x a scope marker and E an empty cell.
func shape(doc *doctree.Document) []string {
	var rows []string
	for _, row := range doc.Rows {
		var cells []string
		for _, c := range row.Children {
			cells = append(cells, cellShape(c))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows
}

func cellShape(c *doctree.Node) string {
	if c.Tag == doctree.TagHeaderCell {
		return "H:" + c.FirstText()
	}
	first := c.FirstChild()
	switch {
	case first == nil:
		return "E"
	case first.Tag == doctree.TagStrong:
		return "S:" + first.FirstText()
	default:
		return "T:" + first.FirstText() + "|" + first.Title
	}
}

func assertShape(t *testing.T, doc *doctree.Document, want []string) {
	t.Helper()
	got := shape(doc)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("expected rows:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"opcodes.html", "*parser.HTMLParser"},
		{"opcodes.HTM", "*parser.HTMLParser"},
		{"opcodes.md", "*parser.MarkdownParser"},
		{"opcodes.docx", "*parser.DOCXParser"},
		{"opcodes.json", "*parser.JSONParser"},
		{"opcodes.csv", "*parser.CSVParser"},
		{"opcodes.pdf", "*parser.PDFParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}

	if _, err := ForFile("opcodes.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("notes.txt") {
		t.Error("expected .txt to be unsupported")
	}
}
