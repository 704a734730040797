package parser

import (
	"testing"

	"github.com/fumiama/go-docx"
)

func TestDOCXDocument(t *testing.T) {
	d := docx.New()
	d.AddParagraph().Style("Heading1").AddText("LR35902")

	base := d.AddTable(2, 3, 0, nil)
	base.TableRows[0].TableCells[0].AddParagraph().AddText("0").Bold()
	nop := base.TableRows[0].TableCells[1]
	nop.AddParagraph().AddText("NOP")
	nop.AddParagraph().AddText("No Operation")
	base.TableRows[0].TableCells[2].AddParagraph().AddText("LD BC,d16")
	base.TableRows[1].TableCells[0].AddParagraph().AddText("1").Bold()
	base.TableRows[1].TableCells[1].AddParagraph().AddText("STOP 0")

	ext := d.AddTable(2, 2, 0, nil)
	ext.TableRows[0].TableCells[0].AddParagraph().Style("Heading 2").AddText("CB prefix")
	ext.TableRows[1].TableCells[0].AddParagraph().AddText("0").Bold()
	rlc := ext.TableRows[1].TableCells[1]
	rlc.AddParagraph().AddText("RLC B")
	rlc.AddParagraph().AddText("Rotate B")
	rlc.AddParagraph().AddText("left")

	doc := docxDocument(d, "opcodes")
	if doc.Title != "LR35902" {
		t.Errorf("expected title %q, got %q", "LR35902", doc.Title)
	}
	assertShape(t, doc, []string{
		"S:0 T:NOP|No Operation T:LD BC,d16|",
		"S:1 T:STOP 0| E",
		"H:CB prefix E",
		"S:0 T:RLC B|Rotate B left",
	})
}

func TestDOCXHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 3", 3},
		{"Heading9", 0},
		{"Normal", 0},
	}
	for _, tt := range tests {
		p := (&docx.Paragraph{}).Style(tt.style)
		if got := docxHeadingLevel(p); got != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.style, tt.want, got)
		}
	}
}
