package parser

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// pdfShow is one text-showing operation: font F1 is Courier, F2 Courier-Bold.
type pdfShow struct {
	font string
	size float64
	x, y float64
	text string
}

// buildPDF writes a minimal PDF with one page per element of pages.
func buildPDF(pages ...[]pdfShow) []byte {
	var widths strings.Builder
	for c := 32; c <= 126; c++ {
		widths.WriteString(" 600")
	}
	font := func(name string) string {
		return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s ] >>", name, widths.String())
	}
	esc := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)

	// 1 catalog, 2 pages, 3-4 fonts, then a page and its content per page.
	objs := []string{"", "", font("Courier"), font("Courier-Bold")}
	var kids []string
	for _, shows := range pages {
		var content strings.Builder
		for _, s := range shows {
			fmt.Fprintf(&content, "BT /%s %g Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", s.font, s.size, s.x, s.y, esc.Replace(s.text))
		}
		pageNum := len(objs) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>", pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}
	objs[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestPDFParser(t *testing.T) {
	data := buildPDF(
		[]pdfShow{
			{"F1", 16, 50, 750, "LR35902"},
			{"F2", 10, 50, 700, "0"},
			{"F1", 10, 100, 700, "NOP"},
			{"F1", 10, 200, 700, "LD BC,d16"},
			{"F2", 10, 50, 680, "1"},
			{"F1", 10, 200, 680, "LD DE,d16"},
		},
		[]pdfShow{
			{"F1", 14, 50, 750, "CB prefix"},
			{"F2", 10, 50, 700, "0"},
			{"F1", 10, 100, 700, "RLC B"},
			{"F1", 10, 200, 700, "RLC (HL)"},
		},
	)

	doc, err := (&PDFParser{}).Parse(bytes.NewReader(data), "opcodes.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "LR35902" {
		t.Errorf("expected title %q, got %q", "LR35902", doc.Title)
	}
	assertShape(t, doc, []string{
		"S:0 T:NOP| T:LD BC,d16|",
		"S:1 E T:LD DE,d16|",
		"H:CB prefix",
		"S:0 T:RLC B| T:RLC (HL)|",
	})
}

func TestPDFParser_FilenameTitle(t *testing.T) {
	data := buildPDF([]pdfShow{
		{"F2", 10, 50, 700, "0"},
		{"F1", 10, 100, 700, "NOP"},
	})
	doc, err := (&PDFParser{}).Parse(bytes.NewReader(data), "dir/sm83.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "sm83" {
		t.Errorf("expected title %q, got %q", "sm83", doc.Title)
	}
	assertShape(t, doc, []string{"S:0 T:NOP|"})
}

func TestPDFParser_NotPDF(t *testing.T) {
	if _, err := (&PDFParser{}).Parse(strings.NewReader("| 0 | NOP |"), "opcodes.pdf"); err == nil {
		t.Error("expected error for non-PDF input")
	}
}

func TestPDFColumn(t *testing.T) {
	cols := []float64{50, 100, 200}
	tests := []struct {
		x    float64
		want int
	}{
		{50, 0},
		{99.5, 1},
		{150, 1},
		{260, 2},
	}
	for _, tt := range tests {
		if got := pdfColumn(cols, tt.x); got != tt.want {
			t.Errorf("pdfColumn(%g): expected %d, got %d", tt.x, tt.want, got)
		}
	}
}
