package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dgallion1/opgen/internal/doctree"
)

// PDFParser recovers opcode tables from the text layout of a PDF. Glyphs on
// one baseline form a row and a wide horizontal gap starts a new cell. Cells
// are aligned to the column starts seen on the page, so a skipped column
// becomes an empty cell. Bold runs are group headers. A line set larger than
// the body text is a scope marker, except that the first one before any row
// names the document.
type PDFParser struct{}

const (
	pdfNudge   = 1.0 // points; baselines and column starts closer than this match
	pdfWordGap = 0.2 // fraction of the font size that separates words
	pdfCellGap = 1.5 // fraction of the font size that separates cells
)

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// ledongthuc/pdf needs a ReaderAt and size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	titled := false
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines, err := pdfLines(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		titled = pdfRows(doc, lines, titled)
	}
	return doc, nil
}

// pdfRun is a stretch of glyphs in one font with no cell-sized gap.
type pdfRun struct {
	text string
	x    float64
	size float64
	bold bool
}

type pdfLine []pdfRun

func (l pdfLine) text() string {
	parts := make([]string, len(l))
	for i, r := range l {
		parts[i] = r.text
	}
	return strings.Join(parts, " ")
}

// pdfLines groups the page's glyphs into lines of runs, top to bottom.
func pdfLines(page pdf.Page) (lines []pdfLine, err error) {
	// The content interpreter panics on malformed streams.
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("read content: %v", r)
		}
	}()

	texts := page.Content().Text
	sort.Sort(pdf.TextVertical(texts))

	y := math.Inf(1)
	end := 0.0
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		if math.Abs(t.Y-y) > pdfNudge {
			lines = append(lines, nil)
			y = t.Y
		}
		li := len(lines) - 1
		line := lines[li]
		bold := pdfBold(t.Font)

		n := len(line)
		gap := t.X - end
		if n == 0 || gap > pdfCellGap*t.FontSize || line[n-1].bold != bold {
			line = append(line, pdfRun{x: t.X, size: t.FontSize, bold: bold})
			n++
		} else if gap > pdfWordGap*t.FontSize {
			line[n-1].text += " "
		}
		line[n-1].text += t.S
		lines[li] = line
		end = t.X + t.W
	}
	return lines, nil
}

// pdfRows appends the page's lines to doc and reports whether the document
// has been titled.
func pdfRows(doc *doctree.Document, lines []pdfLine, titled bool) bool {
	body := pdfBodySize(lines)
	cols := pdfColumns(lines, body)
	for _, line := range lines {
		if pdfHeading(line, body) {
			if !titled && len(doc.Rows) == 0 {
				doc.Title = line.text()
				titled = true
				continue
			}
			doc.Rows = append(doc.Rows, doctree.Row(doctree.Marker(line.text())))
			continue
		}

		row := doctree.Row()
		next := 0
		for _, run := range line {
			col := pdfColumn(cols, run.x)
			for ; next < col; next++ {
				row.Children = append(row.Children, &doctree.Node{Tag: doctree.TagDataCell})
			}
			if run.bold {
				row.Children = append(row.Children, doctree.Header(run.text))
			} else {
				row.Children = append(row.Children, doctree.Cell(run.text, ""))
			}
			next = max(next, col+1)
		}
		doc.Rows = append(doc.Rows, row)
	}
	return titled
}

// pdfBodySize returns the most common font size, rounded to half a point.
func pdfBodySize(lines []pdfLine) float64 {
	counts := make(map[float64]int)
	best, bestN := 0.0, 0
	for _, line := range lines {
		for _, r := range line {
			size := math.Round(r.size*2) / 2
			counts[size]++
			if n := counts[size]; n > bestN || n == bestN && size < best {
				best, bestN = size, n
			}
		}
	}
	return best
}

func pdfHeading(line pdfLine, body float64) bool {
	if len(line) == 0 {
		return false
	}
	for _, r := range line {
		if r.size <= body+0.5 {
			return false
		}
	}
	return true
}

// pdfColumns returns the distinct run start positions of the page's table
// lines, left to right.
func pdfColumns(lines []pdfLine, body float64) []float64 {
	var xs []float64
	for _, line := range lines {
		if pdfHeading(line, body) {
			continue
		}
		for _, r := range line {
			xs = append(xs, r.x)
		}
	}
	sort.Float64s(xs)

	var cols []float64
	for _, x := range xs {
		if len(cols) == 0 || x-cols[len(cols)-1] >= pdfNudge {
			cols = append(cols, x)
		}
	}
	return cols
}

func pdfColumn(cols []float64, x float64) int {
	i := 0
	for i+1 < len(cols) && cols[i+1] <= x+pdfNudge {
		i++
	}
	return i
}

func pdfBold(font string) bool {
	f := strings.ToLower(font)
	return strings.Contains(f, "bold") || strings.Contains(f, "black")
}
