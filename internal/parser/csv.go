package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/opgen/internal/doctree"
)

// CSVParser handles CSV files. Each record is a row. Cells use a small
// convention:
//
//	**4**          group header for prefix 4
//	# CB prefix    scope marker
//	LD B,C|Copy C  opcode with description
//	(empty)        unused slot
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	for _, rec := range records {
		row := doctree.Row()
		for _, field := range rec {
			row.Children = append(row.Children, csvCell(field))
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

func csvCell(field string) *doctree.Node {
	field = strings.TrimSpace(field)
	switch {
	case field == "":
		return &doctree.Node{Tag: doctree.TagDataCell}
	case strings.HasPrefix(field, "#"):
		return doctree.Marker(strings.TrimSpace(strings.TrimPrefix(field, "#")))
	case len(field) > 4 && strings.HasPrefix(field, "**") && strings.HasSuffix(field, "**"):
		return &doctree.Node{Tag: doctree.TagDataCell, Children: []*doctree.Node{
			textNode(doctree.TagStrong, strings.TrimSpace(field[2:len(field)-2]), ""),
		}}
	}
	mnemonic, desc, _ := strings.Cut(field, "|")
	return doctree.Cell(strings.TrimSpace(mnemonic), strings.TrimSpace(desc))
}
