package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/opgen/internal/doctree"
)

// DOCXParser handles .docx files. Every table row in the body becomes a row.
// A cell whose first paragraph has a heading style is a scope marker, a cell
// whose first run is bold is a group header, and any other cell is an opcode
// with the first paragraph as mnemonic and the rest as description.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReaderAt and size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return docxDocument(doc, baseTitle(filename)), nil
}

func docxDocument(doc *docx.Docx, title string) *doctree.Document {
	out := &doctree.Document{Title: title}
	titled := false
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			// The first heading before any table names the document.
			if !titled && len(out.Rows) == 0 && docxHeadingLevel(it) == 1 {
				if t := docxParagraphText(it); t != "" {
					out.Title = t
					titled = true
				}
			}
		case *docx.Table:
			out.Rows = append(out.Rows, docxRows(it)...)
		}
	}
	return out
}

func docxRows(tbl *docx.Table) []*doctree.Node {
	var rows, nested []*doctree.Node
	for _, tr := range tbl.TableRows {
		row := doctree.Row()
		for _, tc := range tr.TableCells {
			row.Children = append(row.Children, docxCell(tc))
			for _, inner := range tc.Tables {
				nested = append(nested, docxRows(inner)...)
			}
		}
		rows = append(rows, row)
		rows = append(rows, nested...)
		nested = nested[:0]
	}
	return rows
}

func docxCell(tc *docx.WTableCell) *doctree.Node {
	var paras []*docx.Paragraph
	for _, p := range tc.Paragraphs {
		if docxParagraphText(p) != "" {
			paras = append(paras, p)
		}
	}
	if len(paras) == 0 {
		return &doctree.Node{Tag: doctree.TagDataCell}
	}

	first := paras[0]
	text := docxParagraphText(first)
	if docxHeadingLevel(first) > 0 {
		return doctree.Marker(text)
	}

	cell := &doctree.Node{Tag: doctree.TagDataCell}
	if docxFirstRunBold(first) {
		cell.Children = append(cell.Children, textNode(doctree.TagStrong, text, ""))
		return cell
	}

	var desc []string
	for _, p := range paras[1:] {
		desc = append(desc, docxParagraphText(p))
	}
	cell.Children = append(cell.Children, textNode(doctree.TagText, text, strings.Join(desc, " ")))
	return cell
}

func docxFirstRunBold(para *docx.Paragraph) bool {
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		if strings.TrimSpace(docxRunText(run)) == "" {
			continue
		}
		return run.RunProperties != nil && run.RunProperties.Bold != nil
	}
	return false
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

func docxRunText(run *docx.Run) string {
	var buf strings.Builder
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
		}
	}
	return buf.String()
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		if run, ok := child.(*docx.Run); ok {
			buf.WriteString(docxRunText(run))
		}
	}
	return collapse(buf.String())
}
