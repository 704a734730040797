package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/opgen/internal/doctree"
)

// JSONParser loads a scraped table dump: an array of rows, each
// {"tag":"tr","children":[cells]}, where a cell is {"tag":"td"|"th",
// "children":[{"tag":"strong"|..., "text":..., "title":...}]}.
type JSONParser struct{}

type jsonNode struct {
	Tag      string     `json:"tag"`
	Children []jsonNode `json:"children"`
	Text     jsonText   `json:"text"`
	Title    string     `json:"title"`
}

// jsonText accepts either a single string or an array of fragments.
type jsonText []string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "" {
			*t = jsonText{s}
		}
		return nil
	}
	var frags []string
	if err := json.Unmarshal(b, &frags); err != nil {
		return fmt.Errorf("text must be a string or array of strings: %w", err)
	}
	*t = frags
	return nil
}

func (p *JSONParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	var rows []jsonNode
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	for i, row := range rows {
		if row.Tag != "tr" && row.Tag != "row" {
			return nil, fmt.Errorf("row %d: unexpected tag %q", i+1, row.Tag)
		}
		out := doctree.Row()
		for j, cell := range row.Children {
			n, err := jsonCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, cell %d: %w", i+1, j+1, err)
			}
			out.Children = append(out.Children, n)
		}
		doc.Rows = append(doc.Rows, out)
	}
	return doc, nil
}

func jsonCell(cell jsonNode) (*doctree.Node, error) {
	var tag doctree.Tag
	switch cell.Tag {
	case "th", "headerCell":
		tag = doctree.TagHeaderCell
	case "td", "dataCell":
		tag = doctree.TagDataCell
	default:
		return nil, fmt.Errorf("unexpected cell tag %q", cell.Tag)
	}

	n := &doctree.Node{Tag: tag, Text: cell.Text, Title: cell.Title}
	for _, c := range cell.Children {
		child := &doctree.Node{Tag: doctree.TagText, Text: c.Text, Title: c.Title}
		if c.Tag == "strong" || c.Tag == "b" {
			child.Tag = doctree.TagStrong
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}
