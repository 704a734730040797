package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/opgen/internal/doctree"
)

// MarkdownParser handles GFM tables using goldmark.
//
// A cell written as **X** is a group header and [MN](# "description") is an
// opcode with a description. Header rows whose cells carry text mark the
// start of the extended table; GFM requires a header row on every table, so
// the base table uses an empty one.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	doc := &doctree.Document{Title: baseTitle(filename)}

	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			if n.Level == 1 && doc.Title == baseTitle(filename) {
				doc.Title = inlineText(n, src)
			}
			return ast.WalkSkipChildren, nil
		case *east.TableHeader:
			row := doctree.Row()
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t := inlineText(c, src); t != "" {
					row.Children = append(row.Children, doctree.Marker(t))
				}
			}
			doc.Rows = append(doc.Rows, row)
			return ast.WalkSkipChildren, nil
		case *east.TableRow:
			row := doctree.Row()
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row.Children = append(row.Children, markdownCell(c, src))
			}
			doc.Rows = append(doc.Rows, row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func markdownCell(cell ast.Node, src []byte) *doctree.Node {
	node := &doctree.Node{Tag: doctree.TagDataCell}
	first := cell.FirstChild()
	if first == nil {
		return node
	}

	switch f := first.(type) {
	case *ast.Emphasis:
		if f.Level == 2 {
			node.Children = append(node.Children, textNode(doctree.TagStrong, inlineText(f, src), ""))
			return node
		}
	case *ast.Link:
		node.Children = append(node.Children, textNode(doctree.TagText, inlineText(f, src), string(f.Title)))
		return node
	}

	if t := inlineText(cell, src); t != "" {
		node.Children = append(node.Children, textNode(doctree.TagText, t, ""))
	}
	return node
}

// inlineText concatenates the text of n's inline descendants. Block lines
// are ignored since table cells keep their raw source there.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
