package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/opgen/internal/doctree"
)

// HTMLParser handles HTML opcode tables. Every <tr> in the document becomes
// a row, in document order; <th> cells are scope markers and <td> cells are
// data cells or group headers.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{Title: baseTitle(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			row := doctree.Row()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if cell := htmlCell(c); cell != nil {
					row.Children = append(row.Children, cell)
				}
			}
			doc.Rows = append(doc.Rows, row)
		}
		// Skip non-content elements.
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return doc, nil
}

// htmlCell converts a <td> or <th> element. It returns nil for anything else.
func htmlCell(n *html.Node) *doctree.Node {
	if n.Type != html.ElementNode {
		return nil
	}
	var cell *doctree.Node
	switch n.Data {
	case "th":
		cell = &doctree.Node{Tag: doctree.TagHeaderCell}
		if t := textContent(n); t != "" {
			cell.Text = []string{t}
		}
		return cell
	case "td":
		cell = &doctree.Node{Tag: doctree.TagDataCell}
	default:
		return nil
	}

	first := firstContent(n)
	switch {
	case first == nil:
	case first.Type == html.TextNode:
		cell.Children = append(cell.Children, textNode(doctree.TagText, collapse(first.Data), attr(n, "title")))
	case first.Data == "strong" || first.Data == "b":
		cell.Children = append(cell.Children, textNode(doctree.TagStrong, textContent(first), ""))
	default:
		title := attr(first, "title")
		if title == "" {
			title = attr(n, "title")
		}
		cell.Children = append(cell.Children, textNode(doctree.TagText, textContent(first), title))
	}
	return cell
}

func textNode(tag doctree.Tag, text, title string) *doctree.Node {
	n := &doctree.Node{Tag: tag, Title: title}
	if text != "" {
		n.Text = []string{text}
	}
	return n
}

// firstContent returns the first child of n that is an element or
// non-blank text.
func firstContent(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return c
		case html.TextNode:
			if collapse(c.Data) != "" {
				return c
			}
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// collapse folds runs of white space the way a browser renders them.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return collapse(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
