package cmd

import (
	"fmt"
	"os"

	"github.com/dgallion1/opgen/internal/doctree"
	"github.com/dgallion1/opgen/internal/emit"
	"github.com/dgallion1/opgen/internal/parser"
)

// loadDocument parses the document at path with the parser its extension
// selects.
func loadDocument(path string) (*doctree.Document, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// loadTables parses path and resolves every opcode in it.
func loadTables(path string, opts emit.Options) (*doctree.Document, *emit.Tables, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, nil, err
	}
	tables, err := emit.Build(doc.Rows, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, tables, nil
}
