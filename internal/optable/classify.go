package optable

import (
	"strings"

	"github.com/dgallion1/opgen/internal/doctree"
)

// Cell is the classified form of a table cell. It is one of GroupHeader,
// DataCell, EmptyCell or ScopeMarker.
type Cell interface {
	cell()
}

// GroupHeader starts a new opcode group.
type GroupHeader struct {
	Text string
}

// DataCell describes a single opcode.
type DataCell struct {
	Mnemonic    string
	Description string
}

// EmptyCell is an unassigned opcode slot. It occupies a position in its
// group but produces no record.
type EmptyCell struct{}

// ScopeMarker announces the extended table.
type ScopeMarker struct{}

func (GroupHeader) cell() {}
func (DataCell) cell()    {}
func (EmptyCell) cell()   {}
func (ScopeMarker) cell() {}

// Classify decides what a cell node means. Only the cell's tag and its
// first child are consulted.
func Classify(n *doctree.Node) Cell {
	if n.Tag == doctree.TagHeaderCell {
		return ScopeMarker{}
	}
	first := n.FirstChild()
	if first == nil {
		return EmptyCell{}
	}
	if first.Tag == doctree.TagStrong {
		return GroupHeader{Text: first.FirstText()}
	}
	mnemonic := first.FirstText()
	if strings.TrimSpace(mnemonic) == "" {
		return EmptyCell{}
	}
	return DataCell{Mnemonic: mnemonic, Description: first.Title}
}
