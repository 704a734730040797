package emit

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"

	"github.com/dgallion1/opgen/internal/optable"
)

// TreeWriter lists the tables as a tree: scope, then opcode group, then
// one leaf per opcode.
type TreeWriter struct {
	dst    io.Writer
	tree   treeprint.Tree
	scopes map[optable.Scope]treeprint.Tree
	groups map[optable.Scope]map[uint8]treeprint.Tree
}

// NewTreeWriter returns a writer printing to dst with title as the root.
func NewTreeWriter(dst io.Writer, title string) *TreeWriter {
	tree := treeprint.New()
	if title != "" {
		tree.SetValue(title)
	}
	return &TreeWriter{
		dst:    dst,
		tree:   tree,
		scopes: make(map[optable.Scope]treeprint.Tree),
		groups: make(map[optable.Scope]map[uint8]treeprint.Tree),
	}
}

func (w *TreeWriter) scopeBranch(s optable.Scope) treeprint.Tree {
	b, ok := w.scopes[s]
	if !ok {
		b = w.tree.AddBranch(s.String())
		w.scopes[s] = b
		w.groups[s] = make(map[uint8]treeprint.Tree)
	}
	return b
}

func (w *TreeWriter) Emit(rec Record) error {
	scope := w.scopeBranch(rec.Scope)
	group, ok := w.groups[rec.Scope][rec.Opcode.High()]
	if !ok {
		group = scope.AddBranch(fmt.Sprintf("0x%Xx", rec.Opcode.High()))
		w.groups[rec.Scope][rec.Opcode.High()] = group
	}
	label := rec.Disassembly
	if rec.Identifier != "" {
		label += " (" + rec.Identifier + ")"
	}
	if rec.Description != "" {
		label += ": " + rec.Description
	}
	group.AddMetaNode(rec.Opcode.String(), label)
	return nil
}

func (w *TreeWriter) EmitMap(scope optable.Scope, name string, recs []Record) error {
	w.scopeBranch(scope).AddMetaNode(len(recs), name)
	return nil
}

func (w *TreeWriter) Close() error {
	_, err := io.WriteString(w.dst, w.tree.String())
	return err
}
