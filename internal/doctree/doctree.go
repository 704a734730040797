package doctree

// Tag identifies the kind of a Node.
type Tag string

const (
	TagRow        Tag = "row"        // One table row; children are cells.
	TagHeaderCell Tag = "headerCell" // Marks the start of the extended table.
	TagDataCell   Tag = "dataCell"   // An ordinary cell.
	TagStrong     Tag = "strong"     // Emphasis introducing an opcode prefix.
	TagText       Tag = "text"       // Inline content carrying a mnemonic.
)

// Document is the root of a loaded opcode-map document.
type Document struct {
	Title string  // Document title (from metadata or filename)
	Rows  []*Node // Table rows in document order, all tables concatenated
}

// Node is one element of the document tree. Child order is significant:
// it is the only record of row and column position.
type Node struct {
	Tag      Tag
	Children []*Node
	Text     []string // Text fragments; the first one is authoritative
	Title    string   // Free-text description, may be empty
}

// FirstText returns the authoritative text fragment of n.
func (n *Node) FirstText() string {
	if n == nil || len(n.Text) == 0 {
		return ""
	}
	return n.Text[0]
}

// FirstChild returns the first child of n, or nil.
func (n *Node) FirstChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Row builds a row node from cells.
func Row(cells ...*Node) *Node {
	return &Node{Tag: TagRow, Children: cells}
}

// Header builds a group-header cell for the given prefix text.
func Header(prefix string) *Node {
	return &Node{Tag: TagDataCell, Children: []*Node{{Tag: TagStrong, Text: []string{prefix}}}}
}

// Cell builds a data cell holding one mnemonic and its description.
func Cell(mnemonic, description string) *Node {
	return &Node{Tag: TagDataCell, Children: []*Node{{Tag: TagText, Text: []string{mnemonic}, Title: description}}}
}

// Marker builds a scope-marker cell.
func Marker(text string) *Node {
	n := &Node{Tag: TagHeaderCell}
	if text != "" {
		n.Text = []string{text}
	}
	return n
}
