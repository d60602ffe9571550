package sorter

import "strings"

// Node represents one physical configuration line and the lines nested
// beneath it. Text is kept verbatim, leading whitespace included, and doubles
// as the node's identity within its sibling group.
type Node struct {
	Text     string
	Indent   int
	Children []*Node
}

// NewNode builds a Node for a single line. Indent counts leading spaces only:
// a tab is treated like any other non-space byte and terminates the count.
func NewNode(text string) *Node {
	return &Node{
		Text:   text,
		Indent: len(text) - len(strings.TrimLeft(text, " ")),
	}
}

// AddChild registers child under n, deduplicating on Text. If a child with
// the same text already exists, that node is returned with its subtree
// untouched; otherwise child is appended and returned. This is how a block
// reopened later in the input accumulates into its first occurrence.
func (n *Node) AddChild(child *Node) *Node {
	for _, c := range n.Children {
		if c.Text == child.Text {
			return c
		}
	}
	n.Children = append(n.Children, child)
	return child
}
