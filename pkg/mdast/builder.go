package mdast

// NewNode creates a detached node of the given kind with no source range.
func NewNode(kind NodeKind) *Node {
	return &Node{
		Kind:  kind,
		Range: NoRange(),
	}
}

// NewDocument creates a new document root node.
func NewDocument() *Node {
	return NewNode(NodeDocument)
}

// AppendChild adds child as the last child of parent.
// A child that already has a parent is detached from it first.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	detach(child)

	child.Parent = parent
	child.Prev = parent.LastChild

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// InsertBefore inserts node as the previous sibling of sibling.
// sibling must have a parent.
func InsertBefore(sibling, node *Node) {
	if sibling == nil || node == nil || sibling.Parent == nil {
		return
	}

	detach(node)

	node.Parent = sibling.Parent
	node.Prev = sibling.Prev
	node.Next = sibling

	if sibling.Prev != nil {
		sibling.Prev.Next = node
	} else {
		sibling.Parent.FirstChild = node
	}

	sibling.Prev = node
}

// RemoveChild unlinks child from parent.
// It is a no-op when child does not belong to parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

func detach(n *Node) {
	if n.Parent != nil {
		RemoveChild(n.Parent, n)
	}
}

// SetRange sets the byte range for a node.
func SetRange(n *Node, start, end int) {
	if n == nil {
		return
	}
	n.Range = SourceRange{StartOffset: start, EndOffset: end}
}

// SetFile points node and all its descendants at file.
func SetFile(node *Node, file *FileSnapshot) {
	//nolint:errcheck // the callback never fails
	Walk(node, func(n *Node) error {
		n.File = file
		return nil
	})
}
