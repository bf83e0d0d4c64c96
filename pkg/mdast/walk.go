package mdast

import "slices"

// WalkFunc is called for every node during a walk.
// Returning a non-nil error stops the walk.
type WalkFunc func(n *Node) error

// Walk visits root and its descendants depth-first in document order.
func Walk(root *Node, fn WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := fn(root); err != nil {
		return err
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}

	return nil
}

// Visit walks root and calls fn only for nodes whose kind is listed.
// With no kinds, fn is called for every node.
func Visit(root *Node, fn WalkFunc, kinds ...NodeKind) error {
	if len(kinds) == 0 {
		return Walk(root, fn)
	}
	return Walk(root, func(n *Node) error {
		if slices.Contains(kinds, n.Kind) {
			return fn(n)
		}
		return nil
	})
}

// FindByKind returns all nodes of the given kind in document order.
func FindByKind(root *Node, kind NodeKind) []*Node {
	var found []*Node

	//nolint:errcheck // the callback never fails
	Visit(root, func(n *Node) error {
		found = append(found, n)
		return nil
	}, kind)

	return found
}
