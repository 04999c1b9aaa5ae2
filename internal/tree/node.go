// Package tree implements a named hierarchy of nodes used to organize
// scene objects. A node's name either labels a group or holds the
// GUID of the geometry it references.
package tree

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Node is a tree node. Parent links are maintained by Add and Remove.
type Node struct {
	GUID string
	Name string

	parent   *Node
	children []*Node
}

// NewNode creates a detached node.
func NewNode(name string) *Node {
	return &Node{
		GUID: uuid.New().String(),
		Name: name,
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("TreeNode(%s, %s, %d children)", n.Name, n.GUID, len(n.children))
}

// Add appends a child, reparenting it under this node.
func (n *Node) Add(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches a direct child, matched by GUID.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c.GUID == child.GUID {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Parent returns the parent node, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Ancestors returns the chain of parents from the node to the root.
func (n *Node) Ancestors() []*Node {
	var result []*Node
	for current := n.parent; current != nil; current = current.parent {
		result = append(result, current)
	}
	return result
}

// Descendants returns all nodes below this one, depth first.
func (n *Node) Descendants() []*Node {
	var result []*Node
	for _, child := range n.children {
		result = append(result, child)
		result = append(result, child.Descendants()...)
	}
	return result
}

// Nodes returns this node and all descendants, preorder.
func (n *Node) Nodes() []*Node {
	result := []*Node{n}
	for _, child := range n.children {
		result = append(result, child.Nodes()...)
	}
	return result
}

// Root walks up to the topmost ancestor.
func (n *Node) Root() *Node {
	if n.parent != nil {
		return n.parent.Root()
	}
	return n
}

// Traverse visits the subtree with the named strategy ("depthfirst"
// or "breadthfirst") and order ("preorder" or "postorder", depth
// first only). Unknown names yield nil.
func (n *Node) Traverse(strategy, order string) []*Node {
	switch strategy {
	case "depthfirst":
		switch order {
		case "preorder":
			return n.Nodes()
		case "postorder":
			return n.postorder()
		}
	case "breadthfirst":
		return n.breadthFirst()
	}
	return nil
}

func (n *Node) postorder() []*Node {
	var result []*Node
	for _, child := range n.children {
		result = append(result, child.postorder()...)
	}
	return append(result, n)
}

func (n *Node) breadthFirst() []*Node {
	var result []*Node
	queue := []*Node{n}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)
		queue = append(queue, node.children...)
	}
	return result
}

type nodeJSON struct {
	Type     string     `json:"type"`
	GUID     string     `json:"guid"`
	Name     string     `json:"name"`
	Children []nodeJSON `json:"children"`
}

func (n *Node) toJSON() nodeJSON {
	children := make([]nodeJSON, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child.toJSON())
	}
	return nodeJSON{Type: "TreeNode", GUID: n.GUID, Name: n.Name, Children: children}
}

func nodeFromJSON(raw nodeJSON) *Node {
	node := NewNode(raw.Name)
	node.GUID = raw.GUID
	for _, child := range raw.Children {
		node.Add(nodeFromJSON(child))
	}
	return node
}

// MarshalJSON implements json.Marshaler, nesting children.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = *nodeFromJSON(raw)
	return nil
}
