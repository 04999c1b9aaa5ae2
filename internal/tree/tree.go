package tree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Tree owns a node hierarchy through its root.
type Tree struct {
	GUID string
	Name string

	rootNode *Node
}

// New creates an empty tree with the given name.
func New(name string) *Tree {
	return &Tree{
		GUID: uuid.New().String(),
		Name: name,
	}
}

func (t *Tree) String() string {
	return fmt.Sprintf("Tree(%s, %s)", t.Name, t.GUID)
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node { return t.rootNode }

// Add inserts a node under parent, or as the root when parent is nil.
func (t *Tree) Add(node *Node, parent *Node) {
	if parent == nil {
		t.rootNode = node
		return
	}
	parent.Add(node)
}

// Nodes returns all nodes in preorder.
func (t *Tree) Nodes() []*Node {
	if t.rootNode == nil {
		return nil
	}
	return t.rootNode.Nodes()
}

// Remove detaches a node from the tree. Removing the root empties the
// tree.
func (t *Tree) Remove(node *Node) bool {
	if t.rootNode == nil {
		return false
	}
	if t.rootNode.GUID == node.GUID {
		t.rootNode = nil
		return true
	}
	if parent := t.findParentOf(node.GUID); parent != nil {
		return parent.Remove(node)
	}
	return false
}

func (t *Tree) findParentOf(nodeGUID string) *Node {
	if t.rootNode == nil {
		return nil
	}
	return findParentRecursive(t.rootNode, nodeGUID)
}

func findParentRecursive(node *Node, targetGUID string) *Node {
	for _, child := range node.Children() {
		if child.GUID == targetGUID {
			return node
		}
		if found := findParentRecursive(child, targetGUID); found != nil {
			return found
		}
	}
	return nil
}

// Leaves returns all nodes without children.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	for _, n := range t.Nodes() {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Traverse visits the tree with the named strategy and order.
func (t *Tree) Traverse(strategy, order string) []*Node {
	if t.rootNode == nil {
		return nil
	}
	return t.rootNode.Traverse(strategy, order)
}

// NodeByName returns the first node with the given name, preorder.
func (t *Tree) NodeByName(name string) *Node {
	for _, n := range t.Nodes() {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NodesByName returns all nodes with the given name.
func (t *Tree) NodesByName(name string) []*Node {
	var out []*Node
	for _, n := range t.Nodes() {
		if n.Name == name {
			out = append(out, n)
		}
	}
	return out
}

// NodeByGUID returns the node with the given GUID, or nil.
func (t *Tree) NodeByGUID(guid string) *Node {
	for _, n := range t.Nodes() {
		if n.GUID == guid {
			return n
		}
	}
	return nil
}

// AddChildByGUID reparents the child node under the parent node, both
// found by GUID.
func (t *Tree) AddChildByGUID(parentGUID, childGUID string) bool {
	parent := t.NodeByGUID(parentGUID)
	child := t.NodeByGUID(childGUID)
	if parent == nil || child == nil {
		return false
	}

	if currentParent := child.Parent(); currentParent != nil {
		currentParent.Remove(child)
	}
	parent.Add(child)
	return true
}

// ChildrenGUIDs returns the GUIDs of the direct children of a node.
func (t *Tree) ChildrenGUIDs(nodeGUID string) []string {
	node := t.NodeByGUID(nodeGUID)
	if node == nil {
		return nil
	}
	children := node.Children()
	guids := make([]string, len(children))
	for i, c := range children {
		guids[i] = c.GUID
	}
	return guids
}

// AddChildByName reparents the child node under the parent node, both
// found by name.
func (t *Tree) AddChildByName(parentName, childName string) bool {
	parent := t.NodeByName(parentName)
	child := t.NodeByName(childName)
	if parent == nil || child == nil {
		return false
	}

	if currentParent := child.Parent(); currentParent != nil {
		currentParent.Remove(child)
	}
	parent.Add(child)
	return true
}

// ChildrenNames returns the names of the direct children of the first
// node with the given name.
func (t *Tree) ChildrenNames(name string) []string {
	node := t.NodeByName(name)
	if node == nil {
		return nil
	}
	children := node.Children()
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	return names
}

// PrintHierarchy writes an indented listing of the tree.
func (t *Tree) PrintHierarchy(w io.Writer) {
	if t.rootNode == nil {
		return
	}
	printNode(w, t.rootNode, 0)
}

func printNode(w io.Writer, node *Node, level int) {
	for i := 0; i < level; i++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintf(w, "├── %s (%s)\n", node.Name, node.GUID)
	for _, child := range node.Children() {
		printNode(w, child, level+1)
	}
}

type treeJSON struct {
	Type string    `json:"type"`
	GUID string    `json:"guid"`
	Name string    `json:"name"`
	Root *nodeJSON `json:"root"`
}

// MarshalJSON implements json.Marshaler.
func (t Tree) MarshalJSON() ([]byte, error) {
	raw := treeJSON{Type: "Tree", GUID: t.GUID, Name: t.Name}
	if t.rootNode != nil {
		root := t.rootNode.toJSON()
		raw.Root = &root
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw treeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.GUID = raw.GUID
	t.Name = raw.Name
	t.rootNode = nil
	if raw.Root != nil {
		t.rootNode = nodeFromJSON(*raw.Root)
	}
	return nil
}
