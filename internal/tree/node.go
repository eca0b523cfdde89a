package tree

import (
	"sort"
	"time"
)

const (
	// RootID is the id of the node every other node descends from.
	RootID = "/"
	// RootName is the display name of the root node.
	RootName = "ROOT"

	TypeFile      = "file"
	TypeDirectory = "directory"
)

// Node is one distinct path prefix of the inventory. Count, Size and Latest
// roll up every record whose path passes through the node, itself included.
type Node struct {
	ID       string
	Name     string
	ParentID string
	Type     string

	Count  int
	Size   float64
	Latest time.Time

	// Hash is only kept on leaves.
	Hash            string
	IsDuplicate     bool
	DuplicateOthers []string

	declared string
}

// IsLeaf reports whether n stands for a file: nothing extends below it and
// it was not declared a directory.
func (n *Node) IsLeaf() bool {
	return n.Type != TypeDirectory
}

// Index is the aggregated view of an inventory, keyed by node id. It is
// built once by an Aggregator and only the duplicate flags change afterwards.
type Index struct {
	Nodes    map[string]*Node
	Children map[string][]string

	// Records is the number of records that contributed to the index.
	Records int
	Skipped []Skipped

	postOrder []string
}

func newIndex() *Index {
	idx := &Index{
		Nodes:    make(map[string]*Node),
		Children: make(map[string][]string),
	}
	idx.Nodes[RootID] = &Node{
		ID:       RootID,
		Name:     RootName,
		ParentID: RootID,
		Type:     TypeDirectory,
	}
	return idx
}

// Root returns the root node.
func (idx *Index) Root() *Node {
	return idx.Nodes[RootID]
}

// Node looks up a node by id.
func (idx *Index) Node(id string) (*Node, bool) {
	n, ok := idx.Nodes[id]
	return n, ok
}

// ChildIDs returns the sorted ids of the direct children of id.
func (idx *Index) ChildIDs(id string) []string {
	return idx.Children[id]
}

// PostOrder returns every node id with children listed before their parent.
// The root is always last.
func (idx *Index) PostOrder() []string {
	return idx.postOrder
}

// Leaves returns every leaf node sorted by id.
func (idx *Index) Leaves() []*Node {
	leaves := make([]*Node, 0, len(idx.Nodes))
	for _, n := range idx.Nodes {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].ID < leaves[j].ID
	})
	return leaves
}
