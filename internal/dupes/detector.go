// Package dupes marks duplicate files in an aggregated index and propagates
// the mark to directories whose whole content is duplicated elsewhere.
package dupes

import (
	"sort"

	"nasaudit/internal/hash"
	"nasaudit/internal/tree"
)

// Group is a set of leaves sharing one content hash.
type Group struct {
	Hash string
	IDs  []string
	// Size is the size of the first member; members of a group are expected
	// to have identical content.
	Size float64
}

// Reclaimable is the space freed by keeping a single copy.
func (g Group) Reclaimable() float64 {
	return g.Size * float64(len(g.IDs)-1)
}

type Result struct {
	Groups          []Group
	DuplicateLeaves int
	DuplicateDirs   int
	Reclaimable     float64
}

// Detect groups the leaves of idx by content hash and sets IsDuplicate and
// DuplicateOthers. Rollups are left untouched.
func Detect(idx *tree.Index) *Result {
	result := &Result{}

	byHash := make(map[string][]*tree.Node)
	var order []string
	for _, leaf := range idx.Leaves() {
		leaf.IsDuplicate = false
		leaf.DuplicateOthers = nil

		key := hash.ContentKey(leaf.Hash)
		if key == "" {
			continue
		}
		if _, ok := byHash[key]; !ok {
			order = append(order, key)
		}
		byHash[key] = append(byHash[key], leaf)
	}

	for _, key := range order {
		members := byHash[key]
		if len(members) < 2 {
			continue
		}

		ids := make([]string, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		for i, m := range members {
			m.IsDuplicate = true
			m.DuplicateOthers = make([]string, 0, len(ids)-1)
			m.DuplicateOthers = append(m.DuplicateOthers, ids[:i]...)
			m.DuplicateOthers = append(m.DuplicateOthers, ids[i+1:]...)
		}

		group := Group{Hash: key, IDs: ids, Size: members[0].Size}
		result.Groups = append(result.Groups, group)
		result.DuplicateLeaves += len(members)
		result.Reclaimable += group.Reclaimable()
	}

	result.DuplicateDirs = propagate(idx)

	sort.Slice(result.Groups, func(i, j int) bool {
		if a, b := result.Groups[i].Reclaimable(), result.Groups[j].Reclaimable(); a != b {
			return a > b
		}
		return result.Groups[i].IDs[0] < result.Groups[j].IDs[0]
	})

	return result
}

// propagate walks children before parents so a directory is only judged
// once every child has settled. It returns the number of directories marked.
func propagate(idx *tree.Index) int {
	marked := 0
	for _, id := range idx.PostOrder() {
		n := idx.Nodes[id]
		if n.IsLeaf() {
			continue
		}

		kids := idx.ChildIDs(id)
		all := len(kids) > 0
		for _, kid := range kids {
			if !idx.Nodes[kid].IsDuplicate {
				all = false
				break
			}
		}
		n.IsDuplicate = all
		if all {
			marked++
		}
	}
	return marked
}
