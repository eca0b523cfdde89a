package tree

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"nasaudit/internal/hash"
	"nasaudit/internal/record"
)

var (
	ErrEmptyPath       = errors.New("path has no segments")
	ErrInvalidEncoding = errors.New("path is not valid UTF-8")
)

// Skipped describes a record the aggregator could not place in the tree.
type Skipped struct {
	// Position is the 1-based position of the record in the input.
	Position int
	Path     string
	Reason   error
}

// Progress receives one Increment per record consumed.
type Progress interface {
	SetDirectory(dir string)
	Increment()
}

// SplitPath breaks a slash-separated path into its segments. Empty and "."
// segments are dropped, so doubled separators and trailing slashes collapse.
func SplitPath(p string) ([]string, error) {
	if !utf8.ValidString(p) {
		return nil, ErrInvalidEncoding
	}

	parts := strings.Split(p, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		segments = append(segments, part)
	}
	if len(segments) == 0 {
		return nil, ErrEmptyPath
	}
	return segments, nil
}

// Aggregator folds path records into an Index. It is single use: call Add
// for every record, then Finalize once.
type Aggregator struct {
	idx      *Index
	seen     int
	progress Progress
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{idx: newIndex()}
}

// WithProgress reports each consumed record to p.
func (a *Aggregator) WithProgress(p Progress) *Aggregator {
	a.progress = p
	return a
}

// Add merges one record into the index. Records whose path cannot be split
// are remembered in Index.Skipped and reported through the returned error;
// the aggregator stays usable.
func (a *Aggregator) Add(rec record.PathRecord) error {
	a.seen++
	if a.progress != nil {
		defer a.progress.Increment()
	}

	segments, err := SplitPath(rec.Path)
	if err != nil {
		a.idx.Skipped = append(a.idx.Skipped, Skipped{Position: a.seen, Path: rec.Path, Reason: err})
		return err
	}
	a.idx.Records++
	if a.progress != nil {
		a.progress.SetDirectory(segments[0])
	}

	accumulate(a.idx.Root(), rec)

	parentID := RootID
	last := len(segments) - 1
	for i, segment := range segments {
		id := childID(parentID, segment)

		n, ok := a.idx.Nodes[id]
		if !ok {
			n = &Node{ID: id, Name: segment, ParentID: parentID}
			a.idx.Nodes[id] = n
			a.idx.Children[parentID] = append(a.idx.Children[parentID], id)
		}
		accumulate(n, rec)

		if i == last {
			n.declared = rec.Type
			if key := hash.ContentKey(rec.Hash); key != "" {
				n.Hash = key
			}
		}
		parentID = id
	}
	return nil
}

// Finalize resolves node types, sorts the child lists and fixes the
// children-before-parents order used by later passes.
func (a *Aggregator) Finalize() *Index {
	idx := a.idx

	for id, n := range idx.Nodes {
		if kids := idx.Children[id]; len(kids) > 0 || id == RootID {
			// Being a prefix of any record outranks every declared type.
			n.Type = TypeDirectory
			n.Hash = ""
			sort.Strings(kids)
			continue
		}
		n.Type = n.declared
		if n.Type == TypeDirectory {
			n.Hash = ""
		}
	}

	idx.postOrder = postOrder(idx)
	return idx
}

// Build aggregates records in order and returns the finalized index.
func Build(records []record.PathRecord, progress Progress) *Index {
	agg := NewAggregator()
	if progress != nil {
		agg.WithProgress(progress)
	}
	for _, rec := range records {
		// Skipped records are collected on the index.
		_ = agg.Add(rec)
	}
	return agg.Finalize()
}

func accumulate(n *Node, rec record.PathRecord) {
	n.Count++
	n.Size += rec.Size
	// Strictly later only, so ties keep the first value seen.
	if rec.HasModTime() && rec.ModTime.After(n.Latest) {
		n.Latest = rec.ModTime
	}
}

func childID(parentID, segment string) string {
	if parentID == RootID {
		return RootID + segment
	}
	return parentID + "/" + segment
}

// postOrder walks the tree with an explicit stack so that deep inventories
// cannot exhaust the goroutine stack.
func postOrder(idx *Index) []string {
	type frame struct {
		id   string
		next int
	}

	order := make([]string, 0, len(idx.Nodes))
	stack := []frame{{id: RootID}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := idx.Children[top.id]
		if top.next < len(kids) {
			child := kids[top.next]
			top.next++
			stack = append(stack, frame{id: child})
			continue
		}
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}
	return order
}
