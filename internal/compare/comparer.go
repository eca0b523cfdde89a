package compare

import (
	"fmt"
	"sort"
	"strings"

	"nasaudit/internal/tree"
)

type ChangeType string

const (
	Added    ChangeType = "ADDED"
	Modified ChangeType = "MODIFIED"
	Removed  ChangeType = "REMOVED"
)

type Change struct {
	Type    ChangeType
	Path    string
	OldData *tree.ExportedNode
	NewData *tree.ExportedNode
}

type CompareResult struct {
	Added    []Change
	Modified []Change
	Removed  []Change
}

func (r *CompareResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Modified) > 0 || len(r.Removed) > 0
}

func leaves(idx *tree.Exported) map[string]tree.ExportedNode {
	out := make(map[string]tree.ExportedNode, len(idx.Nodes))
	for id, n := range idx.Nodes {
		if n.Type == tree.TypeDirectory {
			continue
		}
		if _, hasKids := idx.Children[id]; hasKids {
			continue
		}
		out[id] = n
	}
	return out
}

// Compare reports files added, removed or changed between two inventory
// scans. A file is modified when its size or content hash differs.
func Compare(oldIdx, newIdx *tree.Exported) *CompareResult {
	result := &CompareResult{
		Added:    make([]Change, 0),
		Modified: make([]Change, 0),
		Removed:  make([]Change, 0),
	}

	oldFiles := leaves(oldIdx)
	newFiles := leaves(newIdx)

	for path, newData := range newFiles {
		newDataCopy := newData
		oldData, exists := oldFiles[path]
		if !exists {
			result.Added = append(result.Added, Change{
				Type:    Added,
				Path:    path,
				NewData: &newDataCopy,
			})
			continue
		}
		if oldData.Hash != newData.Hash || oldData.Size != newData.Size {
			oldDataCopy := oldData
			result.Modified = append(result.Modified, Change{
				Type:    Modified,
				Path:    path,
				OldData: &oldDataCopy,
				NewData: &newDataCopy,
			})
		}
	}

	for path, oldData := range oldFiles {
		if _, exists := newFiles[path]; !exists {
			oldDataCopy := oldData
			result.Removed = append(result.Removed, Change{
				Type:    Removed,
				Path:    path,
				OldData: &oldDataCopy,
			})
		}
	}

	// Sort for deterministic output
	for _, changes := range [][]Change{result.Added, result.Modified, result.Removed} {
		sort.Slice(changes, func(i, j int) bool {
			return changes[i].Path < changes[j].Path
		})
	}

	return result
}

func hashOrDash(h string) string {
	if h == "" {
		return "-"
	}
	return h
}

func FormatReport(result *CompareResult) string {
	if !result.HasChanges() {
		return "No changes detected."
	}

	var report strings.Builder
	report.WriteString("Changes detected:\n\n")

	if len(result.Added) > 0 {
		fmt.Fprintf(&report, "ADDED (%d files):\n", len(result.Added))
		for _, change := range result.Added {
			fmt.Fprintf(&report, "  + %s (hash: %s, size: %s)\n",
				change.Path, hashOrDash(change.NewData.Hash), change.NewData.SizeStr)
		}
		report.WriteString("\n")
	}

	if len(result.Modified) > 0 {
		fmt.Fprintf(&report, "MODIFIED (%d files):\n", len(result.Modified))
		for _, change := range result.Modified {
			fmt.Fprintf(&report, "  ~ %s\n", change.Path)
			fmt.Fprintf(&report, "    Old: hash=%s, size=%s, modified=%s\n",
				hashOrDash(change.OldData.Hash), change.OldData.SizeStr, change.OldData.DateStr)
			fmt.Fprintf(&report, "    New: hash=%s, size=%s, modified=%s\n",
				hashOrDash(change.NewData.Hash), change.NewData.SizeStr, change.NewData.DateStr)
		}
		report.WriteString("\n")
	}

	if len(result.Removed) > 0 {
		fmt.Fprintf(&report, "REMOVED (%d files):\n", len(result.Removed))
		for _, change := range result.Removed {
			fmt.Fprintf(&report, "  - %s (hash: %s, size: %s)\n",
				change.Path, hashOrDash(change.OldData.Hash), change.OldData.SizeStr)
		}
		report.WriteString("\n")
	}

	fmt.Fprintf(&report, "Summary: %d added, %d modified, %d removed\n",
		len(result.Added), len(result.Modified), len(result.Removed))

	return report.String()
}
