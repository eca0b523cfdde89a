package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const dateLayout = "2006-01-02 15:04:05"

// ExportedNode is the public view of a Node handed to viewers.
type ExportedNode struct {
	Name            string   `json:"name"`
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	SizeStr         string   `json:"sizeStr"`
	DateStr         string   `json:"dateStr"`
	Count           int      `json:"count"`
	IsDuplicate     bool     `json:"isDuplicate"`
	DuplicateOthers []string `json:"duplicateOthers"`
	Size            float64  `json:"size"`
	Hash            string   `json:"hash,omitempty"`
}

// Exported is the flat form of an Index: nodes by id, plus the sorted child
// ids of every node that has children.
type Exported struct {
	Fingerprint string                  `json:"fingerprint"`
	Records     int                     `json:"records"`
	Nodes       map[string]ExportedNode `json:"nodes"`
	Children    map[string][]string     `json:"children"`
}

type SerializedIndex struct {
	Generator string    `json:"generator"`
	Created   time.Time `json:"created"`
	Size      string    `json:"size"`
	*Exported
}

func formatSize(bytes float64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", bytes/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", bytes/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", bytes/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", bytes/KB)
	default:
		return fmt.Sprintf("%.0f B", bytes)
	}
}

// FormatSize renders a byte count for humans.
func FormatSize(bytes float64) string {
	return formatSize(bytes)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}

// Export flattens idx for a viewer. Run duplicate detection first; the
// duplicate flags are copied as they are.
func Export(idx *Index) (*Exported, error) {
	fingerprint, err := Fingerprint(idx)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint index: %w", err)
	}

	out := &Exported{
		Fingerprint: fingerprint,
		Records:     idx.Records,
		Nodes:       make(map[string]ExportedNode, len(idx.Nodes)),
		Children:    make(map[string][]string, len(idx.Children)),
	}

	for id, n := range idx.Nodes {
		others := make([]string, len(n.DuplicateOthers))
		copy(others, n.DuplicateOthers)

		out.Nodes[id] = ExportedNode{
			Name:            n.Name,
			ID:              n.ID,
			Type:            n.Type,
			SizeStr:         formatSize(n.Size),
			DateStr:         formatDate(n.Latest),
			Count:           n.Count,
			IsDuplicate:     n.IsDuplicate,
			DuplicateOthers: others,
			Size:            n.Size,
			Hash:            n.Hash,
		}
	}
	for id, kids := range idx.Children {
		if len(kids) == 0 {
			continue
		}
		out.Children[id] = append([]string(nil), kids...)
	}

	return out, nil
}

func Save(exported *Exported, path string) error {
	var total float64
	if root, ok := exported.Nodes[RootID]; ok {
		total = root.Size
	}

	serialized := SerializedIndex{
		Generator: "nasaudit",
		Created:   time.Now(),
		Size:      formatSize(total),
		Exported:  exported,
	}

	data, err := json.MarshalIndent(serialized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func Load(path string) (*Exported, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var serialized SerializedIndex
	if err := json.Unmarshal(data, &serialized); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}

	if serialized.Exported == nil || serialized.Nodes == nil {
		return nil, fmt.Errorf("failed to load index %s: no nodes", path)
	}
	if _, ok := serialized.Nodes[RootID]; !ok {
		return nil, fmt.Errorf("failed to load index %s: missing root node", path)
	}
	if serialized.Children == nil {
		serialized.Children = make(map[string][]string)
	}

	return serialized.Exported, nil
}
