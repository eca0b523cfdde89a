package record

import (
	"encoding/json"
	"fmt"
	"io"
)

// LoadSelection decodes an operator selection: a JSON array of path strings.
// Duplicates are dropped, keeping the first occurrence.
func LoadSelection(r io.Reader) ([]string, error) {
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &ValidationError{Field: "selection", Message: fmt.Sprintf("not valid JSON: %v", err)}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Field: "selection", Message: "must be a list of path strings"}
	}

	seen := make(map[string]struct{}, len(items))
	paths := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("selection[%d]", i),
				Message: fmt.Sprintf("expected a string, got %T", item),
			}
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		paths = append(paths, s)
	}
	return paths, nil
}
