package record

import (
	"path"
	"strings"
)

// Filter drops records whose path matches one of the configured exclusion
// patterns. Patterns ending in "/" exclude any record below a matching
// directory segment; other patterns are matched against the basename, or
// against the whole path when they contain a "/".
type Filter struct {
	patterns []string
}

// NewFilter creates a Filter for the given patterns.
func NewFilter(patterns []string) *Filter {
	return &Filter{patterns: patterns}
}

// Apply returns the records that are not excluded and the number dropped.
func (f *Filter) Apply(records []PathRecord) ([]PathRecord, int) {
	if f == nil || len(f.patterns) == 0 {
		return records, 0
	}

	kept := make([]PathRecord, 0, len(records))
	for _, rec := range records {
		if f.Excluded(rec.Path) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, len(records) - len(kept)
}

// Excluded reports whether p matches any pattern.
func (f *Filter) Excluded(p string) bool {
	rel := strings.Trim(path.Clean("/"+p), "/")
	if rel == "" {
		return false
	}

	for _, pattern := range f.patterns {
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			for _, part := range strings.Split(rel, "/") {
				if part == dirPattern {
					return true
				}
				if matched, _ := path.Match(dirPattern, part); matched {
					return true
				}
			}
			continue
		}

		if matched, err := path.Match(pattern, path.Base(rel)); err == nil && matched {
			return true
		}
		if strings.Contains(pattern, "/") {
			if matched, err := path.Match(strings.TrimPrefix(pattern, "/"), rel); err == nil && matched {
				return true
			}
		}
	}
	return false
}
