package record

import "time"

// PathRecord is one row of a storage inventory. Size is 0 and ModTime is the
// zero time when the source did not provide them.
type PathRecord struct {
	Path    string
	Size    float64
	ModTime time.Time
	Type    string
	Hash    string
}

// HasModTime reports whether the record carries a modification time.
func (r PathRecord) HasModTime() bool {
	return !r.ModTime.IsZero()
}
