package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Excluded(t *testing.T) {
	f := NewFilter([]string{"*.tmp", "@eaDir/", ".DS_Store", "backups/*.bak"})

	cases := map[string]bool{
		"/data/file.txt":               false,
		"/data/file.tmp":               true,
		"/data/@eaDir/thumb.jpg":       true,
		"/data/photos/@eaDir":          true,
		"/data/.DS_Store":              true,
		"backups/old.bak":              true,
		"/backups/old.bak":             true,
		"/data/backups/old.bak":        false,
		"/data/eaDir/not-excluded.txt": false,
	}
	for p, want := range cases {
		assert.Equal(t, want, f.Excluded(p), p)
	}
}

func TestFilter_Apply(t *testing.T) {
	f := NewFilter([]string{"*.log"})
	records := []PathRecord{
		{Path: "/a/keep.txt"},
		{Path: "/a/drop.log"},
		{Path: "/b/keep2.txt"},
	}

	kept, dropped := f.Apply(records)
	assert.Equal(t, 1, dropped)
	assert.Len(t, kept, 2)
	assert.Equal(t, "/b/keep2.txt", kept[1].Path)
}

func TestFilter_NoPatterns(t *testing.T) {
	records := []PathRecord{{Path: "/a"}}
	kept, dropped := NewFilter(nil).Apply(records)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, records, kept)
}
