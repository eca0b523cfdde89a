package tree

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"nasaudit/internal/record"
)

func TestFormatSize(t *testing.T) {
	cases := map[float64]string{
		0:                        "0 B",
		512:                      "512 B",
		2048:                     "2.00 KB",
		5 * 1024 * 1024:          "5.00 MB",
		1.5 * 1024 * 1024 * 1024: "1.50 GB",
	}
	for in, expected := range cases {
		if got := FormatSize(in); got != expected {
			t.Errorf("FormatSize(%v): expected %q, got %q", in, expected, got)
		}
	}
}

func TestExport(t *testing.T) {
	mtime := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	idx := Build([]record.PathRecord{
		{Path: "/s/b", Size: 2048, Type: TypeFile, Hash: "x", ModTime: mtime},
		{Path: "/s/a", Size: 1, Type: TypeFile},
	}, nil)

	exported, err := Export(idx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if exported.Fingerprint == "" {
		t.Error("Fingerprint should not be empty")
	}
	if got := exported.Children["/s"]; !reflect.DeepEqual(got, []string{"/s/a", "/s/b"}) {
		t.Errorf("Unexpected children %v", got)
	}
	if _, ok := exported.Children["/s/a"]; ok {
		t.Error("Leaves should not appear in the children map")
	}

	b := exported.Nodes["/s/b"]
	if b.SizeStr != "2.00 KB" || b.DateStr != "2024-05-06 07:08:09" || b.Hash != "x" {
		t.Errorf("Unexpected exported node %+v", b)
	}
	if b.DuplicateOthers == nil {
		t.Error("DuplicateOthers should be an empty list, not nil")
	}
	if got := exported.Nodes["/s/a"].DateStr; got != "N/A" {
		t.Errorf("Expected N/A, got %q", got)
	}
	if got := exported.Nodes[RootID].Name; got != RootName {
		t.Errorf("Expected root name %q, got %q", RootName, got)
	}
}

func TestSaveLoad(t *testing.T) {
	idx := Build([]record.PathRecord{rec("/x/1", 3), rec("/x/2", 4)}, nil)
	exported, err := Export(idx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "index.json")
	if err := Save(exported, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(exported, loaded) {
		t.Errorf("Loaded index differs from saved one")
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"nodes": {"/a": {"id": "/a"}}}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject an index without a root node")
	}
}

func TestFingerprint(t *testing.T) {
	records := []record.PathRecord{rec("/a", 1), rec("/b", 2), rec("/c", 3)}

	fp1, err := Fingerprint(Build(records, nil))
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	fp2, _ := Fingerprint(Build(records, nil))
	if fp1 != fp2 {
		t.Error("Fingerprint should be deterministic")
	}

	changed := []record.PathRecord{rec("/a", 1), rec("/b", 2), rec("/c", 4)}
	fp3, _ := Fingerprint(Build(changed, nil))
	if fp1 == fp3 {
		t.Error("Different inputs should produce different fingerprints")
	}

	empty, _ := Fingerprint(Build(nil, nil))
	single, _ := Fingerprint(Build(records[:1], nil))
	if empty == "" || single == "" || empty == single {
		t.Errorf("Unexpected small-index fingerprints %q %q", empty, single)
	}
}
