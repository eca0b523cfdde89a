package tree

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"nasaudit/internal/record"
)

func rec(path string, size float64) record.PathRecord {
	return record.PathRecord{Path: path, Size: size, Type: TypeFile}
}

func TestBuild_Rollups(t *testing.T) {
	idx := Build([]record.PathRecord{
		rec("/a/b/f1", 10),
		rec("/a/b/f2", 20),
		rec("/a/c/f3", 5),
	}, nil)

	a, ok := idx.Node("/a")
	if !ok {
		t.Fatal("Expected node /a")
	}
	if a.Count != 3 || a.Size != 35 {
		t.Errorf("/a: expected count=3 size=35, got count=%d size=%v", a.Count, a.Size)
	}

	b := idx.Nodes["/a/b"]
	if b.Count != 2 || b.Size != 30 {
		t.Errorf("/a/b: expected count=2 size=30, got count=%d size=%v", b.Count, b.Size)
	}

	root := idx.Root()
	if root.Count != 3 || root.Size != 35 {
		t.Errorf("root: expected count=3 size=35, got count=%d size=%v", root.Count, root.Size)
	}
	if root.Name != RootName || root.Type != TypeDirectory {
		t.Errorf("Unexpected root %+v", root)
	}
}

func TestBuild_ImpliedAncestors(t *testing.T) {
	idx := Build([]record.PathRecord{rec("/x/y/z/file.bin", 1)}, nil)

	for _, id := range []string{"/", "/x", "/x/y", "/x/y/z", "/x/y/z/file.bin"} {
		if _, ok := idx.Nodes[id]; !ok {
			t.Errorf("Missing node %s", id)
		}
	}
	if got := idx.Nodes["/x/y"].ParentID; got != "/x" {
		t.Errorf("Expected parent /x, got %s", got)
	}
	if got := idx.Nodes["/x"].ParentID; got != RootID {
		t.Errorf("Expected parent /, got %s", got)
	}
	if got := idx.Nodes["/x/y/z/file.bin"].Name; got != "file.bin" {
		t.Errorf("Expected name file.bin, got %s", got)
	}
}

func TestBuild_PathNormalization(t *testing.T) {
	idx := Build([]record.PathRecord{
		rec("data//photos/./a.jpg", 1),
		rec("/data/photos/b.jpg/", 2),
	}, nil)

	photos, ok := idx.Nodes["/data/photos"]
	if !ok {
		t.Fatal("Expected /data/photos")
	}
	if photos.Count != 2 {
		t.Errorf("Expected count 2, got %d", photos.Count)
	}
	if _, ok := idx.Nodes["/data/photos/b.jpg"]; !ok {
		t.Error("Trailing slash should be dropped")
	}
}

func TestBuild_RepeatedPathsAccumulate(t *testing.T) {
	idx := Build([]record.PathRecord{
		rec("/d/f", 5),
		rec("/d/f", 7),
	}, nil)

	f := idx.Nodes["/d/f"]
	if f.Count != 2 || f.Size != 12 {
		t.Errorf("Expected count=2 size=12, got count=%d size=%v", f.Count, f.Size)
	}
	if idx.Records != 2 {
		t.Errorf("Expected 2 records, got %d", idx.Records)
	}
}

func TestBuild_TypeResolution(t *testing.T) {
	idx := Build([]record.PathRecord{
		// declared a file, later used as a prefix
		{Path: "/a/thing", Type: TypeFile, Hash: "h1"},
		{Path: "/a/thing/inner", Type: TypeFile},
		// used as a prefix, later declared a file
		{Path: "/b/dir/x", Type: TypeFile},
		{Path: "/b/dir", Type: TypeFile},
		// latest terminal declaration wins
		{Path: "/c/link", Type: TypeFile},
		{Path: "/c/link", Type: "symlink"},
		// empty directory record
		{Path: "/e/empty", Type: TypeDirectory},
	}, nil)

	cases := map[string]string{
		"/a/thing":       TypeDirectory,
		"/a/thing/inner": TypeFile,
		"/b/dir":         TypeDirectory,
		"/c/link":        "symlink",
		"/e/empty":       TypeDirectory,
	}
	for id, expected := range cases {
		if got := idx.Nodes[id].Type; got != expected {
			t.Errorf("%s: expected type %q, got %q", id, expected, got)
		}
	}
	if h := idx.Nodes["/a/thing"].Hash; h != "" {
		t.Errorf("Directory should not keep a hash, got %q", h)
	}
}

func TestBuild_LatestModified(t *testing.T) {
	early := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	idx := Build([]record.PathRecord{
		{Path: "/p/a", ModTime: early},
		{Path: "/p/b"},
		{Path: "/p/c", ModTime: late},
		{Path: "/q/d"},
	}, nil)

	if got := idx.Nodes["/p"].Latest; !got.Equal(late) {
		t.Errorf("Expected %v, got %v", late, got)
	}
	if got := idx.Nodes["/p/a"].Latest; !got.Equal(early) {
		t.Errorf("Expected %v, got %v", early, got)
	}
	if got := idx.Nodes["/q"].Latest; !got.IsZero() {
		t.Errorf("Expected zero time for records without mtime, got %v", got)
	}
}

func TestBuild_SkipsUnsplittablePaths(t *testing.T) {
	idx := Build([]record.PathRecord{
		rec("", 1),
		rec("/", 1),
		rec("./.", 1),
		rec("/ok", 1),
		rec("/bad\xff", 1),
	}, nil)

	if idx.Records != 1 {
		t.Errorf("Expected 1 aggregated record, got %d", idx.Records)
	}
	if len(idx.Skipped) != 4 {
		t.Fatalf("Expected 4 skipped records, got %d", len(idx.Skipped))
	}
	if idx.Skipped[0].Position != 1 || !errors.Is(idx.Skipped[0].Reason, ErrEmptyPath) {
		t.Errorf("Unexpected first skip: %+v", idx.Skipped[0])
	}
	if !errors.Is(idx.Skipped[3].Reason, ErrInvalidEncoding) {
		t.Errorf("Expected encoding error, got %v", idx.Skipped[3].Reason)
	}
	if idx.Root().Count != 1 {
		t.Errorf("Skipped records must not count, root count %d", idx.Root().Count)
	}
}

func TestBuild_ChildrenSorted(t *testing.T) {
	idx := Build([]record.PathRecord{
		rec("/z", 1), rec("/a", 1), rec("/m/2", 1), rec("/m/1", 1),
	}, nil)

	if got := idx.ChildIDs(RootID); !reflect.DeepEqual(got, []string{"/a", "/m", "/z"}) {
		t.Errorf("Unexpected root children %v", got)
	}
	if got := idx.ChildIDs("/m"); !reflect.DeepEqual(got, []string{"/m/1", "/m/2"}) {
		t.Errorf("Unexpected /m children %v", got)
	}
}

func TestBuild_PostOrder(t *testing.T) {
	idx := Build([]record.PathRecord{
		rec("/a/b/c", 1), rec("/a/d", 1), rec("/e", 1),
	}, nil)

	order := idx.PostOrder()
	if len(order) != len(idx.Nodes) {
		t.Fatalf("Expected %d ids, got %d", len(idx.Nodes), len(order))
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for id, n := range idx.Nodes {
		if id == RootID {
			continue
		}
		if pos[id] >= pos[n.ParentID] {
			t.Errorf("%s visited after its parent %s", id, n.ParentID)
		}
	}
	if order[len(order)-1] != RootID {
		t.Errorf("Root should be last, got %s", order[len(order)-1])
	}
}

func TestBuild_DeepTree(t *testing.T) {
	path := ""
	for i := 0; i < 2000; i++ {
		path += "/d"
	}
	idx := Build([]record.PathRecord{rec(path, 1)}, nil)

	if len(idx.PostOrder()) != 2001 {
		t.Errorf("Expected 2001 nodes, got %d", len(idx.PostOrder()))
	}
}

func TestBuild_Deterministic(t *testing.T) {
	records := randomRecords(rand.New(rand.NewSource(7)), 300)

	idx1 := Build(records, nil)
	idx2 := Build(records, nil)

	if !reflect.DeepEqual(idx1, idx2) {
		t.Error("Same input should produce the same index")
	}
}

func TestBuild_CountInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		records := randomRecords(rng, 200)
		idx := Build(records, nil)

		own := make(map[string]int)
		for _, r := range records {
			segments, err := SplitPath(r.Path)
			if err != nil {
				continue
			}
			id := ""
			for _, s := range segments {
				id += "/" + s
			}
			own[id]++
		}

		for id, n := range idx.Nodes {
			sum := own[id]
			for _, kid := range idx.ChildIDs(id) {
				sum += idx.Nodes[kid].Count
			}
			if sum != n.Count {
				t.Fatalf("round %d: %s count %d, expected %d", round, id, n.Count, sum)
			}
		}
	}
}

type countingProgress struct {
	increments int
	dirs       map[string]bool
}

func (p *countingProgress) SetDirectory(dir string) { p.dirs[dir] = true }
func (p *countingProgress) Increment()              { p.increments++ }

func TestBuild_ReportsProgress(t *testing.T) {
	p := &countingProgress{dirs: make(map[string]bool)}
	Build([]record.PathRecord{rec("/a/1", 1), rec("/b/2", 1), rec("", 1)}, p)

	if p.increments != 3 {
		t.Errorf("Expected 3 increments, got %d", p.increments)
	}
	if !p.dirs["a"] || !p.dirs["b"] {
		t.Errorf("Expected top-level dirs a and b, got %v", p.dirs)
	}
}

func randomRecords(rng *rand.Rand, n int) []record.PathRecord {
	names := []string{"a", "b", "c", "d"}
	records := make([]record.PathRecord, 0, n)
	for i := 0; i < n; i++ {
		depth := 1 + rng.Intn(4)
		path := ""
		for j := 0; j < depth; j++ {
			path += "/" + names[rng.Intn(len(names))]
		}
		records = append(records, record.PathRecord{
			Path: path,
			Size: float64(rng.Intn(100)),
			Type: TypeFile,
			Hash: fmt.Sprintf("h%d", rng.Intn(10)),
		})
	}
	return records
}
