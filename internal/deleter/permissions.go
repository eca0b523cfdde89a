package deleter

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sys/unix"
)

const writableCacheSize = 4096

// writableDirs remembers whether the process may write to a directory.
// Selections usually hold many files per directory.
type writableDirs struct {
	cache *lru.Cache[string, bool]
	probe func(dir string) bool
}

func newWritableDirs(probe func(dir string) bool) (*writableDirs, error) {
	cache, err := lru.New[string, bool](writableCacheSize)
	if err != nil {
		return nil, err
	}
	if probe == nil {
		probe = canWrite
	}
	return &writableDirs{cache: cache, probe: probe}, nil
}

func (w *writableDirs) Writable(dir string) bool {
	if ok, hit := w.cache.Get(dir); hit {
		return ok
	}
	ok := w.probe(dir)
	w.cache.Add(dir, ok)
	return ok
}

// canWrite asks the kernel with the real uid, like access(2).
func canWrite(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
