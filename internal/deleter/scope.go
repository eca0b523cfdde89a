package deleter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidRoot is returned when the scope root is missing or is not a
// directory.
var ErrInvalidRoot = errors.New("invalid scope root")

// Scope confines deletions to one directory tree.
type Scope struct {
	root string
}

// NewScope resolves root, following symlinks, and checks that it is an
// existing directory.
func NewScope(root string) (*Scope, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}
	return &Scope{root: resolved}, nil
}

// Root returns the resolved root directory.
func (s *Scope) Root() string {
	return s.root
}

// Contains reports whether p resolves to the root or somewhere below it.
// Symlinks along the existing part of p are followed, so a link inside the
// root that points elsewhere is not contained.
func (s *Scope) Contains(p string) bool {
	resolved, err := resolveLoose(p)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.root, resolved)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// locate returns the location p names when the kernel walks it. Every
// directory component is resolved, symlinks included, before ".." is
// applied. The final component is kept as is, so a trailing symlink is not
// followed.
func locate(p string) (string, error) {
	sep := string(filepath.Separator)
	if !filepath.IsAbs(p) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		p = wd + sep + p
	}

	i := strings.LastIndex(p, sep)
	dir, base := p[:i], p[i+1:]
	if dir == "" {
		dir = sep
	}

	switch base {
	case "", ".", "..":
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			return "", err
		}
		// "file/" must keep failing with ENOTDIR.
		if base == "" && resolved != sep {
			resolved += sep
		}
		return resolved, nil
	}

	parent, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, base), nil
}

// remove deletes target, which must be inside the scope. The removal goes
// through an os.Root so nothing outside the root can be reached.
func (s *Scope) remove(target string) error {
	rel, err := filepath.Rel(s.root, target)
	if err != nil {
		return err
	}
	root, err := os.OpenRoot(s.root)
	if err != nil {
		return err
	}
	defer root.Close()
	return root.Remove(rel)
}

// resolveLoose makes p absolute and resolves symlinks in its longest
// existing prefix. The missing remainder is appended unchanged.
func resolveLoose(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	cur, rest := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}
