package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// FSStore writes files below a root directory. Each file is written to a
// temporary sibling and renamed into place.
type FSStore struct {
	root    string
	mu      sync.Mutex
	entries map[string]Entry
}

// NewFSStore creates the root directory. With clean set, existing contents of
// root are removed first.
func NewFSStore(root string, clean bool) (*FSStore, error) {
	if root == "" {
		return nil, fmt.Errorf("output root must not be empty")
	}
	if clean {
		if err := cleanDir(root); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", root, err)
	}
	return &FSStore{root: root, entries: make(map[string]Entry)}, nil
}

// Root is the output directory.
func (s *FSStore) Root() string { return s.root }

// Put writes data under root at sitePath.
func (s *FSStore) Put(ctx context.Context, sitePath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := CleanPath(sitePath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, dup := s.entries[clean]; dup {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicatePath, clean)
	}
	s.entries[clean] = Entry{Path: clean, Hash: hashOf(data), Size: int64(len(data))}
	s.mu.Unlock()

	target := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", clean, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", clean, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", clean, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", clean, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", clean, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", clean, err)
	}
	return nil
}

// Open opens a file written by this store.
func (s *FSStore) Open(sitePath string) (io.ReadCloser, error) {
	clean, err := CleanPath(sitePath)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	_, ok := s.entries[clean]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", clean, os.ErrNotExist)
	}
	// #nosec G304 -- path was cleaned and recorded by Put
	return os.Open(filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
}

// Entries lists the written files.
func (s *FSStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedEntries(s.entries)
}

// cleanDir empties dir without removing dir itself, so a server rooted there
// keeps working.
func cleanDir(dir string) error {
	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read output directory %s: %w", dir, err)
	}
	for _, item := range items {
		if err := os.RemoveAll(filepath.Join(dir, item.Name())); err != nil {
			return fmt.Errorf("clean output directory %s: %w", dir, err)
		}
	}
	return nil
}

func sortedEntries(m map[string]Entry) []Entry {
	out := make([]Entry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })
	return out
}
