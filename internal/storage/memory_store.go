package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
)

// MemoryStore keeps files in memory. It backs dry runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string][]byte
	entries map[string]Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte), entries: make(map[string]Entry)}
}

// Put stores a copy of data.
func (m *MemoryStore) Put(ctx context.Context, sitePath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := CleanPath(sitePath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.files[clean]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, clean)
	}
	m.files[clean] = slices.Clone(data)
	m.entries[clean] = Entry{Path: clean, Hash: hashOf(data), Size: int64(len(data))}
	return nil
}

// Get returns the stored content of sitePath.
func (m *MemoryStore) Get(sitePath string) ([]byte, bool) {
	clean, err := CleanPath(sitePath)
	if err != nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[clean]
	return slices.Clone(data), ok
}

// Open returns a reader over the stored content of sitePath.
func (m *MemoryStore) Open(sitePath string) (io.ReadCloser, error) {
	data, ok := m.Get(sitePath)
	if !ok {
		return nil, fmt.Errorf("%s: %w", sitePath, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Entries lists the stored files.
func (m *MemoryStore) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedEntries(m.entries)
}
