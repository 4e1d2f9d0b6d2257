package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory version store for the CLI and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string][]Version
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{versions: make(map[string][]Version)}
}

// Save stores a document as the project's next version.
func (s *MemoryStore) Save(ctx context.Context, project, document string) (*Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := Version{
		Project:   project,
		Number:    int64(len(s.versions[project])) + 1,
		Document:  document,
		CreatedAt: time.Now().UTC(),
	}
	s.versions[project] = append(s.versions[project], v)
	return &v, nil
}

// Get returns a specific version of a project.
func (s *MemoryStore) Get(ctx context.Context, project string, number int64) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := s.versions[project]
	if number < 1 || number > int64(len(vs)) {
		return nil, ErrNotFound
	}
	v := vs[number-1]
	return &v, nil
}

// Latest returns the most recent version of a project.
func (s *MemoryStore) Latest(ctx context.Context, project string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := s.versions[project]
	if len(vs) == 0 {
		return nil, ErrNotFound
	}
	v := vs[len(vs)-1]
	return &v, nil
}

// List returns all versions of a project in ascending order,
// with the documents omitted.
func (s *MemoryStore) List(ctx context.Context, project string) ([]Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := s.versions[project]
	out := make([]Version, len(vs))
	for i, v := range vs {
		v.Document = ""
		out[i] = v
	}
	return out, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements VersionStore.
var _ VersionStore = (*MemoryStore)(nil)
