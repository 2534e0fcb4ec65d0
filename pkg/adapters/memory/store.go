// Package memory provides in-memory store adapters, used as defaults and
// in tests. Safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
)

// DocumentStore implements ports.DocumentStore in memory.
type DocumentStore struct {
	mu       sync.RWMutex
	text     string
	revision uint64
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Seed initializes the store with document text at revision 1.
func (s *DocumentStore) Seed(text string) *DocumentStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.revision = 1
	return s
}

// Get returns the current text and revision.
func (s *DocumentStore) Get(ctx context.Context) (string, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text, s.revision, nil
}

// Put replaces the text, honoring the revision token policy.
func (s *DocumentStore) Put(ctx context.Context, text string, expected uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expected != 0 && expected != s.revision {
		return 0, domain.ErrRevisionConflict
	}
	s.text = text
	s.revision++
	return s.revision, nil
}

// PersonaStore implements ports.PersonaStore in memory.
type PersonaStore struct {
	mu   sync.RWMutex
	data map[string]domain.Persona
}

// NewPersonaStore creates an empty in-memory persona store.
func NewPersonaStore() *PersonaStore {
	return &PersonaStore{data: make(map[string]domain.Persona)}
}

// List returns all personas ordered by ID.
func (s *PersonaStore) List(ctx context.Context) ([]domain.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Persona, 0, len(s.data))
	for _, p := range s.data {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get retrieves a persona by ID.
func (s *PersonaStore) Get(ctx context.Context, id string) (domain.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[id]
	if !ok {
		return domain.Persona{}, domain.ErrPersonaNotFound
	}
	return p, nil
}

// Save creates or replaces a persona.
func (s *PersonaStore) Save(ctx context.Context, p domain.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.ID] = p
	return nil
}

// Delete removes a persona.
func (s *PersonaStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
